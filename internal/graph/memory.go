package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/mutatrack/internal/model"
)

// edgeKey identifies a directed edge by its ordered endpoints
type edgeKey struct {
	from string
	to   string
}

// edgeAttr carries the mutable edge attributes refreshed on upsert
type edgeAttr struct {
	similarity float64
	detectedAt time.Time
}

// Memory is the in-process graph store: an arena of nodes plus an
// adjacency map keyed by id. A single coarse lock serializes writes
// against traversals, which is sufficient at expected claim volumes.
type Memory struct {
	mu        sync.RWMutex
	nodes     map[string]model.Claim
	edges     map[edgeKey]edgeAttr
	neighbors map[string]map[string]struct{} // Undirected view for reachability
	now       func() time.Time
}

// NewMemory creates an empty in-memory graph
func NewMemory() *Memory {
	return &Memory{
		nodes:     make(map[string]model.Claim),
		edges:     make(map[edgeKey]edgeAttr),
		neighbors: make(map[string]map[string]struct{}),
		now:       time.Now,
	}
}

// AddClaim upserts a claim node, overwriting attributes on repeat calls
func (g *Memory) AddClaim(_ context.Context, claim model.Claim) error {
	if claim.ID == "" {
		return fmt.Errorf("claim id is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[claim.ID] = claim
	if g.neighbors[claim.ID] == nil {
		g.neighbors[claim.ID] = make(map[string]struct{})
	}
	return nil
}

// AddMutationEdge upserts the (fromID, toID) edge with merge semantics:
// a repeat insert updates similarity and detection time, never duplicates.
func (g *Memory) AddMutationEdge(_ context.Context, fromID, toID string, similarity float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[fromID]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingNode, fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("%w: %s", ErrMissingNode, toID)
	}

	g.edges[edgeKey{from: fromID, to: toID}] = edgeAttr{
		similarity: similarity,
		detectedAt: g.now(),
	}
	g.neighbors[fromID][toID] = struct{}{}
	g.neighbors[toID][fromID] = struct{}{}
	return nil
}

// FindFamily runs a bounded BFS from the seed over the undirected edge
// view. The visited set makes cycles safe.
func (g *Memory) FindFamily(_ context.Context, seedID string, maxDepth, maxResults int) ([]model.FamilyMember, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	distances := g.bfs(seedID, maxDepth)
	if distances == nil {
		return []model.FamilyMember{}, nil
	}

	members := make([]model.FamilyMember, 0, len(distances))
	for id, distance := range distances {
		node := g.nodes[id]
		members = append(members, model.FamilyMember{
			ID:        node.ID,
			Text:      node.Text,
			Timestamp: node.Timestamp,
			Platform:  node.Platform,
			Distance:  distance,
		})
	}

	return sortFamily(members, maxResults), nil
}

// FindPatientZero returns the earliest claim reachable within maxDepth,
// ties broken by id. Unknown seed yields nil without error.
func (g *Memory) FindPatientZero(_ context.Context, seedID string, maxDepth int) (*model.Claim, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	distances := g.bfs(seedID, maxDepth)
	if distances == nil {
		return nil, nil
	}

	claims := make([]model.Claim, 0, len(distances))
	for id := range distances {
		claims = append(claims, g.nodes[id])
	}
	return earliest(claims), nil
}

// Close is a no-op for the in-memory store
func (g *Memory) Close() error {
	return nil
}

// NodeCount reports the number of claims in the graph
func (g *Memory) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount reports the number of directed edges in the graph
func (g *Memory) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// bfs returns reachable node ids mapped to traversal distance, or nil
// when the seed is unknown. Callers must hold at least a read lock.
func (g *Memory) bfs(seedID string, maxDepth int) map[string]int {
	if _, ok := g.nodes[seedID]; !ok {
		return nil
	}

	distances := map[string]int{seedID: 0}
	frontier := []string{seedID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for neighbor := range g.neighbors[id] {
				if _, seen := distances[neighbor]; seen {
					continue
				}
				distances[neighbor] = depth + 1
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return distances
}

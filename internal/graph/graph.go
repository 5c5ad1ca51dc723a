// Package graph maintains the directed mutation graph: claims as nodes,
// "mutates-to" edges weighted by similarity. Families are found by
// treating edges as undirected for reachability; cycles are expected and
// traversal is bounded.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ppiankov/mutatrack/internal/model"
)

// ErrMissingNode is returned when an edge references a claim that is not
// in the graph. The single edge is rejected; processing continues.
var ErrMissingNode = errors.New("edge endpoint not in graph")

// Store is the mutation graph contract. A missing seed id yields an
// empty family / no patient zero rather than an error, since "claim not
// yet in graph" is an expected transient state during ingestion races.
type Store interface {
	// AddClaim upserts a claim node. Repeat calls overwrite attributes
	// (last-write-wins) and never create duplicate nodes.
	AddClaim(ctx context.Context, claim model.Claim) error

	// AddMutationEdge upserts the (fromID, toID) edge, refreshing its
	// similarity and detection time. Both endpoints must already exist.
	AddMutationEdge(ctx context.Context, fromID, toID string, similarity float64) error

	// FindFamily returns claims reachable from the seed within maxDepth
	// hops, capped at maxResults, ordered by (distance asc, timestamp
	// asc). The seed itself is always included at distance 0.
	FindFamily(ctx context.Context, seedID string, maxDepth, maxResults int) ([]model.FamilyMember, error)

	// FindPatientZero returns the earliest-timestamped claim reachable
	// within maxDepth, or nil when the seed is unknown.
	FindPatientZero(ctx context.Context, seedID string, maxDepth int) (*model.Claim, error)

	// Close releases backend resources.
	Close() error
}

// Backend names accepted in configuration
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// New creates a graph store based on configuration. The backend is
// selected once here; callers never inspect runtime state to decide.
func New(cfg model.GraphConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(), nil

	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite graph backend requires a path")
		}
		return NewSQLite(cfg.Path)

	case BackendNone:
		return NewNull(), nil

	default:
		return nil, fmt.Errorf("unknown graph backend: %s (supported: memory, sqlite, none)", cfg.Backend)
	}
}

// sortFamily orders members by (distance asc, timestamp asc, id asc) and
// truncates to maxResults. Id is the final tie-break so ordering stays
// deterministic for same-instant claims.
func sortFamily(members []model.FamilyMember, maxResults int) []model.FamilyMember {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Distance != members[j].Distance {
			return members[i].Distance < members[j].Distance
		}
		if !members[i].Timestamp.Equal(members[j].Timestamp) {
			return members[i].Timestamp.Before(members[j].Timestamp)
		}
		return members[i].ID < members[j].ID
	})

	if maxResults > 0 && len(members) > maxResults {
		members = members[:maxResults]
	}
	return members
}

// earliest returns the member claim with the minimum timestamp, ties
// broken by id so the result is deterministic.
func earliest(claims []model.Claim) *model.Claim {
	if len(claims) == 0 {
		return nil
	}

	best := claims[0]
	for _, c := range claims[1:] {
		if c.Timestamp.Before(best.Timestamp) ||
			(c.Timestamp.Equal(best.Timestamp) && c.ID < best.ID) {
			best = c
		}
	}
	return &best
}

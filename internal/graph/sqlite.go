package graph

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/mutatrack/internal/model"
)

// SQLite is the persistent graph store. It keeps the same upsert and
// traversal semantics as the in-memory store but survives restarts, so a
// claim family keeps accumulating across ingestion runs.
type SQLite struct {
	mu  sync.Mutex // go-sqlite3 serializes writes anyway; this keeps upserts atomic with their checks
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens or creates the graph database at path and ensures the
// schema exists
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening graph database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating graph schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS claims (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			normalized_text TEXT,
			timestamp TEXT NOT NULL,
			source_url TEXT,
			platform TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS mutation_edges (
			from_id TEXT NOT NULL REFERENCES claims(id),
			to_id TEXT NOT NULL REFERENCES claims(id),
			similarity REAL NOT NULL,
			detected_at TEXT NOT NULL,
			PRIMARY KEY (from_id, to_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_from ON mutation_edges(from_id)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON mutation_edges(to_id)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_timestamp ON claims(timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AddClaim upserts a claim row, overwriting attributes on conflict
func (s *SQLite) AddClaim(ctx context.Context, claim model.Claim) error {
	if claim.ID == "" {
		return fmt.Errorf("claim id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claims (id, text, normalized_text, timestamp, source_url, platform)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			normalized_text = excluded.normalized_text,
			timestamp = excluded.timestamp,
			source_url = excluded.source_url,
			platform = excluded.platform`,
		claim.ID, claim.Text, claim.NormalizedText,
		claim.Timestamp.UTC().Format(time.RFC3339Nano),
		claim.SourceURL, claim.Platform,
	)
	if err != nil {
		return fmt.Errorf("upserting claim %s: %w", claim.ID, err)
	}
	return nil
}

// AddMutationEdge upserts a directed edge, rejecting it when either
// endpoint is not yet a claim row
func (s *SQLite) AddMutationEdge(ctx context.Context, fromID, toID string, similarity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{fromID, toID} {
		var count int
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM claims WHERE id = ?`, id,
		).Scan(&count); err != nil {
			return fmt.Errorf("checking edge endpoint %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrMissingNode, id)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutation_edges (from_id, to_id, similarity, detected_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_id, to_id) DO UPDATE SET
			similarity = excluded.similarity,
			detected_at = excluded.detected_at`,
		fromID, toID, similarity,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting edge %s -> %s: %w", fromID, toID, err)
	}
	return nil
}

// FindFamily runs a bounded BFS using per-frontier neighbor queries
func (s *SQLite) FindFamily(ctx context.Context, seedID string, maxDepth, maxResults int) ([]model.FamilyMember, error) {
	distances, err := s.bfs(ctx, seedID, maxDepth)
	if err != nil {
		return nil, err
	}
	if distances == nil {
		return []model.FamilyMember{}, nil
	}

	members := make([]model.FamilyMember, 0, len(distances))
	for id, distance := range distances {
		claim, err := s.getClaim(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, model.FamilyMember{
			ID:        claim.ID,
			Text:      claim.Text,
			Timestamp: claim.Timestamp,
			Platform:  claim.Platform,
			Distance:  distance,
		})
	}

	return sortFamily(members, maxResults), nil
}

// FindPatientZero returns the earliest reachable claim within maxDepth
func (s *SQLite) FindPatientZero(ctx context.Context, seedID string, maxDepth int) (*model.Claim, error) {
	distances, err := s.bfs(ctx, seedID, maxDepth)
	if err != nil {
		return nil, err
	}
	if distances == nil {
		return nil, nil
	}

	claims := make([]model.Claim, 0, len(distances))
	for id := range distances {
		claim, err := s.getClaim(ctx, id)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return earliest(claims), nil
}

// Close releases the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) bfs(ctx context.Context, seedID string, maxDepth int) (map[string]int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM claims WHERE id = ?`, seedID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("checking seed %s: %w", seedID, err)
	}
	if count == 0 {
		return nil, nil
	}

	distances := map[string]int{seedID: 0}
	frontier := []string{seedID}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			neighbors, err := s.neighborsOf(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, neighbor := range neighbors {
				if _, seen := distances[neighbor]; seen {
					continue
				}
				distances[neighbor] = depth + 1
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return distances, nil
}

// neighborsOf returns endpoints adjacent to id in either edge direction
func (s *SQLite) neighborsOf(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_id FROM mutation_edges WHERE from_id = ?
		UNION
		SELECT from_id FROM mutation_edges WHERE to_id = ?`,
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors of %s: %w", id, err)
	}
	defer rows.Close()

	var neighbors []string
	for rows.Next() {
		var neighbor string
		if err := rows.Scan(&neighbor); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		neighbors = append(neighbors, neighbor)
	}
	return neighbors, rows.Err()
}

func (s *SQLite) getClaim(ctx context.Context, id string) (model.Claim, error) {
	var claim model.Claim
	var timestamp string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, text, normalized_text, timestamp, source_url, platform
		FROM claims WHERE id = ?`, id,
	).Scan(&claim.ID, &claim.Text, &claim.NormalizedText, &timestamp,
		&claim.SourceURL, &claim.Platform)
	if err != nil {
		return model.Claim{}, fmt.Errorf("loading claim %s: %w", id, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return model.Claim{}, fmt.Errorf("parsing stored timestamp for %s: %w", id, err)
	}
	claim.Timestamp = ts
	return claim, nil
}

// Package engine sequences the claim mutation tracking pipeline: embed,
// search, index, graph, analyze, predict. Processing a claim always
// yields a structured result; failures degrade individual stages and are
// recorded on the result instead of propagating to the caller.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/mutatrack/internal/analyze"
	"github.com/ppiankov/mutatrack/internal/cache"
	"github.com/ppiankov/mutatrack/internal/embed"
	"github.com/ppiankov/mutatrack/internal/graph"
	"github.com/ppiankov/mutatrack/internal/index"
	"github.com/ppiankov/mutatrack/internal/model"
)

// Engine runs the per-claim processing pipeline. Safe for concurrent
// use; each structure it owns serializes its own access.
type Engine struct {
	generator *embed.Generator
	index     index.Index
	graph     graph.Store
	analyzer  *analyze.Analyzer
	predictor *analyze.Predictor
	config    *model.Config
	now       func() time.Time
}

// New creates a fully wired engine from configuration: embedding backend
// and cache, flat similarity index, and the configured graph store.
func New(cfg *model.Config) (*Engine, error) {
	backend, err := embed.NewBackend(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding backend: %w", err)
	}

	var vectorCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			vectorCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			vectorCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	generator := embed.NewGenerator(backend, vectorCache, cfg.Embedding.Dimension)

	store, err := graph.New(cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("graph backend: %w", err)
	}

	return NewWithComponents(generator, index.NewFlatL2(cfg.Index.Dimension), store, cfg), nil
}

// NewWithComponents assembles an engine from prebuilt components
func NewWithComponents(generator *embed.Generator, idx index.Index, store graph.Store, cfg *model.Config) *Engine {
	return &Engine{
		generator: generator,
		index:     idx,
		graph:     store,
		analyzer:  analyze.NewAnalyzer(),
		predictor: analyze.NewPredictor(),
		config:    cfg,
		now:       time.Now,
	}
}

// Close releases the graph backend
func (e *Engine) Close() error {
	return e.graph.Close()
}

// IndexSize reports the number of indexed claims
func (e *Engine) IndexSize() int {
	return e.index.Size()
}

// Process runs one claim through the pipeline. It never returns an
// error: every failure is reflected in the result's Error field with the
// analytics fields degraded to empty values.
func (e *Engine) Process(ctx context.Context, input model.ClaimInput) (result *model.Result) {
	result = &model.Result{
		ClaimID:        input.ClaimID,
		SimilarClaims:  []model.SimilarClaim{},
		MutationFamily: []model.FamilyMember{},
	}

	// Nothing past this point may escape to the caller
	defer func() {
		if r := recover(); r != nil {
			slog.Error("claim processing panicked", "claim_id", input.ClaimID, "panic", r)
			result = &model.Result{
				ClaimID:        input.ClaimID,
				SimilarClaims:  []model.SimilarClaim{},
				MutationFamily: []model.FamilyMember{},
				Error:          fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	claim, parsedOK := input.Claim(e.now())
	if !parsedOK && input.Metadata.Timestamp != "" {
		slog.Warn("malformed claim timestamp, using current time",
			"claim_id", claim.ID, "timestamp", input.Metadata.Timestamp)
	}

	slog.Debug("processing claim", "claim_id", claim.ID, "platform", claim.Platform)

	// Embed and find relatives before registering, so a claim never
	// matches itself
	vector := e.generator.Embed(ctx, claim.NormalizedText)
	matches := e.index.Search(vector, e.config.Engine.SearchK, e.config.Engine.SimilarityThreshold)

	if err := e.index.Insert(claim.ID, vector); err != nil {
		// Dimension mismatch: drop the insert, keep processing
		slog.Warn("similarity index rejected claim", "claim_id", claim.ID, "error", err)
	}

	result.SimilarClaimsCount = len(matches)
	top := matches
	if len(top) > e.config.Engine.TopSimilar {
		top = top[:e.config.Engine.TopSimilar]
	}
	result.SimilarClaims = index.ToSimilarClaims(top)

	family, patientZero, graphErr := e.updateGraph(ctx, claim, matches)
	if graphErr != nil {
		slog.Warn("graph backend degraded, analyzing empty family",
			"claim_id", claim.ID, "error", graphErr)
		result.Error = graphErr.Error()
	}

	stats := e.analyzer.Analyze(family)
	prediction := e.predictor.Predict(family, e.config.Engine.ForecastDays)

	if len(family) > e.config.Engine.FamilyLimit {
		family = family[:e.config.Engine.FamilyLimit]
	}

	result.MutationFamily = family
	result.PatientZero = patientZero
	result.Analysis = stats
	result.SpreadPrediction = prediction
	result.ViralScore = stats.ViralScore
	result.IndexSize = e.index.Size()

	slog.Debug("claim processed",
		"claim_id", claim.ID,
		"similar", result.SimilarClaimsCount,
		"family_size", stats.FamilySize,
		"viral_score", stats.ViralScore)

	return result
}

// updateGraph upserts the claim and its mutation edges, then derives the
// family and patient zero. A backend failure returns the error with an
// empty family so analysis degrades instead of aborting. Writes already
// committed are not rolled back; the upserts are idempotent.
func (e *Engine) updateGraph(ctx context.Context, claim model.Claim, matches []index.Match) ([]model.FamilyMember, *model.Claim, error) {
	empty := []model.FamilyMember{}

	timeout := e.config.Graph.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	gctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := e.graph.AddClaim(gctx, claim); err != nil {
		return empty, nil, fmt.Errorf("graph add claim: %w", err)
	}

	// Each matched relative mutates into the new claim
	for _, m := range matches {
		if err := e.graph.AddMutationEdge(gctx, m.ClaimID, claim.ID, m.Similarity); err != nil {
			if errors.Is(err, graph.ErrMissingNode) {
				// Relative was indexed but never made it into the graph;
				// skip this edge and keep the rest
				slog.Warn("skipping edge to unknown claim", "from", m.ClaimID, "to", claim.ID)
				continue
			}
			return empty, nil, fmt.Errorf("graph add edge: %w", err)
		}
	}

	family, err := e.graph.FindFamily(gctx, claim.ID, e.config.Graph.FamilyDepth, e.config.Graph.FamilyLimit)
	if err != nil {
		return empty, nil, fmt.Errorf("graph find family: %w", err)
	}

	patientZero, err := e.graph.FindPatientZero(gctx, claim.ID, e.config.Graph.PatientZeroDepth)
	if err != nil {
		return family, nil, fmt.Errorf("graph find patient zero: %w", err)
	}

	return family, patientZero, nil
}

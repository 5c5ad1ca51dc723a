package worker

import (
	"context"

	"github.com/ppiankov/mutatrack/internal/model"
)

// Processor defines the interface for processing a single claim
type Processor interface {
	Process(ctx context.Context, input model.ClaimInput) *model.Result
}

// ClaimJob runs one claim input through a processor
type ClaimJob struct {
	Input     model.ClaimInput
	Processor Processor
}

// Execute executes the claim job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	return &ClaimResult{
		ClaimID: j.Input.ClaimID,
		Result:  j.Processor.Process(ctx, j.Input),
	}
}

// ClaimResult represents the outcome of one claim job
type ClaimResult struct {
	ClaimID string
	Result  *model.Result
}

// GetError returns nil; the processor reports failures inside the
// result record rather than as job errors
func (r *ClaimResult) GetError() error {
	return nil
}

// BatchProcessor processes a stream of claims concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessClaims runs the inputs through the worker pool and returns one
// result per claim. Order follows completion, not submission; two claims
// submitted concurrently may be indexed in either order.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, inputs []model.ClaimInput) []*ClaimResult {
	if len(inputs) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(&ClaimJob{Input: input, Processor: b.processor})
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, 0, len(results))
	for _, r := range results {
		if cr, ok := r.(*ClaimResult); ok {
			claimResults = append(claimResults, cr)
		}
	}
	return claimResults
}

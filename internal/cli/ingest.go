package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/mutatrack/internal/engine"
	"github.com/ppiankov/mutatrack/internal/model"
	"github.com/ppiankov/mutatrack/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Process a stream of claims from a JSONL file",
	Long: `Ingest processes many claims concurrently against one shared
similarity index and mutation graph:
- Read claims from the input file, one JSON object per line:
    {"claim_id": "c1", "claim_text": "...", "metadata": {"timestamp": "...", "platform": "..."}}
- Process claims in parallel with configurable worker count
- Write one result file per claim to the output directory

Claims racing through the pipeline only see relatives indexed strictly
before their own search ran; ingest the stream twice against a sqlite
graph to backfill edges between same-batch claims.

Example:
  mutatrack ingest claims.jsonl
  mutatrack ingest claims.jsonl --concurrency 8 --graph sqlite --graph-path ./mutations.db
  mutatrack ingest claims.jsonl --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	ingestCmd.Flags().StringVar(&outputDir, "output-dir", "./mutatrack-results", "output directory for result files")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "total timeout for the ingest run")

	// Shared backend flags (defined in track.go)
	ingestCmd.Flags().StringVar(&graphBackend, "graph", "memory", "graph backend (memory, sqlite, none)")
	ingestCmd.Flags().StringVar(&graphPath, "graph-path", "", "sqlite graph database path")
	ingestCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding provider (openai; empty = hash fallback)")
	ingestCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
	ingestCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "embedding cache directory")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

func runIngest(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	inputs, err := readClaimInputs(file)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingesting %d claims (workers: %d, graph: %s)\n",
		len(inputs), concurrency, graphBackend)

	start := time.Now()
	batch := worker.NewBatchProcessor(eng, concurrency)
	results := batch.ProcessClaims(ctx, inputs)

	degraded := 0
	for _, r := range results {
		if r.Result.Error != "" {
			degraded++
		}
		path := filepath.Join(outputDir, r.ClaimID+".json")
		if err := writeResult(r.Result, path, cfg.Output.Pretty); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d claims in %v (%d degraded), index size %d\n",
		len(results), time.Since(start).Round(time.Millisecond), degraded, eng.IndexSize())

	return nil
}

// readClaimInputs parses one claim input per line, skipping blanks
func readClaimInputs(path string) ([]model.ClaimInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var inputs []model.ClaimInput
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var input model.ClaimInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		if input.ClaimID == "" {
			input.ClaimID = deriveClaimID(input.ClaimText)
		}
		inputs = append(inputs, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	return inputs, nil
}

package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/mutatrack/internal/engine"
	"github.com/ppiankov/mutatrack/internal/model"
)

var (
	claimID       string
	platform      string
	sourceURL     string
	timestamp     string
	graphBackend  string
	graphPath     string
	embedProvider string
	embedModel    string
	cacheDir      string
	noCache       bool
	outJSON       string
	trackTimeout  time.Duration
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track <claim text>",
	Short: "Track a single claim and report its mutation family",
	Long: `Track runs one claim through the mutation tracking pipeline:
- Embed the claim text
- Search the similarity index for near-duplicate relatives
- Link the claim into the mutation graph
- Derive the mutation family and its patient zero
- Analyze spread statistics and project future growth

With the sqlite graph backend, families accumulate across invocations.

Example:
  mutatrack track "the canal was built in a single day" --id claim-001
  mutatrack track "..." --graph sqlite --graph-path ./mutations.db --platform telegram
  mutatrack track "..." --embed-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	// Claim flags
	trackCmd.Flags().StringVar(&claimID, "id", "", "claim id (default: derived from text hash)")
	trackCmd.Flags().StringVar(&platform, "platform", "", "originating platform tag")
	trackCmd.Flags().StringVar(&sourceURL, "source-url", "", "where the claim was observed")
	trackCmd.Flags().StringVar(&timestamp, "timestamp", "", "claim timestamp (RFC3339, default: now)")

	// Backend flags
	trackCmd.Flags().StringVar(&graphBackend, "graph", "memory", "graph backend (memory, sqlite, none)")
	trackCmd.Flags().StringVar(&graphPath, "graph-path", "", "sqlite graph database path")
	trackCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding provider (openai; empty = hash fallback)")
	trackCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-3-small", "embedding model name")
	trackCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "embedding cache directory")
	trackCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")

	// Output flags
	trackCmd.Flags().StringVar(&outJSON, "json", "", "write result JSON to file (default: stdout)")
	trackCmd.Flags().DurationVar(&trackTimeout, "timeout", 2*time.Minute, "overall processing timeout")
}

func runTrack(cmd *cobra.Command, args []string) error {
	text := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	id := claimID
	if id == "" {
		id = deriveClaimID(text)
	}

	result := eng.Process(ctx, model.ClaimInput{
		ClaimID:   id,
		ClaimText: text,
		Metadata: model.ClaimMetadata{
			Timestamp: timestamp,
			SourceURL: sourceURL,
			Platform:  platform,
		},
	})

	return writeResult(result, outJSON, cfg.Output.Pretty)
}

// deriveClaimID builds a stable id from the claim text for callers that
// do not assign their own
func deriveClaimID(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "claim-" + hex.EncodeToString(hash[:8])
}

// buildConfig applies the backend flags on top of the defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Graph.Backend = graphBackend
	cfg.Graph.Path = graphPath
	cfg.Embedding.Provider = embedProvider
	cfg.Embedding.Model = embedModel
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Verbose = verbose

	if embedProvider == "openai" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

// writeResult renders the result JSON to a file or stdout
func writeResult(result *model.Result, path string, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote result: %s\n", path)
	}
	return nil
}

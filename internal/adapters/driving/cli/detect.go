package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsweep/docsweep-cli/internal/adapters/driven/config/file"
	"github.com/docsweep/docsweep-cli/internal/adapters/driven/fuzzy"
	"github.com/docsweep/docsweep-cli/internal/adapters/driven/similarity/gonum"
	"github.com/docsweep/docsweep-cli/internal/core/domain"
	"github.com/docsweep/docsweep-cli/internal/core/ports/driving"
	"github.com/docsweep/docsweep-cli/internal/core/services"
)

var (
	detectDB         string
	detectInventory  string
	detectEmbeddings string
	detectConfig     string
	detectOutput     string
	detectMethod     string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run duplicate detection over an inventory",
	Long: `Analyses the inventory with every enabled detection method and
prints the combined result as JSON. Use --method to run a single
method instead.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectDB, "db", "", "SQLite inventory database")
	detectCmd.Flags().StringVar(&detectInventory, "inventory", "", "JSON inventory file")
	detectCmd.Flags().StringVar(&detectEmbeddings, "embeddings", "", "JSON embeddings file (with --inventory)")
	detectCmd.Flags().StringVarP(&detectConfig, "config", "c", "", "TOML configuration file")
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "", "write JSON result to file instead of stdout")
	detectCmd.Flags().StringVar(&detectMethod, "method", "all", "detection method: all, hash, similarity, or version")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	store, err := openInventory(detectDB, detectInventory, detectEmbeddings)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := loadConfig(detectConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	docs, err := store.Documents(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	embeddings, err := store.Embeddings(ctx)
	if err != nil {
		return fmt.Errorf("loading embeddings: %w", err)
	}

	service, err := buildDetectionService(cfg)
	if err != nil {
		return err
	}

	var result any
	switch detectMethod {
	case "all":
		result, err = service.DetectAll(ctx, docs, embeddings)
	case "hash":
		result, err = service.DetectExactDuplicates(ctx, docs)
	case "similarity":
		result, err = service.DetectSimilarDocuments(ctx, docs, embeddings)
	case "version":
		result, err = service.DetectDocumentVersions(ctx, docs)
	default:
		return fmt.Errorf("unknown method %q: use all, hash, similarity, or version", detectMethod)
	}
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	return outputJSON(cmd, result, detectOutput)
}

// loadConfig reads the detection configuration, falling back to
// defaults when no file is given or present.
func loadConfig(path string) (domain.DetectionConfig, error) {
	store, err := file.NewConfigStore(path)
	if err != nil {
		return domain.DetectionConfig{}, fmt.Errorf("locating config: %w", err)
	}
	return store.Load()
}

// buildDetectionService wires the real detectors unless a test has
// injected a service.
func buildDetectionService(cfg domain.DetectionConfig) (driving.DetectionService, error) {
	if detectionService != nil {
		return detectionService, nil
	}
	return services.NewDuplicateDetector(cfg, gonum.NewBackend(), fuzzy.NewLevenshteinMatcher())
}

func outputJSON(cmd *cobra.Command, v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if path != "" {
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		cmd.Printf("Result written to %s\n", path)
		return nil
	}

	cmd.Println(string(data))
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsweep/docsweep-cli/internal/core/services"
)

var (
	inspectDB        string
	inspectInventory string
	inspectJSON      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarise an inventory's exact duplicates",
	Long: `Loads the inventory, runs hash-based detection only, and prints a
digest: group counts, wasted space, the worst offenders, and waste per
file type.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDB, "db", "", "SQLite inventory database")
	inspectCmd.Flags().StringVar(&inspectInventory, "inventory", "", "JSON inventory file")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output the digest as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	store, err := openInventory(inspectDB, inspectInventory, "")
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	docs, err := store.Documents(context.Background())
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	detector := services.NewHashDuplicateDetector(cfg)
	result := detector.FindHashDuplicates(docs)
	summary := detector.DuplicateSummary(result)

	if inspectJSON {
		return outputJSON(cmd, summary, "")
	}

	cmd.Printf("Documents analysed:  %d\n", len(docs))
	cmd.Printf("Duplicate groups:    %d\n", summary.TotalDuplicateGroups)
	cmd.Printf("Duplicate files:     %d\n", summary.TotalDuplicateFiles)
	cmd.Printf("Wasted space:        %.2f MB\n", summary.TotalWastedSpaceMB)
	if summary.LargestGroup != nil {
		cmd.Printf("Largest group:       %s (%d files)\n",
			summary.LargestGroup.GroupID, summary.LargestGroup.DocumentCount)
	}
	if summary.MostWastedGroup != nil {
		cmd.Printf("Most wasted space:   %s (%.2f MB)\n",
			summary.MostWastedGroup.GroupID, summary.MostWastedGroup.WastedSpaceMB)
	}

	zeroByte := detector.FindZeroByteFiles(docs)
	if len(zeroByte) > 0 {
		cmd.Printf("Zero-byte files:     %d\n", len(zeroByte))
	}

	return nil
}

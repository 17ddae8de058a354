package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidewiz/internal/app"
	"slidewiz/internal/storage"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List saved decks",
	Long:  `List decks in the output directory, or in the Cloud Storage bucket when gcs.enabled is set.`,
	RunE:  runDecks,
}

func init() {
	rootCmd.AddCommand(decksCmd)
}

func runDecks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var store storage.DeckStore = storage.NewLocalStorage(cfg.Images.Dir, cfg.Output.Dir)
	remote, err := app.BuildRemote(ctx, cfg)
	if err != nil {
		return err
	}
	if remote != nil {
		defer func() { _ = remote.Close() }()
		store = remote
	}

	decks, err := store.ListDecks(ctx)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Println(infoStyle.Render("No decks yet"))
		return nil
	}

	for _, d := range decks {
		fmt.Printf("%-48s %8s  %s\n", d.Name, humanSize(d.Size), d.Updated.Format("2006-01-02 15:04"))
	}
	return nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

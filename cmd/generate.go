package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"slidewiz/internal/app"
	"slidewiz/internal/content"
)

var (
	genSubject  string
	genTitle    string
	genAudience string
	genSlides   int
	genImages   bool
	genSections []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deck without prompts",
	Long: `Generate a deck in one go. The first generated title is used unless
--title is given, and the default outline unless --section is repeated.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genSubject, "subject", "s", "", "Subject of the presentation")
	generateCmd.Flags().StringVarP(&genTitle, "title", "t", "", "Deck title (skips title generation choice)")
	generateCmd.Flags().StringVarP(&genAudience, "audience", "a", "", "Executive, Technical, Marketing or Educational")
	generateCmd.Flags().IntVarP(&genSlides, "slides", "n", 0, "Number of content slides")
	generateCmd.Flags().BoolVarP(&genImages, "images", "i", false, "Add stock images from Pexels (default from config)")
	generateCmd.Flags().StringArrayVar(&genSections, "section", nil, "Section title, repeat for each slide")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genSubject == "" {
		return errors.New("please provide --subject")
	}

	var audience content.Audience
	if genAudience != "" {
		a, err := content.ParseAudience(genAudience)
		if err != nil {
			return err
		}
		audience = a
	}

	ctx := cmd.Context()

	svc, err := buildService(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	images := genImages
	if !cmd.Flags().Changed("images") {
		images = svc.Config().Images.Enabled
	}
	if images && !svc.ImagesAvailable() {
		slog.Warn("Images requested but PEXELS_API_KEY is not set")
	}

	result, err := app.NewPipeline(svc).Generate(ctx, app.GenerateRequest{
		Subject:    genSubject,
		Title:      genTitle,
		Audience:   audience,
		SlideCount: genSlides,
		Images:     images,
		Sections:   genSections,
	})
	if err != nil {
		return err
	}

	slog.Info("Deck generated",
		"title", result.State.Title,
		"slides", len(result.State.Slides),
		"path", result.Save.Path,
	)
	if result.Save.HandoutPath != "" {
		slog.Info("Handout written", "path", result.Save.HandoutPath)
	}
	if result.Save.RemoteURL != "" {
		slog.Info("Deck uploaded", "url", result.Save.RemoteURL)
	}
	fmt.Println(result.Save.Path)
	return nil
}

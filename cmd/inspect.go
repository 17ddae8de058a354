package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slidewiz/internal/deck"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "Show the slides, images and notes of a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	summary, err := deck.InspectFile(path)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(summary.Title))
	for _, slide := range summary.Slides {
		fmt.Printf("%d. %s\n", slide.Index, slide.Title)
		for _, text := range slide.Texts {
			fmt.Printf("     %s\n", text)
		}
		if slide.Images > 0 {
			fmt.Println(infoStyle.Render(fmt.Sprintf("     [%d image(s)]", slide.Images)))
		}
		if slide.Notes != "" {
			fmt.Println(infoStyle.Render("     notes: " + strings.ReplaceAll(slide.Notes, "\n", " ")))
		}
	}

	fmt.Printf("\n%d slides, %d images, %d with notes\n", len(summary.Slides), summary.ImageCount(), summary.NotesCount())

	count, err := deck.Verify(path)
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Reader could not open the deck: %v", err)))
		return nil
	}
	if count != len(summary.Slides) {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Reader counted %d slides", count)))
	}
	return nil
}

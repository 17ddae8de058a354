package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	titlesSubject string
	titlesCount   int
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Suggest presentation titles for a subject",
	RunE:  runTitles,
}

func init() {
	titlesCmd.Flags().StringVarP(&titlesSubject, "subject", "s", "", "Subject of the presentation")
	titlesCmd.Flags().IntVarP(&titlesCount, "count", "n", 0, "Number of titles (default from config)")
	rootCmd.AddCommand(titlesCmd)
}

func runTitles(cmd *cobra.Command, args []string) error {
	if titlesSubject == "" {
		return errors.New("please provide --subject")
	}

	ctx := cmd.Context()

	svc, err := buildService(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	count := titlesCount
	if count <= 0 {
		count = svc.Config().Content.TitleCount
	}

	titles := svc.Titles().Generate(ctx, titlesSubject, count)
	if len(titles) == 0 {
		return errors.New("no titles generated")
	}
	for i, t := range titles {
		fmt.Printf("%d. %s\n", i+1, t)
	}
	return nil
}

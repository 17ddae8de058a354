package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"slidewiz/internal/app"
	"slidewiz/internal/content"
	"slidewiz/internal/wizard"
)

const (
	choiceRegenerate = "::regenerate"
	choiceCustom     = "::custom"
	choiceBack       = "::back"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a deck step by step",
	Long:  `Start the interactive wizard: subject, title, outline, review, then save.`,
	RunE:  runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := buildService(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	w := &wizardUI{svc: svc, flow: svc.NewFlow()}
	err = w.run(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println(infoStyle.Render("Bye"))
		return nil
	}
	return err
}

type wizardUI struct {
	svc   *app.Service
	flow  *wizard.Flow
	saved *app.SaveResult
}

func (w *wizardUI) run(ctx context.Context) error {
	for {
		stage := w.flow.Stage()
		fmt.Println(titleStyle.Render(fmt.Sprintf("Step %d/%d: %s", stage.Step(), wizard.Steps, stageLabel(stage))))

		var err error
		switch stage {
		case wizard.StageTopic:
			err = w.topic(ctx)
		case wizard.StageTitlePick:
			err = w.title(ctx)
		case wizard.StageOutline:
			err = w.outline(ctx)
		case wizard.StageReviewEdit:
			err = w.review(ctx)
		case wizard.StageDone:
			var quit bool
			quit, err = w.done()
			if quit {
				return err
			}
		}

		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
				return err
			}
			fmt.Println(warnStyle.Render(err.Error()))
		}
	}
}

func stageLabel(stage wizard.Stage) string {
	switch stage {
	case wizard.StageTopic:
		return "Topic"
	case wizard.StageTitlePick:
		return "Choose a title"
	case wizard.StageOutline:
		return "Outline"
	case wizard.StageReviewEdit:
		return "Review and edit"
	default:
		return "Done"
	}
}

func (w *wizardUI) topic(ctx context.Context) error {
	cfg := w.svc.Config()
	prev := w.flow.State().Topic

	subject := prev.Subject
	audience := prev.Audience
	if audience == "" {
		audience, _ = w.svc.DefaultAudience()
	}
	slides := strconv.Itoa(cfg.Content.SlideCount)
	if prev.SlideCount > 0 {
		slides = strconv.Itoa(prev.SlideCount)
	}
	images := cfg.Images.Enabled
	if prev.Subject != "" {
		images = prev.IncludeImages
	}

	audienceOptions := make([]huh.Option[content.Audience], 0, len(content.Audiences()))
	for _, a := range content.Audiences() {
		audienceOptions = append(audienceOptions, huh.NewOption(string(a), a))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Subject").
			Placeholder("e.g. Zero-trust networking for small teams").
			Value(&subject).
			Validate(required("Subject")),
		huh.NewSelect[content.Audience]().
			Title("Audience").
			Options(audienceOptions...).
			Value(&audience),
		huh.NewInput().
			Title("Number of slides").
			Value(&slides).
			Validate(validSlideCount),
	}
	if w.svc.ImagesAvailable() {
		fields = append(fields, huh.NewConfirm().
			Title("Add stock images?").
			Value(&images))
	} else {
		images = false
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	if !w.svc.ImagesAvailable() {
		fmt.Println(infoStyle.Render("Images are off: no Pexels API key"))
	}

	count, _ := strconv.Atoi(strings.TrimSpace(slides))
	return runWithSpinner("Generating titles", func() error {
		_, err := w.flow.SubmitTopic(ctx, wizard.Topic{
			Subject:       subject,
			Audience:      audience,
			SlideCount:    count,
			IncludeImages: images,
		})
		return err
	})
}

func validSlideCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 30 {
		return errors.New("enter a number from 1 to 30")
	}
	return nil
}

func (w *wizardUI) title(ctx context.Context) error {
	titles := w.flow.State().Titles
	if len(titles) == 0 {
		fmt.Println(warnStyle.Render("No titles were generated. Regenerate or write your own."))
	}

	options := make([]huh.Option[string], 0, len(titles)+3)
	for _, t := range titles {
		options = append(options, huh.NewOption(t, t))
	}
	options = append(options,
		huh.NewOption("Regenerate titles", choiceRegenerate),
		huh.NewOption("Write my own", choiceCustom),
		huh.NewOption("Back", choiceBack),
	)

	var choice string
	if err := huh.NewSelect[string]().
		Title("Title").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return err
	}

	switch choice {
	case choiceBack:
		w.flow.Back()
		return nil
	case choiceRegenerate:
		return runWithSpinner("Generating titles", func() error {
			_, err := w.flow.RegenerateTitles(ctx)
			return err
		})
	case choiceCustom:
		choice = ""
	}

	title := choice
	if err := huh.NewInput().
		Title("Edit title").
		Value(&title).
		Validate(required("Title")).
		Run(); err != nil {
		return err
	}
	return w.flow.ChooseTitle(title)
}

func (w *wizardUI) outline(ctx context.Context) error {
	state := w.flow.State()
	sections := append([]string(nil), state.Outline...)

	fmt.Println(infoStyle.Render(state.Title))

	fields := make([]huh.Field, 0, len(sections)+2)
	for i := range sections {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Slide %d", i+1)).
			Value(&sections[i]))
	}

	var extra string
	fields = append(fields, huh.NewInput().
		Title("Extra section").
		Description("Optional. Sections past the slide count are dropped.").
		Value(&extra))

	var next bool
	fields = append(fields, huh.NewConfirm().
		Title("Generate slides?").
		Affirmative("Generate").
		Negative("Back").
		Value(&next))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	if !next {
		w.flow.Back()
		return nil
	}

	return runWithSpinner("Generating slides", func() error {
		return w.flow.ConfirmOutline(ctx, sections, extra)
	})
}

func (w *wizardUI) review(ctx context.Context) error {
	state := w.flow.State()
	wordy := make(map[int]bool)
	for _, i := range w.flow.WordySlides() {
		wordy[i] = true
	}

	for i, rec := range state.Slides {
		line := fmt.Sprintf("%d. %s (%d bullets, %d words)", i+1, rec.Title, len(rec.Bullets), rec.WordCount())
		if rec.HasImage() {
			line += " [image: " + rec.ImageKeyword + "]"
		}
		if wordy[i] {
			fmt.Println(warnStyle.Render(line + fmt.Sprintf(" over %d words", w.flow.MaxWords())))
			continue
		}
		fmt.Println(line)
	}

	const (
		actionBuild = -1
		actionBack  = -2
	)
	options := make([]huh.Option[int], 0, len(state.Slides)+2)
	options = append(options, huh.NewOption("Create deck", actionBuild))
	for i, rec := range state.Slides {
		options = append(options, huh.NewOption(fmt.Sprintf("Edit slide %d: %s", i+1, rec.Title), i))
	}
	options = append(options, huh.NewOption("Back to outline", actionBack))

	var choice int
	if err := huh.NewSelect[int]().
		Title("Review").
		Options(options...).
		Value(&choice).
		Run(); err != nil {
		return err
	}

	switch choice {
	case actionBack:
		w.flow.Back()
		return nil
	case actionBuild:
		return w.build(ctx)
	default:
		return w.editSlide(choice, state.Slides[choice])
	}
}

func (w *wizardUI) editSlide(i int, rec content.SlideRecord) error {
	title := rec.Title
	bullets := strings.Join(rec.Bullets, "\n")
	notes := rec.Notes
	var extra string

	description := "One bullet per line"
	if rec.ImageKeyword != "" {
		description += ". Image keyword: " + rec.ImageKeyword
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Slide %d title", i+1)).
				Value(&title),
			huh.NewText().
				Title("Bullets").
				Description(description).
				Value(&bullets),
			huh.NewInput().
				Title("Add bullet").
				Description("Optional").
				Value(&extra),
			huh.NewText().
				Title("Speaker notes").
				Value(&notes),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := w.flow.UpdateSlide(i, title, editorLines(bullets), notes); err != nil {
		return err
	}
	if strings.TrimSpace(extra) != "" {
		added, err := w.flow.AddBullet(i, extra)
		if err != nil {
			return err
		}
		if !added {
			fmt.Println(warnStyle.Render(fmt.Sprintf("Slide %d is full; bullet not added", i+1)))
		}
	}
	return nil
}

// editorLines turns text area content back into bullets, dropping any list
// marker the user typed.
func editorLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (w *wizardUI) build(ctx context.Context) error {
	if err := runWithSpinner("Assembling deck", func() error {
		_, err := w.flow.Finalize()
		return err
	}); err != nil {
		return err
	}

	saved, err := w.svc.Save(ctx, w.flow.State())
	if err != nil {
		w.flow.Back()
		return err
	}
	w.saved = saved
	return nil
}

func (w *wizardUI) done() (bool, error) {
	state := w.flow.State()
	printSaved(state, w.saved)

	const (
		actionOpen    = "open"
		actionRestart = "restart"
		actionBack    = "back"
		actionQuit    = "quit"
	)

	var choice string
	if err := huh.NewSelect[string]().
		Title("What next?").
		Options(
			huh.NewOption("Open deck", actionOpen),
			huh.NewOption("Start a new deck", actionRestart),
			huh.NewOption("Back to review", actionBack),
			huh.NewOption("Quit", actionQuit),
		).
		Value(&choice).
		Run(); err != nil {
		return true, err
	}

	switch choice {
	case actionOpen:
		if w.saved != nil {
			if err := browser.OpenFile(w.saved.Path); err != nil {
				return false, fmt.Errorf("open deck: %w", err)
			}
		}
	case actionRestart:
		w.flow.Restart()
		w.saved = nil
	case actionBack:
		w.flow.Back()
	case actionQuit:
		return true, nil
	}
	return false, nil
}

func printSaved(state wizard.State, saved *app.SaveResult) {
	if state.Output == nil || saved == nil {
		return
	}
	fmt.Println(successStyle.Render("✓ Saved " + saved.Path))
	if saved.HandoutPath != "" {
		fmt.Println(successStyle.Render("✓ Handout " + saved.HandoutPath))
	}
	if saved.RemoteURL != "" {
		fmt.Println(successStyle.Render("✓ Uploaded " + saved.RemoteURL))
	}

	notes, images := 0, 0
	for _, ok := range state.Output.Notes {
		if ok {
			notes++
		}
	}
	for _, ok := range state.Output.Images {
		if ok {
			images++
		}
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d content slides, %d with notes, %d with images", len(state.Slides), notes, images)))
}

package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"slidewiz/internal/content"
	"slidewiz/internal/deck"
	"slidewiz/internal/notify"
)

var (
	ErrWrongStage   = errors.New("operation not allowed at this stage")
	ErrEmptySubject = errors.New("subject is empty")
	ErrEmptyTitle   = errors.New("title is empty")
	ErrNoSections   = errors.New("outline has no sections")
	ErrSlideIndex   = errors.New("slide index out of range")
)

type TitleSource interface {
	Generate(ctx context.Context, subject string, count int) []string
}

type SlideSource interface {
	Generate(ctx context.Context, req content.SlideRequest) content.SlideContent
}

type ImageSource interface {
	Enabled() bool
	Resolve(ctx context.Context, keyword string) (string, bool)
}

type DeckBuilder interface {
	Build(title string, records []content.SlideRecord, attachImages bool) (*deck.Result, error)
}

type Options struct {
	TitleCount    int
	MaxWords      int
	ImageKeywords bool
}

// Topic is what the user enters on the first stage.
type Topic struct {
	Subject       string
	Audience      content.Audience
	SlideCount    int
	IncludeImages bool
}

// Output is the finished deck held at the Done stage.
type Output struct {
	Filename string
	Data     []byte
	Notes    []bool
	Images   []bool
}

// State is everything the wizard has collected so far.
type State struct {
	Stage   Stage
	Topic   Topic
	Titles  []string
	Title   string
	Outline []string
	Slides  []content.SlideRecord
	Output  *Output
}

type Flow struct {
	titles   TitleSource
	slides   SlideSource
	images   ImageSource
	builder  DeckBuilder
	reporter notify.Reporter
	opts     Options
	state    State
}

func New(titles TitleSource, slides SlideSource, images ImageSource, builder DeckBuilder, reporter notify.Reporter, opts Options) *Flow {
	if opts.TitleCount <= 0 {
		opts.TitleCount = 8
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = 70
	}
	return &Flow{
		titles:   titles,
		slides:   slides,
		images:   images,
		builder:  builder,
		reporter: notify.OrDefault(reporter),
		opts:     opts,
	}
}

func (f *Flow) Stage() Stage { return f.state.Stage }

// State returns a copy of the current state.
func (f *Flow) State() State {
	s := f.state
	s.Titles = append([]string(nil), s.Titles...)
	s.Outline = append([]string(nil), s.Outline...)
	s.Slides = make([]content.SlideRecord, len(f.state.Slides))
	for i, rec := range f.state.Slides {
		rec.Bullets = append([]string(nil), rec.Bullets...)
		s.Slides[i] = rec
	}
	return s
}

func (f *Flow) expect(stage Stage) error {
	if f.state.Stage != stage {
		return fmt.Errorf("%w: at %s, need %s", ErrWrongStage, f.state.Stage, stage)
	}
	return nil
}

// ImagesActive reports whether slides of this run get images.
func (f *Flow) ImagesActive() bool {
	return f.state.Topic.IncludeImages && f.images != nil && f.images.Enabled()
}

// SubmitTopic stores the topic, generates candidate titles and moves to
// title selection. An empty title list is not an error; the user can
// regenerate or type a title.
func (f *Flow) SubmitTopic(ctx context.Context, topic Topic) ([]string, error) {
	if err := f.expect(StageTopic); err != nil {
		return nil, err
	}
	topic.Subject = strings.TrimSpace(topic.Subject)
	if topic.Subject == "" {
		return nil, ErrEmptySubject
	}
	if topic.SlideCount <= 0 {
		topic.SlideCount = 5
	}
	if topic.Audience == "" {
		topic.Audience = content.AudienceExecutive
	}

	f.state = State{Stage: StageTopic, Topic: topic}
	f.state.Titles = f.titles.Generate(ctx, topic.Subject, f.opts.TitleCount)
	f.state.Stage = StageTitlePick

	slog.Info("Titles generated", "subject", topic.Subject, "count", len(f.state.Titles))
	return append([]string(nil), f.state.Titles...), nil
}

// RegenerateTitles replaces the candidate titles with a fresh batch.
func (f *Flow) RegenerateTitles(ctx context.Context) ([]string, error) {
	if err := f.expect(StageTitlePick); err != nil {
		return nil, err
	}
	f.state.Titles = f.titles.Generate(ctx, f.state.Topic.Subject, f.opts.TitleCount)
	return append([]string(nil), f.state.Titles...), nil
}

// ChooseTitle accepts a candidate or a user-edited title and proposes the
// default outline.
func (f *Flow) ChooseTitle(title string) error {
	if err := f.expect(StageTitlePick); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	f.state.Title = title
	f.state.Outline = DefaultOutline(f.state.Topic.Subject, f.state.Topic.SlideCount)
	f.state.Stage = StageOutline
	return nil
}

// ConfirmOutline generates one slide per section, in order, and moves to
// review. extra is an optional additional section. Sections beyond the
// requested slide count are dropped.
func (f *Flow) ConfirmOutline(ctx context.Context, outline []string, extra string) error {
	if err := f.expect(StageOutline); err != nil {
		return err
	}

	sections := finalSections(outline, extra, f.state.Topic.SlideCount)
	if len(sections) == 0 {
		return ErrNoSections
	}
	f.state.Outline = sections

	withImages := f.ImagesActive()
	records := make([]content.SlideRecord, 0, len(sections))
	for i, section := range sections {
		slog.Info("Generating slide", "index", i+1, "total", len(sections), "section", section)

		generated := f.slides.Generate(ctx, content.SlideRequest{
			DeckTitle:           f.state.Title,
			SectionTitle:        section,
			Audience:            f.state.Topic.Audience,
			IncludeImageKeyword: f.opts.ImageKeywords,
		})
		rec := generated.Record(section)

		if withImages && rec.ImageKeyword != "" {
			if path, ok := f.images.Resolve(ctx, rec.ImageKeyword); ok {
				rec.ImageLocalPath = path
			}
		}
		records = append(records, rec)
	}

	f.state.Slides = records
	f.state.Stage = StageReviewEdit
	return nil
}

// UpdateSlide replaces the editable parts of slide i.
func (f *Flow) UpdateSlide(i int, title string, bullets []string, notes string) error {
	if err := f.expect(StageReviewEdit); err != nil {
		return err
	}
	if i < 0 || i >= len(f.state.Slides) {
		return ErrSlideIndex
	}

	rec := &f.state.Slides[i]
	if title = strings.TrimSpace(title); title != "" {
		rec.Title = title
	}
	rec.SetBullets(bullets)
	rec.Notes = strings.TrimSpace(notes)

	if rec.WordCount() > f.opts.MaxWords {
		f.reporter.Warn(fmt.Sprintf("Slide %d has %d words of bullets; consider trimming below %d", i+1, rec.WordCount(), f.opts.MaxWords), nil)
	}
	return nil
}

// AddBullet appends a bullet to slide i. It reports false when the slide is full.
func (f *Flow) AddBullet(i int, bullet string) (bool, error) {
	if err := f.expect(StageReviewEdit); err != nil {
		return false, err
	}
	if i < 0 || i >= len(f.state.Slides) {
		return false, ErrSlideIndex
	}
	bullet = strings.TrimSpace(bullet)
	if bullet == "" {
		return false, nil
	}
	return f.state.Slides[i].AddBullet(bullet), nil
}

// WordySlides lists slides whose bullets exceed the word limit.
func (f *Flow) WordySlides() []int {
	var out []int
	for i, rec := range f.state.Slides {
		if rec.WordCount() > f.opts.MaxWords {
			out = append(out, i)
		}
	}
	return out
}

func (f *Flow) MaxWords() int { return f.opts.MaxWords }

// Finalize assembles the deck. An assembly error leaves the flow at review
// so the user can try again.
func (f *Flow) Finalize() (*Output, error) {
	if err := f.expect(StageReviewEdit); err != nil {
		return nil, err
	}

	res, err := f.builder.Build(f.state.Title, f.state.Slides, f.ImagesActive())
	if err != nil {
		return nil, fmt.Errorf("assemble deck: %w", err)
	}

	f.state.Output = &Output{
		Filename: deck.Filename(f.state.Title),
		Data:     res.Data,
		Notes:    res.Notes,
		Images:   res.Images,
	}
	f.state.Stage = StageDone
	return f.state.Output, nil
}

// Back moves exactly one stage back and never below Topic.
func (f *Flow) Back() Stage {
	if f.state.Stage > StageTopic {
		f.state.Stage--
	}
	if f.state.Stage < StageDone {
		f.state.Output = nil
	}
	return f.state.Stage
}

// Restart discards everything and returns to Topic.
func (f *Flow) Restart() {
	f.state = State{Stage: StageTopic}
}

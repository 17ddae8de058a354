package deck

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/gabriel-vasile/mimetype"

	"slidewiz/internal/content"
	"slidewiz/internal/notify"
)

// MIMEType is the content type of a serialized deck.
const MIMEType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

const (
	DefaultSubtitle = "Generated by AI PPT Wizard"
	ClosingTitle    = "Conclusion & Next Steps"
	ClosingBody     = "Summary and suggested next steps."

	maxTitleRunes   = 80
	maxFilenameLen  = 80
	defaultFilename = "presentation.pptx"
)

// 16:9 layout in EMU.
const (
	emuPerInch = 914400

	slideWidth   = int64(10.0 * emuPerInch)
	slideHeight  = int64(5.625 * emuPerInch)
	marginLeft   = int64(0.4 * emuPerInch)
	marginBottom = int64(0.3 * emuPerInch)
	contentWidth = int64(9.2 * emuPerInch)

	imageLeft     = slideWidth / 2
	imageTop      = int64(1.0 * emuPerInch)
	imageMaxWidth = slideWidth * 45 / 100

	fontTitle    = 36
	fontSubtitle = 20
	fontHeading  = 28
	fontBody     = 18

	colorAccent  = "FF1E40AF"
	colorBar     = "FF3B82F6"
	colorBody    = "FF334155"
	colorMuted   = "FF64748B"
	creatorLabel = "slidewiz"
)

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Filename derives the output file name from the deck title.
func Filename(title string) string {
	name := strings.Trim(filenameUnsafe.ReplaceAllString(title, "_"), "_")
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	if name == "" {
		return defaultFilename
	}
	return name + ".pptx"
}

// Result is a serialized deck plus what the best-effort steps achieved, one
// flag per slide including the title and closing slides.
type Result struct {
	Data   []byte
	Notes  []bool
	Images []bool
}

func (r *Result) Slides() int { return len(r.Images) }

type Assembler struct {
	subtitle string
	reporter notify.Reporter
}

func NewAssembler(subtitle string, reporter notify.Reporter) *Assembler {
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}
	return &Assembler{
		subtitle: subtitle,
		reporter: notify.OrDefault(reporter),
	}
}

// Assemble renders the deck and returns its bytes.
func (a *Assembler) Assemble(title string, records []content.SlideRecord, attachImages bool) ([]byte, error) {
	res, err := a.Build(title, records, attachImages)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Build renders the deck fully in memory. Only a serialization failure is an
// error; image placement and speaker notes degrade to warnings.
func (a *Assembler) Build(title string, records []content.SlideRecord, attachImages bool) (*Result, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = title
	p.GetDocumentProperties().Creator = creatorLabel

	images := make([]bool, 0, len(records)+2)
	notes := make([]string, 0, len(records)+2)

	a.addTitleSlide(p, title)
	images = append(images, false)
	notes = append(notes, "")

	for _, rec := range records {
		placed := a.addContentSlide(p, rec, attachImages)
		images = append(images, placed)
		notes = append(notes, rec.Notes)
	}

	a.addClosingSlide(p)
	images = append(images, false)
	notes = append(notes, "")

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}
	pw, ok := w.(*ppt.PPTXWriter)
	if !ok {
		return nil, fmt.Errorf("unexpected writer type %T", w)
	}

	var buf bytes.Buffer
	if err := pw.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}

	data, attached, err := AttachNotes(buf.Bytes(), notes)
	if err != nil {
		a.reporter.Warn("Speaker notes were not added", err)
	}

	slog.Debug("Deck assembled", "slides", len(images), "bytes", len(data))
	return &Result{Data: data, Notes: attached, Images: images}, nil
}

func (a *Assembler) addTitleSlide(p *ppt.Presentation, title string) {
	slide := p.GetActiveSlide()

	topBar := slide.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(slideWidth).SetHeight(int64(0.15 * emuPerInch))
	topBar.SetFill(solidFill(colorBar))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.6 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.2 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(colorAccent))
	alignCenter(titleShape.GetActiveParagraph())

	subShape := slide.CreateRichTextShape()
	subShape.SetOffsetX(marginLeft).SetOffsetY(int64(3.0 * emuPerInch))
	subShape.SetWidth(contentWidth).SetHeight(int64(0.6 * emuPerInch))
	subTr := subShape.CreateTextRun(a.subtitle)
	subTr.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(colorMuted))
	alignCenter(subShape.GetActiveParagraph())
}

// addContentSlide reports whether an image was placed.
func (a *Assembler) addContentSlide(p *ppt.Presentation, rec content.SlideRecord, attachImages bool) bool {
	slide := p.CreateSlide()
	addHeader(slide, TruncateTitle(rec.Title))

	var img *slideImage
	if attachImages && rec.ImageLocalPath != "" {
		var err error
		img, err = loadImage(rec.ImageLocalPath)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Image file gone, slide left without image", "path", rec.ImageLocalPath)
			img = nil
		} else if err != nil {
			a.reporter.Warn(fmt.Sprintf("Image not placed on %q", rec.Title), err)
			img = nil
		}
	}

	bodyWidth := contentWidth
	if img != nil {
		bodyWidth = imageLeft - marginLeft - int64(0.2*emuPerInch)
	}

	body := slide.CreateRichTextShape()
	body.SetOffsetX(marginLeft).SetOffsetY(int64(1.2 * emuPerInch))
	body.SetWidth(bodyWidth).SetHeight(slideHeight - int64(1.2*emuPerInch) - marginBottom)
	for i, bullet := range rec.Bullets {
		if i > 0 {
			body.CreateParagraph()
		}
		tr := body.CreateTextRun("• " + bullet)
		tr.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(colorBody))
	}

	if img == nil {
		return false
	}

	w, h := img.fit(imageMaxWidth, slideHeight-imageTop-marginBottom)
	shape := slide.CreateDrawingShape()
	shape.SetImageData(img.data, img.mime)
	shape.SetOffsetX(imageLeft).SetOffsetY(imageTop)
	shape.SetWidth(w).SetHeight(h)
	return true
}

func (a *Assembler) addClosingSlide(p *ppt.Presentation) {
	slide := p.CreateSlide()
	addHeader(slide, ClosingTitle)

	body := slide.CreateRichTextShape()
	body.SetOffsetX(marginLeft).SetOffsetY(int64(1.2 * emuPerInch))
	body.SetWidth(contentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := body.CreateTextRun(ClosingBody)
	tr.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(colorBody))
}

func addHeader(slide *ppt.Slide, title string) {
	topBar := slide.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(slideWidth).SetHeight(int64(0.08 * emuPerInch))
	topBar.SetFill(solidFill(colorBar))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(0.8 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(colorAccent))
}

// TruncateTitle cuts a slide title to 80 runes.
func TruncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= maxTitleRunes {
		return title
	}
	return string(r[:maxTitleRunes])
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

type slideImage struct {
	data          []byte
	mime          string
	width, height int
}

var placeableTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

func loadImage(path string) (*slideImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	mime := mimetype.Detect(data).String()
	if !placeableTypes[mime] {
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("image has no size")
	}

	return &slideImage{data: data, mime: mime, width: cfg.Width, height: cfg.Height}, nil
}

// fit scales the image to the largest size inside maxW x maxH keeping its
// aspect ratio.
func (i *slideImage) fit(maxW, maxH int64) (int64, int64) {
	w := maxW
	h := maxW * int64(i.height) / int64(i.width)
	if h > maxH {
		h = maxH
		w = maxH * int64(i.width) / int64(i.height)
	}
	return w, h
}

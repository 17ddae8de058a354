package deck

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

type SlideSummary struct {
	Index  int
	Title  string
	Texts  []string
	Images int
	Notes  string
}

// Summary is what Inspect finds in a .pptx file.
type Summary struct {
	Title  string
	Slides []SlideSummary
}

func (s *Summary) ImageCount() int {
	n := 0
	for _, slide := range s.Slides {
		n += slide.Images
	}
	return n
}

func (s *Summary) NotesCount() int {
	n := 0
	for _, slide := range s.Slides {
		if slide.Notes != "" {
			n++
		}
	}
	return n
}

func InspectFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Inspect(data)
}

// Inspect reads slide text, image references and presenter notes straight
// from the package XML.
func Inspect(data []byte) (*Summary, error) {
	pkg, err := readPackage(data)
	if err != nil {
		return nil, err
	}

	slides, err := pkg.slideParts()
	if err != nil {
		return nil, err
	}

	summary := &Summary{Title: pkg.coreTitle()}
	for i, part := range slides {
		raw, _ := pkg.get(part)
		texts, err := paragraphs(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", part, err)
		}

		images, err := pkg.relTargets(part, relTypeImage)
		if err != nil {
			return nil, err
		}

		slide := SlideSummary{Index: i + 1, Texts: texts, Images: len(images)}
		if len(texts) > 0 {
			slide.Title = texts[0]
		}

		notesParts, err := pkg.relTargets(part, relTypeNotesSlide)
		if err != nil {
			return nil, err
		}
		if len(notesParts) > 0 {
			if raw, ok := pkg.get(notesParts[0]); ok {
				notes, err := paragraphs(raw)
				if err != nil {
					return nil, fmt.Errorf("parse %s: %w", notesParts[0], err)
				}
				slide.Notes = strings.Join(notes, " ")
			}
		}

		summary.Slides = append(summary.Slides, slide)
	}

	return summary, nil
}

func (p *pptxPackage) coreTitle() string {
	data, ok := p.get(corePropsPart)
	if !ok {
		return ""
	}
	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// paragraphs collects the text of every <a:p> in document order.
func paragraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		out    []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(cur.String()); s != "" && el.Name.Space == nsDrawing {
					out = append(out, s)
				}
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(el)
			}
		}
	}
	return out, nil
}

// Verify opens path with the presentation reader and returns its slide count.
func Verify(path string) (int, error) {
	reader, err := ppt.NewReader(ppt.ReaderPowerPoint2007)
	if err != nil {
		return 0, fmt.Errorf("new reader: %w", err)
	}
	pres, err := reader.Read(path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	return pres.GetSlideCount(), nil
}

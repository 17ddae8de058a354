package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	relTypeBase        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	relTypeSlide       = relTypeBase + "slide"
	relTypeImage       = relTypeBase + "image"
	relTypeTheme       = relTypeBase + "theme"
	relTypeNotesSlide  = relTypeBase + "notesSlide"
	relTypeNotesMaster = relTypeBase + "notesMaster"

	presentationPart = "ppt/presentation.xml"
	contentTypesPart = "[Content_Types].xml"
	corePropsPart    = "docProps/core.xml"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// pptxPackage is an OPC package held in memory. Entry order is preserved so
// [Content_Types].xml stays first.
type pptxPackage struct {
	names []string
	files map[string][]byte
}

func readPackage(data []byte) (*pptxPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}

	pkg := &pptxPackage{files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		pkg.set(f.Name, b)
	}
	return pkg, nil
}

func (p *pptxPackage) has(name string) bool {
	_, ok := p.files[name]
	return ok
}

func (p *pptxPackage) get(name string) ([]byte, bool) {
	b, ok := p.files[name]
	return b, ok
}

func (p *pptxPackage) set(name string, data []byte) {
	if !p.has(name) {
		p.names = append(p.names, name)
	}
	p.files[name] = data
}

func (p *pptxPackage) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(p.files[name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close pptx: %w", err)
	}
	return buf.Bytes(), nil
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Items   []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// rels returns the relationships of part. A part without a rels file has none.
func (p *pptxPackage) rels(part string) ([]relationship, error) {
	data, ok := p.get(relsPath(part))
	if !ok {
		return nil, nil
	}
	var r relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", relsPath(part), err)
	}
	return r.Items, nil
}

// relTargets resolves every relationship of part with the given type to a
// package path.
func (p *pptxPackage) relTargets(part, relType string) ([]string, error) {
	items, err := p.rels(part)
	if err != nil {
		return nil, err
	}
	var targets []string
	for _, rel := range items {
		if rel.Type == relType && rel.TargetMode != "External" {
			targets = append(targets, resolveTarget(part, rel.Target))
		}
	}
	return targets, nil
}

type presentationXML struct {
	SlideIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideParts lists slide part names in presentation order.
func (p *pptxPackage) slideParts() ([]string, error) {
	if parts := p.slidePartsFromPresentation(); len(parts) > 0 {
		return parts, nil
	}

	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for _, name := range p.names {
		if m := slidePartPattern.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			found = append(found, numbered{n: n, name: name})
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no slides in package")
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	parts := make([]string, len(found))
	for i, f := range found {
		parts[i] = f.name
	}
	return parts, nil
}

func (p *pptxPackage) slidePartsFromPresentation() []string {
	data, ok := p.get(presentationPart)
	if !ok {
		return nil
	}
	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil
	}
	items, err := p.rels(presentationPart)
	if err != nil {
		return nil
	}
	byID := make(map[string]string, len(items))
	for _, rel := range items {
		byID[rel.ID] = resolveTarget(presentationPart, rel.Target)
	}

	var parts []string
	for _, id := range pres.SlideIDs {
		target, ok := byID[id.RID]
		if !ok || !p.has(target) {
			return nil
		}
		parts = append(parts, target)
	}
	return parts
}

// relsPath maps ppt/slides/slide1.xml to ppt/slides/_rels/slide1.xml.rels.
func relsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func resolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(part), target)
}

// relativeTarget is the inverse of resolveTarget for parts under ppt/.
func relativeTarget(fromPart, toPart string) string {
	if path.Dir(fromPart) == path.Dir(toPart) {
		return path.Base(toPart)
	}
	if path.Dir(fromPart) == "ppt" {
		return strings.TrimPrefix(toPart, "ppt/")
	}
	return "../" + strings.TrimPrefix(toPart, "ppt/")
}

func nextRelID(items []relationship) string {
	highest := 0
	for _, rel := range items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

// addRelationship appends a relationship to part's rels file, creating the
// file when missing, and returns the new id.
func (p *pptxPackage) addRelationship(part, relType, target string) (string, error) {
	items, err := p.rels(part)
	if err != nil {
		return "", err
	}
	id := nextRelID(items)
	entry := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, escapeText(target))

	name := relsPath(part)
	data, ok := p.get(name)
	if !ok {
		p.set(name, []byte(xml.Header+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+entry+`</Relationships>`))
		return id, nil
	}

	out, err := insertBefore(data, "</Relationships>", entry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	p.set(name, out)
	return id, nil
}

func (p *pptxPackage) addOverride(part, contentType string) error {
	data, ok := p.get(contentTypesPart)
	if !ok {
		return fmt.Errorf("missing %s", contentTypesPart)
	}
	entry := fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, part, contentType)
	out, err := insertBefore(data, "</Types>", entry)
	if err != nil {
		return fmt.Errorf("%s: %w", contentTypesPart, err)
	}
	p.set(contentTypesPart, out)
	return nil
}

func insertBefore(data []byte, closing, snippet string) ([]byte, error) {
	idx := bytes.LastIndex(data, []byte(closing))
	if idx < 0 {
		return nil, fmt.Errorf("no %s element", closing)
	}
	out := make([]byte, 0, len(data)+len(snippet))
	out = append(out, data[:idx]...)
	out = append(out, snippet...)
	out = append(out, data[idx:]...)
	return out, nil
}

func escapeText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

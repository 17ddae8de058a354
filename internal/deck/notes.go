package deck

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	notesMasterPart        = "ppt/notesMasters/notesMaster1.xml"
	contentTypeNotesMaster = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	contentTypeNotesSlide  = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	contentTypeTheme       = "application/vnd.openxmlformats-officedocument.theme+xml"

	nsDrawing = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRel     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPres    = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

var (
	sldMasterIdLstEnd = regexp.MustCompile(`</(\w+:)?sldMasterIdLst>`)
	themePartPattern  = regexp.MustCompile(`^ppt/theme/theme(\d+)\.xml$`)
)

const notesMasterXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notesMaster xmlns:a="` + nsDrawing + `" xmlns:r="` + nsRel + `" xmlns:p="` + nsPres + `">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`</p:notesMaster>`

const notesSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:a="` + nsDrawing + `" xmlns:r="` + nsRel + `" xmlns:p="` + nsPres + `">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>%s</p:txBody></p:sp>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`

var errNoNotes = errors.New("no notes to attach")

// AttachNotes adds presenter notes to a serialized deck. notes holds one entry
// per slide in presentation order; empty entries are skipped. The returned
// flags say which slides received notes. On any structural problem the
// original bytes come back unchanged with every flag false.
func AttachNotes(data []byte, notes []string) ([]byte, []bool, error) {
	attached := make([]bool, len(notes))

	out, err := attachNotes(data, notes, attached)
	if errors.Is(err, errNoNotes) {
		return data, attached, nil
	}
	if err != nil {
		return data, make([]bool, len(notes)), err
	}
	return out, attached, nil
}

func attachNotes(data []byte, notes []string, attached []bool) ([]byte, error) {
	hasNotes := false
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			hasNotes = true
			break
		}
	}
	if !hasNotes {
		return nil, errNoNotes
	}

	pkg, err := readPackage(data)
	if err != nil {
		return nil, err
	}

	slides, err := pkg.slideParts()
	if err != nil {
		return nil, err
	}
	if len(slides) != len(notes) {
		return nil, fmt.Errorf("deck has %d slides but %d notes entries", len(slides), len(notes))
	}

	master, err := pkg.ensureNotesMaster()
	if err != nil {
		return nil, fmt.Errorf("notes master: %w", err)
	}

	for i, text := range notes {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		existing, err := pkg.relTargets(slides[i], relTypeNotesSlide)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			continue
		}
		if err := pkg.addNotesSlide(slides[i], master, text); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		attached[i] = true
	}

	return pkg.bytes()
}

// ensureNotesMaster returns the package's notes master, creating one (with a
// copy of the first theme) when the deck has none.
func (p *pptxPackage) ensureNotesMaster() (string, error) {
	existing, err := p.relTargets(presentationPart, relTypeNotesMaster)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 && p.has(existing[0]) {
		return existing[0], nil
	}

	themeSrc, themeDst := p.themeParts()
	if themeSrc == "" {
		return "", errors.New("package has no theme")
	}
	theme, _ := p.get(themeSrc)

	pres, ok := p.get(presentationPart)
	if !ok {
		return "", fmt.Errorf("missing %s", presentationPart)
	}
	loc := sldMasterIdLstEnd.FindSubmatchIndex(pres)
	if loc == nil {
		return "", errors.New("presentation has no slide master list")
	}
	prefix := ""
	if loc[2] >= 0 {
		prefix = string(pres[loc[2]:loc[3]])
	}

	p.set(themeDst, theme)
	p.set(notesMasterPart, []byte(notesMasterXML))
	if _, err := p.addRelationship(notesMasterPart, relTypeTheme, relativeTarget(notesMasterPart, themeDst)); err != nil {
		return "", err
	}

	id, err := p.addRelationship(presentationPart, relTypeNotesMaster, relativeTarget(presentationPart, notesMasterPart))
	if err != nil {
		return "", err
	}
	list := fmt.Sprintf(`<%[1]snotesMasterIdLst><%[1]snotesMasterId xmlns:r="%[2]s" r:id="%[3]s"/></%[1]snotesMasterIdLst>`, prefix, nsRel, id)
	out := make([]byte, 0, len(pres)+len(list))
	out = append(out, pres[:loc[1]]...)
	out = append(out, list...)
	out = append(out, pres[loc[1]:]...)
	p.set(presentationPart, out)

	if err := p.addOverride(themeDst, contentTypeTheme); err != nil {
		return "", err
	}
	if err := p.addOverride(notesMasterPart, contentTypeNotesMaster); err != nil {
		return "", err
	}
	return notesMasterPart, nil
}

// themeParts returns the first existing theme and an unused theme name.
func (p *pptxPackage) themeParts() (string, string) {
	var first string
	firstN, maxN := 0, 0
	for _, name := range p.names {
		m := themePartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		if first == "" || n < firstN {
			first, firstN = name, n
		}
		if n > maxN {
			maxN = n
		}
	}
	if first == "" {
		return "", ""
	}
	return first, fmt.Sprintf("ppt/theme/theme%d.xml", maxN+1)
}

func (p *pptxPackage) addNotesSlide(slidePart, masterPart, text string) error {
	name := p.unusedNotesPart(slidePart)

	p.set(name, []byte(fmt.Sprintf(notesSlideXML, notesParagraphs(text))))
	if _, err := p.addRelationship(name, relTypeSlide, relativeTarget(name, slidePart)); err != nil {
		return err
	}
	if _, err := p.addRelationship(name, relTypeNotesMaster, relativeTarget(name, masterPart)); err != nil {
		return err
	}
	if _, err := p.addRelationship(slidePart, relTypeNotesSlide, relativeTarget(slidePart, name)); err != nil {
		return err
	}
	return p.addOverride(name, contentTypeNotesSlide)
}

// unusedNotesPart names the notes part after its slide when possible.
func (p *pptxPackage) unusedNotesPart(slidePart string) string {
	base := strings.TrimSuffix(path.Base(slidePart), ".xml")
	suffix := strings.TrimPrefix(base, "slide")
	name := "ppt/notesSlides/notesSlide" + suffix + ".xml"
	for i := 1; p.has(name); i++ {
		name = fmt.Sprintf("ppt/notesSlides/notesSlide%s_%d.xml", suffix, i)
	}
	return name
}

func notesParagraphs(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>`)
		b.WriteString(escapeText(line))
		b.WriteString(`</a:t></a:r></a:p>`)
	}
	return b.String()
}

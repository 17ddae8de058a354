package deck

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const (
	testNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	testRelsNS = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
)

func testSlide(title string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><p:sld ` + testNS + `><p:cSld><p:spTree>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>` + title + `</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>body text</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
}

// buildTestPackage returns a minimal two-slide package whose presentation
// order is the reverse of its file numbering.
func buildTestPackage(t *testing.T, withTheme bool) []byte {
	t.Helper()
	files := []struct{ name, body string }{
		{contentTypesPart, `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`},
		{presentationPart, `<?xml version="1.0"?><p:presentation ` + testNS + `>` +
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/></p:sldIdLst></p:presentation>`},
		{"ppt/_rels/presentation.xml.rels", `<?xml version="1.0"?><Relationships ` + testRelsNS + `>` +
			`<Relationship Id="rId1" Type="` + relTypeBase + `slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
			`<Relationship Id="rId2" Type="` + relTypeSlide + `" Target="slides/slide1.xml"/>` +
			`<Relationship Id="rId3" Type="` + relTypeSlide + `" Target="slides/slide2.xml"/></Relationships>`},
		{"ppt/slides/slide1.xml", testSlide("Second")},
		{"ppt/slides/slide2.xml", testSlide("First")},
		{"ppt/slides/_rels/slide1.xml.rels", `<?xml version="1.0"?><Relationships ` + testRelsNS + `>` +
			`<Relationship Id="rId1" Type="` + relTypeImage + `" Target="../media/image1.png"/></Relationships>`},
		{"docProps/core.xml", `<?xml version="1.0"?><cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Test Deck</dc:title></cp:coreProperties>`},
	}
	if withTheme {
		files = append(files, struct{ name, body string }{"ppt/theme/theme1.xml", `<?xml version="1.0"?><a:theme ` + testNS + ` name="Office"/>`})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInspectOrderAndImages(t *testing.T) {
	summary, err := Inspect(buildTestPackage(t, true))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if summary.Title != "Test Deck" {
		t.Errorf("Title = %q, want Test Deck", summary.Title)
	}
	if len(summary.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(summary.Slides))
	}
	if summary.Slides[0].Title != "First" || summary.Slides[1].Title != "Second" {
		t.Errorf("slide order = %q, %q", summary.Slides[0].Title, summary.Slides[1].Title)
	}
	if summary.Slides[0].Images != 0 || summary.Slides[1].Images != 1 {
		t.Errorf("images = %d, %d, want 0, 1", summary.Slides[0].Images, summary.Slides[1].Images)
	}
	if summary.ImageCount() != 1 {
		t.Errorf("ImageCount() = %d, want 1", summary.ImageCount())
	}
}

func TestAttachNotes(t *testing.T) {
	data := buildTestPackage(t, true)

	out, attached, err := AttachNotes(data, []string{"", "Say hello & <smile>"})
	if err != nil {
		t.Fatalf("AttachNotes() error = %v", err)
	}
	if attached[0] || !attached[1] {
		t.Fatalf("attached = %v, want [false true]", attached)
	}

	summary, err := Inspect(out)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if summary.Slides[0].Notes != "" {
		t.Errorf("slide 1 notes = %q, want none", summary.Slides[0].Notes)
	}
	if summary.Slides[1].Notes != "Say hello & <smile>" {
		t.Errorf("slide 2 notes = %q", summary.Slides[1].Notes)
	}
	if summary.NotesCount() != 1 {
		t.Errorf("NotesCount() = %d, want 1", summary.NotesCount())
	}

	pkg, err := readPackage(out)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.names[0] != contentTypesPart {
		t.Errorf("first entry = %s, want %s", pkg.names[0], contentTypesPart)
	}
	for _, part := range []string{notesMasterPart, "ppt/theme/theme2.xml", "ppt/notesSlides/notesSlide1.xml"} {
		if !pkg.has(part) {
			t.Errorf("missing part %s", part)
		}
	}
	pres, _ := pkg.get(presentationPart)
	if !strings.Contains(string(pres), "</p:sldMasterIdLst><p:notesMasterIdLst>") {
		t.Errorf("presentation.xml lacks notes master list:\n%s", pres)
	}
	types, _ := pkg.get(contentTypesPart)
	for _, want := range []string{contentTypeNotesMaster, contentTypeNotesSlide, contentTypeTheme} {
		if !strings.Contains(string(types), want) {
			t.Errorf("[Content_Types].xml missing %s", want)
		}
	}
}

func TestAttachNotesTwice(t *testing.T) {
	out, _, err := AttachNotes(buildTestPackage(t, true), []string{"one", ""})
	if err != nil {
		t.Fatal(err)
	}

	out, attached, err := AttachNotes(out, []string{"again", "two"})
	if err != nil {
		t.Fatalf("second AttachNotes() error = %v", err)
	}
	if attached[0] || !attached[1] {
		t.Errorf("attached = %v, want [false true]", attached)
	}

	pkg, err := readPackage(out)
	if err != nil {
		t.Fatal(err)
	}
	pres, _ := pkg.get(presentationPart)
	if n := strings.Count(string(pres), "notesMasterIdLst>"); n != 2 {
		t.Errorf("presentation.xml has %d notesMasterIdLst tags, want one element", n)
	}
}

func TestAttachNotesBestEffort(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		notes   []string
		wantErr bool
	}{
		{name: "noNotes", data: buildTestPackage(t, true), notes: []string{"", " "}},
		{name: "countMismatch", data: buildTestPackage(t, true), notes: []string{"a"}, wantErr: true},
		{name: "noTheme", data: buildTestPackage(t, false), notes: []string{"a", "b"}, wantErr: true},
		{name: "notAZip", data: []byte("garbage"), notes: []string{"a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, attached, err := AttachNotes(tt.data, tt.notes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AttachNotes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !bytes.Equal(out, tt.data) {
				t.Error("AttachNotes() changed the deck")
			}
			if len(attached) != len(tt.notes) {
				t.Fatalf("len(attached) = %d, want %d", len(attached), len(tt.notes))
			}
			for i, ok := range attached {
				if ok {
					t.Errorf("attached[%d] = true", i)
				}
			}
		})
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{from: "ppt/presentation.xml", to: "ppt/notesMasters/notesMaster1.xml", want: "notesMasters/notesMaster1.xml"},
		{from: "ppt/slides/slide1.xml", to: "ppt/notesSlides/notesSlide1.xml", want: "../notesSlides/notesSlide1.xml"},
		{from: "ppt/slides/slide1.xml", to: "ppt/slides/slide2.xml", want: "slide2.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := relativeTarget(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("relativeTarget() = %q, want %q", got, tt.want)
			}
			if back := resolveTarget(tt.from, got); back != tt.to {
				t.Errorf("resolveTarget() = %q, want %q", back, tt.to)
			}
		})
	}
}

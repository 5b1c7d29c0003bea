package extract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumeanalyzer/internal/resume"
)

// buildPDF writes an uncompressed PDF with one page per content stream, all
// pages sharing a Helvetica font named F1.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in once the page ids are known
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, content := range pages {
		pageID := len(objects) + 1
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content)+1, content),
		)
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestTextPDF(t *testing.T) {
	tests := []struct {
		name      string
		pages     []string
		wantText  string
		wantLines []resume.Line
	}{
		{
			name: "text object per line",
			pages: []string{
				"BT /F1 12 Tf 72 720 Td (Jane Doe) Tj ET\n" +
					"BT /F1 12 Tf 72 700 Td (Education) Tj ET\n" +
					"BT /F1 12 Tf 72 686 Td (MIT 2020) Tj ET",
			},
			wantText: "Jane Doe\nEducation\nMIT 2020\n",
			wantLines: []resume.Line{
				{Section: resume.SectionEducation, Text: "MIT 2020"},
			},
		},
		{
			name: "td moves inside one text object",
			pages: []string{
				"BT /F1 12 Tf 72 720 Td (Education) Tj 0 -14 Td (MIT 2020) Tj 0 -14 Td (Skills) Tj 0 -14 Td (Python) Tj ET",
			},
			wantText: "Education\nMIT 2020\nSkills\nPython\n",
			wantLines: []resume.Line{
				{Section: resume.SectionEducation, Text: "MIT 2020"},
				{Section: resume.SectionSkills, Text: "Python"},
			},
		},
		{
			name: "segments on one baseline",
			pages: []string{
				"BT /F1 12 Tf 72 720 Td (Skills) Tj 0 -14 Td (Python) Tj 100 0 Td (SQL) Tj ET",
			},
			wantText: "Skills\nPython SQL\n",
			wantLines: []resume.Line{
				{Section: resume.SectionSkills, Text: "Python SQL"},
			},
		},
		{
			name: "several pages",
			pages: []string{
				"BT /F1 12 Tf 72 720 Td (Skills) Tj 0 -14 Td (Go) Tj 0 -14 Td [(Data) -300 (Science)] TJ ET",
				"BT /F1 12 Tf 72 720 Td (Experience) Tj 0 -14 Td (Acme Corp) Tj ET",
			},
			wantText: "Skills\nGo\nData Science\nExperience\nAcme Corp\n",
			wantLines: []resume.Line{
				{Section: resume.SectionSkills, Text: "Go"},
				{Section: resume.SectionSkills, Text: "Data Science"},
				{Section: resume.SectionExperience, Text: "Acme Corp"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Text("cv.pdf", PDF, buildPDF(t, tt.pages...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantLines, resume.BucketLines(text))
		})
	}
}

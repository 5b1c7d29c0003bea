package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumeanalyzer/internal/extract"
	"github.com/muhammadolammi/resumeanalyzer/internal/matcher"
	"github.com/muhammadolammi/resumeanalyzer/internal/recognizer"
	"github.com/muhammadolammi/resumeanalyzer/internal/resume"
)

// textExtractor treats document bytes as already extracted text, except for
// documents named in broken.
func textExtractor(broken ...string) ExtractFunc {
	return func(document string, format extract.Format, data []byte) (string, error) {
		for _, b := range broken {
			if b == document {
				return "", &extract.ExtractionError{Document: document, Format: format, Err: errors.New("corrupt")}
			}
		}
		return string(data), nil
	}
}

// firstLineName reports the first line of the text as a person.
func firstLineName() recognizer.Recognizer {
	return recognizer.Func(func(_ context.Context, text string) ([]recognizer.Entity, error) {
		for i := range len(text) {
			if text[i] == '\n' {
				return []recognizer.Entity{{Group: recognizer.GroupPerson, Word: text[:i]}}, nil
			}
		}
		return nil, nil
	})
}

func newAnalyzer(t *testing.T, broken ...string) *Analyzer {
	t.Helper()
	return New(resume.NewParser(firstLineName()), matcher.DefaultCatalog(), WithExtractor(textExtractor(broken...)))
}

func doc(name, text string) Document {
	return BytesDocument(name, extract.PDF, []byte(text))
}

func TestSelfCheck(t *testing.T) {
	a := newAnalyzer(t)
	text := "Jane Doe\njane@example.com\nSkills\nPython\nsql\nPandas\nExperience\nAcme"

	report, err := a.SelfCheck(context.Background(), doc("jane.pdf", text), "Software Engineer")
	require.NoError(t, err)

	assert.Equal(t, "jane.pdf", report.Document)
	assert.Equal(t, "Jane Doe", report.Info.Name)
	assert.Equal(t, []string{"jane@example.com"}, report.Info.Contact)
	assert.Equal(t, "Software Engineer", report.Profile)
	assert.Equal(t, []string{"C++", "Java", "Python", "Data Structures", "Algorithms"}, report.RequiredSkills)
	assert.InDelta(t, 20.0, report.Score, 1e-9)
	assert.Equal(t, []string{"Algorithms", "C++", "Data structures", "Java"}, report.Missing)
	assert.Equal(t, "Data Scientist", report.BestProfile)
	assert.InDelta(t, 50.0, report.BestScore, 1e-9)
}

func TestSelfCheckNoMatch(t *testing.T) {
	report, err := newAnalyzer(t).SelfCheck(context.Background(), doc("x.pdf", "X\nSkills\nBasket weaving"), "Data Scientist")
	require.NoError(t, err)
	assert.Zero(t, report.Score)
	assert.Empty(t, report.BestProfile)
	assert.Zero(t, report.BestScore)
	assert.Len(t, report.Missing, 6)
}

func TestSelfCheckErrors(t *testing.T) {
	a := newAnalyzer(t, "broken.pdf")

	_, err := a.SelfCheck(context.Background(), doc("jane.pdf", "Jane\n"), "Astronaut")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = a.SelfCheck(context.Background(), doc("broken.pdf", ""), "Data Scientist")
	var extractionErr *extract.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestRankSortsStably(t *testing.T) {
	a := newAnalyzer(t)
	docs := []Document{
		doc("a.pdf", "Alice\nSkills\nGo\nSQL"),
		doc("b.pdf", "Bob\nSkills\nGo\nSQL\nDocker\nAWS\nLinux"),
		doc("c.pdf", "Carol\nSkills\nlinux\nDOCKER"),
	}

	ranking, err := a.Rank(context.Background(), docs, "Go, SQL, Docker, AWS, Linux")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "SQL", "Docker", "AWS", "Linux"}, ranking.JobSkills)
	require.Len(t, ranking.Candidates, 3)

	names := []string{}
	scores := []float64{}
	for _, c := range ranking.Candidates {
		names = append(names, c.Name)
		scores = append(scores, c.Score)
	}
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names)
	assert.InDeltaSlice(t, []float64{100, 40, 40}, scores, 1e-9)
	assert.Equal(t, []string{"Aws", "Docker", "Linux"}, ranking.Candidates[1].Missing)
	assert.Equal(t, []string{}, ranking.Candidates[0].Missing)
}

func TestRankIsolatesFailures(t *testing.T) {
	a := newAnalyzer(t, "broken.docx")
	fetchErr := errors.New("connection reset")
	docs := []Document{
		doc("broken.docx", ""),
		{Name: "remote.pdf", Format: extract.PDF, Fetch: func(context.Context) ([]byte, error) { return nil, fetchErr }},
		doc("ok.pdf", "Olga\nSkills\nPython"),
	}

	ranking, err := a.Rank(context.Background(), docs, "Python")
	require.NoError(t, err)
	require.Len(t, ranking.Candidates, 3)

	assert.Equal(t, "Olga", ranking.Candidates[0].Name)
	assert.False(t, ranking.Candidates[0].Failed())
	assert.InDelta(t, 100.0, ranking.Candidates[0].Score, 1e-9)

	assert.Equal(t, "broken.docx", ranking.Candidates[1].Document)
	assert.True(t, ranking.Candidates[1].Failed())
	assert.Contains(t, ranking.Candidates[1].Error, "text extraction failed")

	assert.Equal(t, "remote.pdf", ranking.Candidates[2].Document)
	assert.Contains(t, ranking.Candidates[2].Error, "connection reset")
}

func TestRankRequiresJobDescription(t *testing.T) {
	fetched := false
	docs := []Document{{
		Name:   "a.pdf",
		Format: extract.PDF,
		Fetch: func(context.Context) ([]byte, error) {
			fetched = true
			return nil, nil
		},
	}}

	for _, jd := range []string{"", "  ", " , ,"} {
		_, err := newAnalyzer(t).Rank(context.Background(), docs, jd)
		assert.ErrorIs(t, err, ErrMissingJobDescription)
	}
	assert.False(t, fetched)
}

func TestSortCandidates(t *testing.T) {
	results := []CandidateResult{
		{Document: "first", Score: 40},
		{Document: "failed", Error: "boom"},
		{Document: "top", Score: 90},
		{Document: "second", Score: 40},
	}
	SortCandidates(results)

	order := make([]string, len(results))
	for i, r := range results {
		order[i] = r.Document
	}
	assert.Equal(t, []string{"top", "first", "second", "failed"}, order)
}

func TestInspectRejectsUnsupportedFormat(t *testing.T) {
	a := newAnalyzer(t)
	fetched := false
	_, err := a.Inspect(context.Background(), Document{
		Name: "notes.txt",
		Fetch: func(context.Context) ([]byte, error) {
			fetched = true
			return []byte("Skills\nGo"), nil
		},
	})
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
	assert.False(t, fetched)
}

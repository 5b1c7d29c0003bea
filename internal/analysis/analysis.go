// Package analysis runs the self-check and recruiter ranking workflows over
// uploaded documents.
package analysis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/muhammadolammi/resumeanalyzer/internal/extract"
	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
	"github.com/muhammadolammi/resumeanalyzer/internal/matcher"
	"github.com/muhammadolammi/resumeanalyzer/internal/resume"
)

var (
	// ErrMissingJobDescription means the recruiter gave no usable skills.
	ErrMissingJobDescription = errors.New("job description with comma-separated skills is required")
	ErrUnknownProfile        = errors.New("unknown job profile")
)

// ExtractFunc turns document bytes into text.
type ExtractFunc func(document string, format extract.Format, data []byte) (string, error)

// Document is one uploaded resume. Fetch is called when the document's turn
// comes, so documents are read one at a time.
type Document struct {
	Name   string
	Format extract.Format
	Fetch  func(ctx context.Context) ([]byte, error)
}

// BytesDocument wraps an in-memory upload.
func BytesDocument(name string, format extract.Format, data []byte) Document {
	return Document{
		Name:   name,
		Format: format,
		Fetch: func(context.Context) ([]byte, error) {
			return data, nil
		},
	}
}

// SelfCheckReport is the result of checking one resume against one profile.
type SelfCheckReport struct {
	Document       string      `json:"document"`
	Info           resume.Info `json:"info"`
	Profile        string      `json:"profile"`
	RequiredSkills []string    `json:"required_skills"`
	Score          float64     `json:"score"`
	Missing        []string    `json:"missing_skills"`
	BestProfile    string      `json:"best_profile"`
	BestScore      float64     `json:"best_score"`
}

// CandidateResult is one ranked resume. Error is set when the document could
// not be analyzed; such results carry no score.
type CandidateResult struct {
	Document string   `json:"document"`
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Missing  []string `json:"missing_skills"`
	Error    string   `json:"error,omitempty"`
}

func (r CandidateResult) Failed() bool {
	return r.Error != ""
}

// Ranking is the recruiter view of a batch.
type Ranking struct {
	JobSkills  []string          `json:"job_skills"`
	Candidates []CandidateResult `json:"candidates"`
}

type Analyzer struct {
	parser  *resume.Parser
	catalog *matcher.Catalog
	extract ExtractFunc
}

type Option func(*Analyzer)

// WithExtractor replaces the document text extractor.
func WithExtractor(fn ExtractFunc) Option {
	return func(a *Analyzer) {
		a.extract = fn
	}
}

func New(parser *resume.Parser, catalog *matcher.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:  parser,
		catalog: catalog,
		extract: extract.Text,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Catalog() *matcher.Catalog {
	return a.catalog
}

// Inspect extracts and parses a single document.
func (a *Analyzer) Inspect(ctx context.Context, doc Document) (resume.Info, error) {
	if !doc.Format.Supported() {
		return resume.Info{}, fmt.Errorf("%w: %q", extract.ErrUnsupportedFormat, doc.Name)
	}
	data, err := doc.Fetch(ctx)
	if err != nil {
		return resume.Info{}, fmt.Errorf("file download error: %w", err)
	}
	text, err := a.extract(doc.Name, doc.Format, data)
	if err != nil {
		return resume.Info{}, err
	}
	return a.parser.Parse(ctx, text)
}

// SelfCheck scores one resume against the named profile and finds the best
// profile over the whole catalog, which may differ from the chosen one.
func (a *Analyzer) SelfCheck(ctx context.Context, doc Document, profileTitle string) (*SelfCheckReport, error) {
	profile, ok := a.catalog.Lookup(profileTitle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profileTitle)
	}

	info, err := a.Inspect(ctx, doc)
	if err != nil {
		return nil, err
	}

	best, bestScore := a.catalog.BestMatch(info.Skills)
	return &SelfCheckReport{
		Document:       doc.Name,
		Info:           info,
		Profile:        profile.Title,
		RequiredSkills: profile.Skills,
		Score:          matcher.Score(info.Skills, profile.Skills),
		Missing:        matcher.MissingSkills(info.Skills, profile.Skills),
		BestProfile:    best,
		BestScore:      bestScore,
	}, nil
}

// Rank scores every document against the skills in jobDescription. Documents
// are processed in order, one at a time. A document that fails is reported
// in its result and does not stop the batch. Candidates are sorted by
// descending score with ties in upload order; failed documents follow in
// upload order.
func (a *Analyzer) Rank(ctx context.Context, docs []Document, jobDescription string) (*Ranking, error) {
	jobSkills := matcher.ParseSkillList(jobDescription)
	if len(jobSkills) == 0 {
		return nil, ErrMissingJobDescription
	}

	results := make([]CandidateResult, 0, len(docs))
	for _, doc := range docs {
		result := CandidateResult{Document: doc.Name, Missing: []string{}}

		info, err := a.Inspect(ctx, doc)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("document", doc.Name).Msg("resume analysis failed")
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Name = info.Name
		result.Score = matcher.Score(info.Skills, jobSkills)
		result.Missing = matcher.MissingSkills(info.Skills, jobSkills)
		results = append(results, result)
	}

	SortCandidates(results)
	return &Ranking{JobSkills: jobSkills, Candidates: results}, nil
}

// SortCandidates orders results by descending score, keeping upload order on
// ties, with failed results last.
func SortCandidates(results []CandidateResult) {
	slices.SortStableFunc(results, func(x, y CandidateResult) int {
		if x.Failed() != y.Failed() {
			if x.Failed() {
				return 1
			}
			return -1
		}
		return cmp.Compare(y.Score, x.Score)
	})
}

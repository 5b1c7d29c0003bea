// Package render formats analysis results as markdown.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/resume"
)

// Percent formats a score with two decimals.
func Percent(score float64) string {
	return fmt.Sprintf("%.2f%%", score)
}

// ResumeSummary writes the name and every non-empty section.
func ResumeSummary(w io.Writer, info resume.Info) error {
	var b strings.Builder
	fmt.Fprintf(&b, "**Name:** %s\n", info.Name)
	writeList(&b, "Contact Information", info.Contact)
	writeList(&b, "Education", info.Education)
	writeList(&b, "Skills", info.Skills)
	writeList(&b, "Experience", info.Experience)
	_, err := io.WriteString(w, b.String())
	return err
}

func SelfCheck(w io.Writer, r *analysis.SelfCheckReport) error {
	var b strings.Builder
	b.WriteString("## Resume Summary\n\n")
	if err := ResumeSummary(&b, r.Info); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\n### Skills Required for %s\n\n", r.Profile)
	for _, s := range r.RequiredSkills {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	fmt.Fprintf(&b, "\n### Matching Score: %s\n", Percent(r.Score))
	writeList(&b, "Missing Skills", r.Missing)

	best := r.BestProfile
	if best == "" {
		best = "None"
	}
	fmt.Fprintf(&b, "\n### Best Match: %s (%s)\n", best, Percent(r.BestScore))

	_, err := io.WriteString(w, b.String())
	return err
}

func Ranking(w io.Writer, r *analysis.Ranking) error {
	var b strings.Builder
	b.WriteString("### Candidate Ranking\n\n")
	fmt.Fprintf(&b, "Job skills: %s\n\n", strings.Join(r.JobSkills, ", "))

	for i, c := range r.Candidates {
		if c.Failed() {
			fmt.Fprintf(&b, "**%d. %s** – not analyzed: %s\n", i+1, c.Document, c.Error)
			continue
		}
		fmt.Fprintf(&b, "**%d. %s** – %s\n", i+1, candidateLabel(c), Percent(c.Score))
		if len(c.Missing) > 0 {
			fmt.Fprintf(&b, "Missing: %s\n", strings.Join(c.Missing, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func candidateLabel(c analysis.CandidateResult) string {
	if c.Name == "" {
		return c.Document
	}
	return c.Name
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

// Package resume parses plain resume text into a structured summary.
package resume

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/muhammadolammi/resumeanalyzer/internal/recognizer"
)

// Section is a resume section recognized by its header keyword.
type Section string

const (
	SectionNone       Section = ""
	SectionEducation  Section = "Education"
	SectionSkills     Section = "Skills"
	SectionExperience Section = "Experience"
)

// Info is the structured summary of one resume.
type Info struct {
	Name       string   `json:"name"`
	Contact    []string `json:"contact"`
	Education  []string `json:"education"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{10}\b|\(\d{3}\)\s*\d{3}-\d{4}|\d{3}-\d{3}-\d{4}`)
)

// Parser builds Info from resume text. It is safe for concurrent use if its
// recognizer is.
type Parser struct {
	recognizer recognizer.Recognizer
}

func NewParser(r recognizer.Recognizer) *Parser {
	return &Parser{recognizer: r}
}

func (p *Parser) Parse(ctx context.Context, text string) (Info, error) {
	name, err := p.name(ctx, text)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Name:       name,
		Contact:    Contacts(text),
		Education:  []string{},
		Skills:     []string{},
		Experience: []string{},
	}
	for _, l := range BucketLines(text) {
		switch l.Section {
		case SectionEducation:
			info.Education = append(info.Education, l.Text)
		case SectionSkills:
			info.Skills = append(info.Skills, l.Text)
		case SectionExperience:
			info.Experience = append(info.Experience, l.Text)
		}
	}
	return info, nil
}

// name returns the first person entity, stopping the recognizer as soon as
// one is seen.
func (p *Parser) name(ctx context.Context, text string) (string, error) {
	for entity, err := range p.recognizer.Recognize(ctx, text) {
		if err != nil {
			return "", fmt.Errorf("failed to recognize entities: %w", err)
		}
		if entity.Group == recognizer.GroupPerson {
			return entity.Word, nil
		}
	}
	return "", nil
}

// Contacts returns every email address followed by every phone number found
// in text, each group in order of appearance.
func Contacts(text string) []string {
	contacts := []string{}
	contacts = append(contacts, emailPattern.FindAllString(text, -1)...)
	contacts = append(contacts, phonePattern.FindAllString(text, -1)...)
	return contacts
}

// Line is a resume line assigned to a section.
type Line struct {
	Section Section
	Text    string
}

// BucketLines assigns each non-empty, trimmed line of text to the section
// whose header most recently preceded it. Header lines themselves and lines
// before the first header are dropped. A line mentioning a keyword anywhere
// is treated as a header, even inside a section body.
func BucketLines(text string) []Line {
	var (
		lines   []Line
		current = SectionNone
	)
	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if header, ok := headerSection(line); ok {
			current = header
			continue
		}
		if current != SectionNone {
			lines = append(lines, Line{Section: current, Text: line})
		}
	}
	return lines
}

func headerSection(line string) (Section, bool) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "education"):
		return SectionEducation, true
	case strings.Contains(lower, "skills"):
		return SectionSkills, true
	case strings.Contains(lower, "experience"):
		return SectionExperience, true
	}
	return SectionNone, false
}

// isLineBreak matches the same boundaries as universal-newline splitting:
// LF, CR, VT, FF, the file/group/record separators, NEL and the Unicode
// line and paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

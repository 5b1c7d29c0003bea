// Package matcher scores extracted resume skills against required skills.
package matcher

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Score returns the percentage of requiredSkills present in resumeSkills,
// compared case-insensitively. Extra resume skills do not raise the score.
// An empty requirement scores 0.
func Score(resumeSkills, requiredSkills []string) float64 {
	required := skillSet(requiredSkills)
	if len(required) == 0 {
		return 0
	}
	have := skillSet(resumeSkills)

	matched := 0
	for s := range required {
		if _, ok := have[s]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required)) * 100
}

// MissingSkills returns the required skills absent from resumeSkills,
// capitalized for display and sorted alphabetically.
func MissingSkills(resumeSkills, requiredSkills []string) []string {
	have := skillSet(resumeSkills)

	missing := []string{}
	for s := range skillSet(requiredSkills) {
		if _, ok := have[s]; !ok {
			missing = append(missing, capitalize(s))
		}
	}
	slices.Sort(missing)
	return missing
}

// ParseSkillList splits a comma separated job description into trimmed
// skills. Unlike a plain split and trim, empty entries are dropped, so a
// trailing comma neither lowers the score nor shows up as a blank missing
// skill.
func ParseSkillList(text string) []string {
	skills := []string{}
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

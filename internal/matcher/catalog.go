package matcher

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfiles []byte

// Profile is a job title with the skills it requires.
type Profile struct {
	Title  string   `yaml:"title" json:"title"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Catalog is an ordered, read-only set of job profiles. Order matters: it
// decides ties in BestMatch.
type Catalog struct {
	profiles []Profile
	index    map[string]int
}

type catalogFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultProfiles)
	if err != nil {
		panic(fmt.Sprintf("matcher: invalid embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(file.Profiles)
}

// NewCatalog validates profiles and keeps them in the given order.
func NewCatalog(profiles []Profile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, errors.New("catalog has no profiles")
	}
	c := &Catalog{
		profiles: make([]Profile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for i, p := range profiles {
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			return nil, fmt.Errorf("profile %d has no title", i+1)
		}
		if _, dup := c.index[p.Title]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Title)
		}
		c.index[p.Title] = len(c.profiles)
		c.profiles = append(c.profiles, Profile{Title: p.Title, Skills: append([]string(nil), p.Skills...)})
	}
	return c, nil
}

// Profiles returns a copy of the profiles in declaration order.
func (c *Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	for i, p := range c.profiles {
		out[i] = Profile{Title: p.Title, Skills: append([]string(nil), p.Skills...)}
	}
	return out
}

func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		titles[i] = p.Title
	}
	return titles
}

func (c *Catalog) Lookup(title string) (Profile, bool) {
	i, ok := c.index[title]
	if !ok {
		return Profile{}, false
	}
	p := c.profiles[i]
	return Profile{Title: p.Title, Skills: append([]string(nil), p.Skills...)}, true
}

// BestMatch returns the first profile with the highest score for
// resumeSkills. A profile only replaces the current best when it scores
// strictly higher, so ties go to the earlier profile. When nothing scores
// above zero the title is empty.
func (c *Catalog) BestMatch(resumeSkills []string) (string, float64) {
	var (
		best      string
		bestScore float64
	)
	for _, p := range c.profiles {
		if s := Score(resumeSkills, p.Skills); s > bestScore {
			best, bestScore = p.Title, s
		}
	}
	return best, bestScore
}

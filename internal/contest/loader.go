package contest

import (
	"fmt"
	"os"
	"sort"

	"github.com/fiucpc/arena/internal/config"
	"gopkg.in/yaml.v3"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Problem is one entry of the weekly problem set. The set is immutable once
// loaded; a period always scores against the set it started with.
type Problem struct {
	Letter     string     `yaml:"letter" json:"letter"`
	Title      string     `yaml:"title" json:"title"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
	Weight     int        `yaml:"-" json:"weight"`
}

type ProblemSet struct {
	byLetter map[string]Problem
	ordered  []Problem
}

// Participant is a static identity record from the roster. Country and
// university are display-only; they never affect scoring.
type Participant struct {
	Username    string `yaml:"username" json:"username"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Country     string `yaml:"country" json:"country"`
	University  string `yaml:"university" json:"university"`
}

// LoadProblemSet reads problems.yaml and stamps each problem with its point
// weight from the configured difficulty mapping.
func LoadProblemSet(path string, weights config.Weights) (*ProblemSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem set: %w", err)
	}

	var problems []Problem
	if err := yaml.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("parse problem set: %w", err)
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("problem set %s is empty", path)
	}

	set := &ProblemSet{byLetter: make(map[string]Problem, len(problems))}
	for _, p := range problems {
		if p.Letter == "" {
			return nil, fmt.Errorf("problem %q has no letter", p.Title)
		}
		if _, dup := set.byLetter[p.Letter]; dup {
			return nil, fmt.Errorf("duplicate problem letter %s", p.Letter)
		}
		switch p.Difficulty {
		case Easy:
			p.Weight = weights.Easy
		case Medium:
			p.Weight = weights.Medium
		case Hard:
			p.Weight = weights.Hard
		default:
			return nil, fmt.Errorf("problem %s has unknown difficulty %q", p.Letter, p.Difficulty)
		}
		set.byLetter[p.Letter] = p
		set.ordered = append(set.ordered, p)
	}

	sort.Slice(set.ordered, func(i, j int) bool {
		return set.ordered[i].Letter < set.ordered[j].Letter
	})
	return set, nil
}

// NewProblemSet builds a set directly from problems; used by tests and callers
// that do not load from disk. Weights must already be stamped.
func NewProblemSet(problems []Problem) *ProblemSet {
	set := &ProblemSet{byLetter: make(map[string]Problem, len(problems))}
	for _, p := range problems {
		set.byLetter[p.Letter] = p
		set.ordered = append(set.ordered, p)
	}
	sort.Slice(set.ordered, func(i, j int) bool {
		return set.ordered[i].Letter < set.ordered[j].Letter
	})
	return set
}

func (s *ProblemSet) Get(letter string) (Problem, bool) {
	p, ok := s.byLetter[letter]
	return p, ok
}

// Problems returns the set in letter order.
func (s *ProblemSet) Problems() []Problem {
	out := make([]Problem, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *ProblemSet) Letters() []string {
	letters := make([]string, 0, len(s.ordered))
	for _, p := range s.ordered {
		letters = append(letters, p.Letter)
	}
	return letters
}

func (s *ProblemSet) Len() int { return len(s.ordered) }

// LoadRoster reads the participant directory. A missing path is not an error:
// the engine still ranks anyone who submits, they just have no identity fields.
func LoadRoster(path string) ([]Participant, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var roster []Participant
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for i, p := range roster {
		if p.Username == "" {
			return nil, fmt.Errorf("roster entry %d has no username", i)
		}
	}
	return roster, nil
}

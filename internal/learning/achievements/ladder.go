package achievements

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

const ladderEnv = "ACHIEVEMENTS_YAML"

//go:embed achievements.yaml
var ladderFS embed.FS

type Metric string

const (
	MetricLearnedWords     Metric = "learned_words"
	MetricCompletedLessons Metric = "completed_lessons"
	MetricCompletedBlocks  Metric = "completed_blocks"
	MetricCurrentStreak    Metric = "current_streak"
)

func (m Metric) valid() bool {
	switch m {
	case MetricLearnedWords, MetricCompletedLessons, MetricCompletedBlocks, MetricCurrentStreak:
		return true
	}
	return false
}

// Rule awards achievement Type once Metric reaches Threshold.
type Rule struct {
	Type        string `yaml:"type" json:"type"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Metric      Metric `yaml:"metric" json:"metric"`
	Threshold   int    `yaml:"threshold" json:"threshold"`
}

// Counters is the user state the ladder is evaluated against.
type Counters struct {
	LearnedWords     int
	CompletedLessons int
	CompletedBlocks  int
	CurrentStreak    int
}

func (c Counters) value(m Metric) int {
	switch m {
	case MetricLearnedWords:
		return c.LearnedWords
	case MetricCompletedLessons:
		return c.CompletedLessons
	case MetricCompletedBlocks:
		return c.CompletedBlocks
	case MetricCurrentStreak:
		return c.CurrentStreak
	}
	return 0
}

type Ladder struct {
	rules []Rule
}

type yamlLadder struct {
	Ladder  string `yaml:"ladder"`
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// fallback used when the YAML is missing or invalid
var fallbackRules = []Rule{
	{Type: "first_words", Name: "First words", Description: "Learn your first word", Icon: "🎯", Metric: MetricLearnedWords, Threshold: 1},
	{Type: "words_10", Name: "10 words learned", Description: "Learn 10 words", Icon: "📘", Metric: MetricLearnedWords, Threshold: 10},
	{Type: "words_50", Name: "50 words learned", Description: "Learn 50 words", Icon: "📚", Metric: MetricLearnedWords, Threshold: 50},
	{Type: "words_100", Name: "100 words learned", Description: "Learn 100 words", Icon: "🏅", Metric: MetricLearnedWords, Threshold: 100},
}

// NewLadder validates rules and orders them by metric then threshold.
func NewLadder(rules []Rule) (*Ladder, error) {
	if len(rules) == 0 {
		return nil, errors.New("no rules defined")
	}
	seen := map[string]bool{}
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		r.Type = strings.TrimSpace(r.Type)
		if r.Type == "" {
			return nil, errors.New("rule type is required")
		}
		if seen[r.Type] {
			return nil, fmt.Errorf("duplicate rule type: %s", r.Type)
		}
		seen[r.Type] = true
		if !r.Metric.valid() {
			return nil, fmt.Errorf("rule %s: unknown metric %q", r.Type, r.Metric)
		}
		if r.Threshold < 1 {
			return nil, fmt.Errorf("rule %s: threshold must be >= 1", r.Type)
		}
		if strings.TrimSpace(r.Name) == "" {
			r.Name = r.Type
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric < out[j].Metric
		}
		return out[i].Threshold < out[j].Threshold
	})
	return &Ladder{rules: out}, nil
}

// Parse reads a ladder definition.
func Parse(data []byte) (*Ladder, error) {
	var spec yamlLadder
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Ladder) != "achievements" {
		return nil, fmt.Errorf("unexpected ladder: %s", spec.Ladder)
	}
	return NewLadder(spec.Rules)
}

func (l *Ladder) Rules() []Rule {
	if l == nil {
		return nil
	}
	out := make([]Rule, len(l.rules))
	copy(out, l.rules)
	return out
}

// Qualifying returns every rule whose threshold c has reached, whether or
// not the user already holds it.
func (l *Ladder) Qualifying(c Counters) []Rule {
	if l == nil {
		return nil
	}
	out := []Rule{}
	for _, r := range l.rules {
		if c.value(r.Metric) >= r.Threshold {
			out = append(out, r)
		}
	}
	return out
}

// Metrics lists the distinct metrics the ladder needs.
func (l *Ladder) Metrics() []Metric {
	if l == nil {
		return nil
	}
	seen := map[Metric]bool{}
	out := []Metric{}
	for _, r := range l.rules {
		if !seen[r.Metric] {
			seen[r.Metric] = true
			out = append(out, r.Metric)
		}
	}
	return out
}

var defaultOnce sync.Once
var defaultLadder *Ladder
var defaultErr error

// Default returns the ladder from ACHIEVEMENTS_YAML, or the embedded file
// when unset. A broken definition falls back to the learned-words ladder.
func Default(log *logger.Logger) *Ladder {
	defaultOnce.Do(func() {
		var data []byte
		data, defaultErr = readLadder()
		if defaultErr == nil {
			defaultLadder, defaultErr = Parse(data)
		}
	})
	if defaultErr != nil || defaultLadder == nil {
		if log != nil {
			log.Warn("achievements: ladder load failed; using fallback", "error", defaultErr)
		}
		l, _ := NewLadder(fallbackRules)
		return l
	}
	return defaultLadder
}

func readLadder() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(ladderEnv)); path != "" {
		return os.ReadFile(path)
	}
	return ladderFS.ReadFile("achievements.yaml")
}

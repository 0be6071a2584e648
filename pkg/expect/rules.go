// pkg/expect/rules.go
package expect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/techcommerce/data-quality/pkg/schema"
)

// Rules configures the expectation suite: accepted enumerations, scoring
// thresholds, and per-dimension weights. Every field has a built-in
// default so running without a rules file works.
type Rules struct {
	// Categories accepted for products.
	Categories []string `yaml:"categories"`

	// WarnBelow and FailBelow are the score thresholds separating
	// pass/warning/fail, on a 0-100 scale.
	WarnBelow float64 `yaml:"warn_below"`
	FailBelow float64 `yaml:"fail_below"`

	// Weights per dimension for the overall score. Missing entries
	// default to 1.0.
	Weights map[string]float64 `yaml:"weights"`

	// TotalTolerance is the absolute tolerance for the stored-total
	// consistency check.
	TotalTolerance float64 `yaml:"total_tolerance"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	return &Rules{
		Categories:     schema.DefaultCategories,
		WarnBelow:      90.0,
		FailBelow:      70.0,
		Weights:        map[string]float64{},
		TotalTolerance: 0.01,
	}
}

// LoadRules reads a YAML rules file and fills unset fields with defaults.
// An empty path returns the defaults.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	loaded := &Rules{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(loaded.Categories) > 0 {
		rules.Categories = loaded.Categories
	}
	if loaded.WarnBelow > 0 {
		rules.WarnBelow = loaded.WarnBelow
	}
	if loaded.FailBelow > 0 {
		rules.FailBelow = loaded.FailBelow
	}
	if len(loaded.Weights) > 0 {
		rules.Weights = loaded.Weights
	}
	if loaded.TotalTolerance > 0 {
		rules.TotalTolerance = loaded.TotalTolerance
	}

	return rules, nil
}

// weight returns the configured weight for a dimension, defaulting to 1.
func (r *Rules) weight(dimension string) float64 {
	if w, ok := r.Weights[dimension]; ok && w > 0 {
		return w
	}
	return 1.0
}

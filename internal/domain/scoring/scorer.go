// Package scoring computes the 0-100 battery-readiness heuristic for a
// building from its accumulated observation text. The function is pure:
// same text in, same score out, no state kept anywhere.
package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the scorer output. Drivers lists which signal categories fired,
// already weighted ("+22: electrical infrastructure").
type Result struct {
	Score      int      `json:"score"`
	Confidence string   `json:"confidence"`
	Drivers    []string `json:"drivers"`
}

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

const maxDrivers = 5

type category struct {
	label    string
	points   int
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// Category weights sum to exactly 100; each category contributes at most
// once no matter how many of its keywords appear.
var categories = []category{
	{
		label:  "load indicators",
		points: 18,
		patterns: compile(
			`\bfactory\b`, `\bwarehouse\b`, `\bmanufactur`, `\brefrigerat`,
			`\bcold storage\b`, `\bhvac\b`, `\bchiller\b`,
		),
	},
	{
		label:  "electrical infrastructure",
		points: 22,
		patterns: compile(
			`\btransformer\b`, `\bswitchgear\b`, `\bsubstation\b`,
			`\bswitchyard\b`, `\bthree[- ]phase\b`,
		),
	},
	{
		label:    "onsite generation",
		points:   14,
		patterns: compile(`\bsolar\b`, `\bpv\b`, `\binverter\b`),
	},
	{
		label:  "siting space",
		points: 18,
		patterns: compile(
			`\blot\b`, `\bparking\b`, `\byard\b`, `\bempty space\b`, `\bpaved\b`,
		),
	},
	{
		label:  "logistics / industrial use",
		points: 12,
		patterns: compile(
			`\bloading dock\b`, `\bforklift\b`, `\bdistribution\b`,
			`\btruck\b`, `\bcontainer\b`,
		),
	},
	{
		label:  "contact captured",
		points: 16,
		patterns: compile(
			`\bfacilities\b`, `\bmanager\b`, `\bmaintenance\b`,
			`\bbusiness card\b`, `\bphone\b`, `@`,
		),
	},
}

// Score evaluates the concatenated observation texts of one building.
func Score(texts []string) Result {
	var nonEmpty []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	text := strings.Join(nonEmpty, "\n")

	if strings.TrimSpace(text) == "" {
		return Result{
			Score:      0,
			Confidence: ConfidenceLow,
			Drivers:    []string{"No observation text yet."},
		}
	}

	raw := 0
	var drivers []string

	for _, cat := range categories {
		for _, p := range cat.patterns {
			if p.MatchString(text) {
				raw += cat.points
				drivers = append(drivers, fmt.Sprintf("+%d: %s", cat.points, cat.label))
				break
			}
		}
	}

	score := raw
	if score > 100 {
		score = 100
	}

	hits := len(drivers)
	confidence := ConfidenceLow
	switch {
	case hits >= 4:
		confidence = ConfidenceHigh
	case hits >= 2:
		confidence = ConfidenceMedium
	}

	if len(drivers) > maxDrivers {
		drivers = drivers[:maxDrivers]
	}

	return Result{Score: score, Confidence: confidence, Drivers: drivers}
}

// CategoryPoints returns the contribution of a category by label, for
// callers that need to reason about score deltas.
func CategoryPoints(label string) int {
	for _, cat := range categories {
		if cat.label == label {
			return cat.points
		}
	}
	return 0
}

// Package sentiment provides the text-classification collaborator used when
// reviews are created, plus the label taxonomy shared across services.
package sentiment

import (
	"context"
	"strings"
)

// Label is the machine value of a sentiment classification.
type Label string

const (
	VeryNegative Label = "VERY_NEGATIVE"
	Negative     Label = "NEGATIVE"
	Neutral      Label = "NEUTRAL"
	Positive     Label = "POSITIVE"
	VeryPositive Label = "VERY_POSITIVE"
)

// displayLabels maps machine values to the fixed user-facing text carried on
// review rows. The service ships with the upstream Korean labels.
var displayLabels = map[Label]string{
	VeryNegative: "너무 별로예요 😡",
	Negative:     "별로예요 🙁",
	Neutral:      "보통이에요 😐",
	Positive:     "좋아요 🙂",
	VeryPositive: "너무 좋아요 🤩",
}

// labelWeights maps machine values to their rating weight.
var labelWeights = map[Label]float64{
	VeryNegative: 0.0,
	Negative:     0.25,
	Neutral:      0.5,
	Positive:     0.75,
	VeryPositive: 1.0,
}

// ParseLabel normalizes a classifier label ("Very Positive", "positive", ...)
// to its machine value. Anything outside the closed set coerces to Neutral
// rather than failing.
func ParseLabel(raw string) Label {
	normalized := Label(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_"))
	if _, ok := labelWeights[normalized]; ok {
		return normalized
	}
	return Neutral
}

// DisplayLabel returns the fixed display text for l. Unknown values fall back
// to the Neutral text, mirroring ParseLabel's coercion.
func DisplayLabel(l Label) string {
	if text, ok := displayLabels[l]; ok {
		return text
	}
	return displayLabels[Neutral]
}

// Weight returns the rating weight of l, 0.5 for anything unrecognized.
func (l Label) Weight() float64 {
	if w, ok := labelWeights[l]; ok {
		return w
	}
	return 0.5
}

// Result is one classification outcome: the label plus the classifier's
// confidence in [0,1].
type Result struct {
	Label Label
	Score float64
}

// Analyzer classifies review text. The review service calls it synchronously
// during review creation.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// Package priority maps email signals to a 0–10 urgency score.
package priority

import "strings"

const (
	MinScore = 0
	MaxScore = 10
)

// keyword → weight, counted once each against subject and summary text
var keywordWeights = []struct {
	keyword string
	weight  int
}{
	{"urgent", 5},
	{"asap", 4},
	{"important", 2},
	{"overdue", 2},
	{"follow up", 1},
}

// a named deadline in the text is itself an urgency signal
var deadlineHints = []string{"today", "tomorrow", "end of day", "eod"}

// sender hints, first match only
var senderHints = []struct {
	hint   string
	weight int
}{
	{"ceo", 4},
	{"founder", 3},
	{"manager", 2},
}

// Signals are the inputs to the heuristic score.
type Signals struct {
	Subject         string
	Sender          string
	Summary         string
	ActionItemCount int
	HasAttachments  bool
}

// Scorer computes heuristic priority scores and blends in
// provider-suggested ones. The heuristic score is the authoritative floor:
// a suggestion may only raise it, and by at most blendMargin.
type Scorer struct {
	blendMargin int
}

func NewScorer(blendMargin int) *Scorer {
	if blendMargin < 0 {
		blendMargin = 0
	}
	return &Scorer{blendMargin: blendMargin}
}

// Heuristic returns the signal-only score. Adding signals never lowers the
// result: every term is non-negative.
func (s *Scorer) Heuristic(sig Signals) int {
	score := 0

	subject := strings.ToLower(sig.Subject)
	text := strings.ToLower(sig.Summary)
	for _, kw := range keywordWeights {
		if strings.Contains(subject, kw.keyword) || strings.Contains(text, kw.keyword) {
			score += kw.weight
		}
	}

	for _, hint := range deadlineHints {
		if strings.Contains(subject, hint) || strings.Contains(text, hint) {
			score++
			break
		}
	}

	sender := strings.ToLower(sig.Sender)
	for _, hint := range senderHints {
		if strings.Contains(sender, hint.hint) {
			score += hint.weight
			break
		}
	}

	if sig.ActionItemCount > 3 {
		score += 3
	} else {
		score += sig.ActionItemCount
	}

	if sig.HasAttachments {
		score++
	}

	return clamp(score)
}

// Blend folds a provider-suggested score into the heuristic one. The result
// is clamped to [heuristic, heuristic+blendMargin] so a single outlier
// suggestion cannot dominate the signal-derived score.
func (s *Scorer) Blend(heuristic int, suggested *int) int {
	heuristic = clamp(heuristic)
	if suggested == nil {
		return heuristic
	}

	v := clamp(*suggested)
	if v <= heuristic {
		return heuristic
	}
	ceiling := clamp(heuristic + s.blendMargin)
	if v > ceiling {
		return ceiling
	}
	return v
}

// Score runs the full policy: heuristic floor plus bounded suggestion lift.
func (s *Scorer) Score(sig Signals, suggested *int) int {
	return s.Blend(s.Heuristic(sig), suggested)
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

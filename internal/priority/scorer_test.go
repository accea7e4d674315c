package priority

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicWithinBounds(t *testing.T) {
	s := NewScorer(2)

	inputs := []Signals{
		{},
		{Subject: "URGENT asap important overdue follow up", Sender: "ceo@corp.com", ActionItemCount: 10, HasAttachments: true},
		{Subject: strings.Repeat("urgent ", 100)},
		{Sender: "founder@startup.io", ActionItemCount: -1},
	}
	for _, sig := range inputs {
		got := s.Heuristic(sig)
		assert.GreaterOrEqual(t, got, MinScore)
		assert.LessOrEqual(t, got, MaxScore)
	}
}

func TestHeuristicMonotonicInSignals(t *testing.T) {
	s := NewScorer(2)

	base := Signals{Subject: "status update", Sender: "bob@example.com"}
	baseScore := s.Heuristic(base)

	richer := []Signals{
		{Subject: "status update urgent", Sender: "bob@example.com"},
		{Subject: "status update", Sender: "bob@example.com", ActionItemCount: 2},
		{Subject: "status update", Sender: "bob@example.com", HasAttachments: true},
		{Subject: "urgent status update", Sender: "ceo@example.com", ActionItemCount: 3, HasAttachments: true},
	}
	for _, sig := range richer {
		assert.GreaterOrEqual(t, s.Heuristic(sig), baseScore, "adding signals must never lower the score")
	}
}

func TestHeuristicSenderHintCountedOnce(t *testing.T) {
	s := NewScorer(2)

	one := s.Heuristic(Signals{Sender: "ceo@corp.com"})
	both := s.Heuristic(Signals{Sender: "ceo-and-founder@corp.com"})
	assert.Equal(t, one, both, "only the strongest sender hint counts")
}

func TestUrgentReportScoresHigh(t *testing.T) {
	s := NewScorer(2)

	sig := Signals{
		Summary:         "please send the report by tomorrow, it's urgent.",
		Sender:          "someone@example.com",
		ActionItemCount: 1,
	}
	assert.GreaterOrEqual(t, s.Heuristic(sig), 7)
}

func TestBlendClampedToHeuristicRange(t *testing.T) {
	s := NewScorer(2)

	suggest := func(v int) *int { return &v }

	// suggestion below the heuristic floor is ignored
	assert.Equal(t, 5, s.Blend(5, suggest(1)))
	// suggestion inside the margin is taken
	assert.Equal(t, 6, s.Blend(5, suggest(6)))
	// suggestion above the margin is capped
	assert.Equal(t, 7, s.Blend(5, suggest(10)))
	// no suggestion → heuristic
	assert.Equal(t, 5, s.Blend(5, nil))
	// out-of-range suggestions are clamped before blending
	assert.Equal(t, 10, s.Blend(9, suggest(42)))
	assert.Equal(t, 3, s.Blend(3, suggest(-5)))
}

package intelligence

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxiq/internal/fingerprint"
	"inboxiq/internal/model"
)

func newHeuristic() *HeuristicProvider {
	return NewHeuristicProvider(fingerprint.NewFingerprinter())
}

func TestHeuristicAnalyzeSummaryFromSubjectAndBody(t *testing.T) {
	p := newHeuristic()

	analysis, err := p.Analyze(context.Background(), &model.Email{
		Subject:  "Budget review",
		BodyText: "Hi team,\nThe numbers look off.\nPlease double-check the Q3 figures.\nThanks",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(analysis.Summary, "Budget review"))
	assert.Contains(t, analysis.Summary, "numbers look off")
	require.Len(t, analysis.ActionItems, 1)
	assert.Equal(t, "Please double-check the Q3 figures.", analysis.ActionItems[0])
}

func TestHeuristicAnalyzeEmptyEmail(t *testing.T) {
	p := newHeuristic()

	analysis, err := p.Analyze(context.Background(), &model.Email{})
	require.NoError(t, err)
	assert.Equal(t, noSummary, analysis.Summary)
	assert.Empty(t, analysis.ActionItems)
}

func TestHeuristicAnalyzeCapsSummaryAndItems(t *testing.T) {
	p := newHeuristic()

	long := strings.Repeat("word ", 200)
	body := strings.Repeat("Please do this thing\n", 10) + long

	analysis, err := p.Analyze(context.Background(), &model.Email{Subject: long, BodyText: body})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(analysis.Summary), maxSummaryLen)
	assert.Len(t, analysis.ActionItems, maxActionItems)
}

func TestHeuristicAnalyzeTruncatesOnRuneBoundary(t *testing.T) {
	p := newHeuristic()

	analysis, err := p.Analyze(context.Background(), &model.Email{
		Subject:  "会議の議事録",
		BodyText: strings.Repeat("月曜日の会議で決まった内容を共有します。", 40),
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(analysis.Summary))
	assert.Equal(t, maxSummaryLen, utf8.RuneCountInString(analysis.Summary))
}

func TestHeuristicAnalyzeDetectsKeywordLines(t *testing.T) {
	p := newHeuristic()

	analysis, err := p.Analyze(context.Background(), &model.Email{
		BodyText: "FYI only.\nThis is urgent, reply soon.\nAction required: sign the form.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"This is urgent, reply soon.",
		"Action required: sign the form.",
	}, analysis.ActionItems)
}

func TestHeuristicComposeReplyTemplate(t *testing.T) {
	p := newHeuristic()

	email := &model.Email{Subject: "Contract renewal", Sender: "dana@client.com"}
	insight := &model.Insight{
		Summary:     "Client wants to renew early.",
		ActionItems: []string{"Send the renewal quote", "Schedule a call", "Update CRM", "Fourth item"},
	}

	reply, err := p.ComposeReply(context.Background(), email, insight, nil)
	require.NoError(t, err)

	assert.Contains(t, reply.Body, "Hi dana,")
	assert.Contains(t, reply.Body, "Contract renewal")
	assert.Contains(t, reply.Body, "Client wants to renew early.")
	assert.Contains(t, reply.Body, "- Send the renewal quote")
	assert.NotContains(t, reply.Body, "Fourth item", "template restates at most three action items")
	assert.Nil(t, reply.Confidence, "fallback drafts carry no confidence")
}

func TestHeuristicComposeReplyUsesSignaturePreference(t *testing.T) {
	p := newHeuristic()

	reply, err := p.ComposeReply(context.Background(),
		&model.Email{Sender: "bob@x.io"},
		&model.Insight{Summary: "s"},
		map[string]string{"signature": "Cheers,\nSam"},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(reply.Body, "Cheers,\nSam"))
}

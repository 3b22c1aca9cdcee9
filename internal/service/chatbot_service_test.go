package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluedata/analytics-backend-go/internal/models"
	"github.com/bluedata/analytics-backend-go/internal/snapshot"
)

func TestChatbotBeforeFirstRun(t *testing.T) {
	svc := NewChatbotService(testConfig(), snapshot.NewStore())

	_, err := svc.Answer("anything")

	assert.ErrorIs(t, err, ErrNotReady)
}

func TestChatbotKeywordRouting(t *testing.T) {
	svc := NewChatbotService(testConfig(), fixtureStore(t, 200, 3))

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, a *models.ChatbotAnswer)
	}{
		{
			name:  "gallons question gets the volume trend",
			query: "How many gallons did we collect last month?",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "Gallons collected")
			},
		},
		{
			name:  "missed cleaning question gets the overview",
			query: "Which outlets missed cleanings?",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "Missed cleaning overview")
				assert.NotEmpty(t, a.Insights)
			},
		},
		{
			name:  "inspection question gets the overview",
			query: "What should we inspect next?",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "Missed cleaning overview")
			},
		},
		{
			name:  "area question gets the risk areas",
			query: "Which area needs attention?",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "High-risk areas")
				assert.NotEmpty(t, a.Recommendations)
			},
		},
		{
			name:  "outlet risk question gets the assessment",
			query: "Which outlet has the highest risk?",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "risk assessment")
				assert.NotEmpty(t, a.Insights)
			},
		},
		{
			name:  "anything else gets key insights",
			query: "Tell me something useful",
			check: func(t *testing.T, a *models.ChatbotAnswer) {
				assert.Contains(t, a.Answer, "Key business insights")
				assert.NotEmpty(t, a.Insights)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, err := svc.Answer(tt.query)
			require.NoError(t, err)
			tt.check(t, answer)
		})
	}
}

func TestChatbotMatchingIsCaseInsensitive(t *testing.T) {
	svc := NewChatbotService(testConfig(), fixtureStore(t, 200, 3))

	answer, err := svc.Answer("GALLONS trend please")

	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "Gallons collected")
}

func TestChatbotMissedCleaningsNamesTopOffenders(t *testing.T) {
	svc := NewChatbotService(testConfig(), fixtureStore(t, 200, 3))

	answer, err := svc.Answer("Tell me about missed cleanings")

	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "Missed cleaning overview")
	// Two summary lines plus at most three named offenders.
	assert.GreaterOrEqual(t, len(answer.Insights), 2)
	assert.LessOrEqual(t, len(answer.Insights), 5)
	assert.LessOrEqual(t, len(answer.ActionItems), 3)
}

func TestChatbotRiskAreasLimitedToThree(t *testing.T) {
	svc := NewChatbotService(testConfig(), fixtureStore(t, 300, 3))

	answer, err := svc.Answer("Which zones are risky?")

	require.NoError(t, err)
	assert.LessOrEqual(t, len(answer.HighRiskAreas), 3)
	assert.LessOrEqual(t, len(answer.ActionItems), 2)
}

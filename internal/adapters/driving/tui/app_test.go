package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	result domain.AskResult
	err    error

	lastQuestion string
}

func (m *mockAskService) Ask(_ context.Context, question string, _ domain.AskOptions) (domain.AskResult, error) {
	m.lastQuestion = question
	return m.result, m.err
}

func (m *mockAskService) EnsureIndexed(_ context.Context) error { return m.err }

func (m *mockAskService) Invalidate() {}

func newTestApp(t *testing.T, ask *mockAskService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Ask: ask})
	require.NoError(t, err)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

func TestNewApp_RequiresAskService(t *testing.T) {
	_, err := NewApp(&Ports{})
	require.ErrorIs(t, err, ErrMissingAskService)
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app := newTestApp(t, &mockAskService{})
	assert.True(t, app.ready)
	assert.Contains(t, app.View(), "dvsage")
}

func TestApp_EnterSubmitsQuestion(t *testing.T) {
	ask := &mockAskService{result: domain.AskResult{Answer: "ответ"}}
	app := newTestApp(t, ask)

	app.input.SetValue("какие поля у договора?")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	require.NotNil(t, cmd)
	assert.True(t, app.waiting)
	assert.Empty(t, app.input.Value())
}

func TestApp_BlankQuestionIgnored(t *testing.T) {
	app := newTestApp(t, &mockAskService{})

	app.input.SetValue("   ")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.Nil(t, cmd)
	assert.False(t, app.waiting)
}

func TestApp_AnswerAppendsTranscript(t *testing.T) {
	app := newTestApp(t, &mockAskService{})
	app.waiting = true

	model, _ := app.Update(answerMsg{
		question: "вопрос",
		result: domain.AskResult{
			Answer:    "ответ",
			Documents: []string{"chunk1", "chunk2"},
		},
	})
	app = model.(*App)

	assert.False(t, app.waiting)
	require.Len(t, app.transcript, 1)
	assert.Equal(t, "вопрос", app.transcript[0].question)
	assert.Equal(t, 2, app.transcript[0].sources)
	assert.Contains(t, app.View(), "ответ")
}

func TestApp_AnswerErrorShown(t *testing.T) {
	app := newTestApp(t, &mockAskService{})
	app.waiting = true

	model, _ := app.Update(answerMsg{question: "q", err: errors.New("model offline")})
	app = model.(*App)

	assert.Empty(t, app.transcript)
	assert.Contains(t, app.View(), "model offline")
}

func TestApp_EscQuits(t *testing.T) {
	app := newTestApp(t, &mockAskService{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskCommandCallsService(t *testing.T) {
	ask := &mockAskService{result: domain.AskResult{Answer: "a"}}
	app := newTestApp(t, ask)

	msg := app.ask("вопрос")()

	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "вопрос", answer.question)
	assert.Equal(t, "a", answer.result.Answer)
	assert.Equal(t, "вопрос", ask.lastQuestion)
}

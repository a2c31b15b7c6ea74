// internal/workers/conversation/process-chat-turn/handler_test.go
package processchatturn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/loan/decision"
	"lending-workers/internal/loan/engine"
	"lending-workers/internal/loan/extract"
	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/session"
	"lending-workers/internal/models"
)

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: make(map[string]interface{})}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged}
}

type engineLogger struct{ t *testing.T }

func (l *engineLogger) Debug(msg string, fields map[string]interface{}) { l.t.Logf("DEBUG: %s %v", msg, fields) }
func (l *engineLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *engineLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *engineLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }

type fixedScorer struct {
	amount float64
	rate   float64
}

func (s fixedScorer) Predict(context.Context, string, map[string]float64) (float64, float64, error) {
	return s.amount, s.rate, nil
}

func newHandler(t *testing.T) (*Handler, *engine.Controller) {
	logger := &engineLogger{t}
	client := llm.NewClient(llm.Config{})
	controller := engine.NewController(
		session.NewMemoryStore(time.Hour),
		extract.New(client, logger),
		decision.NewEngine(fixedScorer{amount: 800000, rate: 11.5}, logger),
		nil,
		client,
		logger,
	)
	return NewHandler(LoadConfig(), controller, NewTestLogger(t)), controller
}

func TestExecuteCollectingTurn(t *testing.T) {
	h, controller := newHandler(t)
	ctx := context.Background()

	sess, _, err := controller.StartSession(ctx, "personal")
	require.NoError(t, err)

	output, err := h.Execute(ctx, &Input{SessionID: sess.ID, Message: "Ravi Kumar"})
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCollecting, output.Status)
	assert.NotEmpty(t, output.Reply)
	assert.NotEmpty(t, output.MissingFields)
	assert.Nil(t, output.Verdict)
}

func TestExecuteFullConversationReachesVerdict(t *testing.T) {
	h, controller := newHandler(t)
	ctx := context.Background()

	sess, _, err := controller.StartSession(ctx, "personal")
	require.NoError(t, err)

	answers := []string{
		"Ravi Kumar", "ravi@example.com", "9876543210", "30",
		"Salaried", "5", "6 lakh", "720", "0", "3",
	}
	for _, answer := range answers {
		output, err := h.Execute(ctx, &Input{SessionID: sess.ID, Message: answer})
		require.NoError(t, err, answer)
		require.Equal(t, engine.StatusCollecting, output.Status, answer)
	}

	output, err := h.Execute(ctx, &Input{SessionID: sess.ID, Message: "2 lakh"})
	require.NoError(t, err)
	assert.Equal(t, engine.StatusDecided, output.Status)
	require.NotNil(t, output.Verdict)
	assert.Equal(t, models.StatusApproved, output.Verdict.Status)
	assert.Equal(t, int64(200000), output.Verdict.ApprovedAmount)
}

func TestExecuteUnknownSession(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{SessionID: "nope", Message: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExecuteMissingInput(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.Execute(context.Background(), &Input{Message: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = h.Execute(context.Background(), &Input{SessionID: "s1"})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func BenchmarkExecuteTurn(b *testing.B) {
	logger := &benchLogger{}
	client := llm.NewClient(llm.Config{})
	controller := engine.NewController(
		session.NewMemoryStore(time.Hour),
		extract.New(client, logger),
		decision.NewEngine(fixedScorer{amount: 800000, rate: 11.5}, logger),
		nil,
		client,
		logger,
	)
	h := NewHandler(LoadConfig(), controller, &benchWorkerLogger{})

	sess, _, err := controller.StartSession(context.Background(), "personal")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), &Input{SessionID: sess.ID, Message: "30"})
	}
}

type benchLogger struct{}

func (benchLogger) Debug(string, map[string]interface{}) {}
func (benchLogger) Info(string, map[string]interface{})  {}
func (benchLogger) Warn(string, map[string]interface{})  {}
func (benchLogger) Error(string, map[string]interface{}) {}

type benchWorkerLogger struct{}

func (benchWorkerLogger) Info(string, map[string]interface{})   {}
func (benchWorkerLogger) Error(string, map[string]interface{})  {}
func (l *benchWorkerLogger) With(map[string]interface{}) Logger { return l }

package decision

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/loan/product"
	"lending-workers/internal/models"
)

type fakeScorer struct {
	amount float64
	rate   float64
	err    error

	gotLoanType string
	gotFeatures map[string]float64
}

func (f *fakeScorer) Predict(_ context.Context, loanType string, features map[string]float64) (float64, float64, error) {
	f.gotLoanType = loanType
	f.gotFeatures = features
	return f.amount, f.rate, f.err
}

type testLogger struct{ t *testing.T }

func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO %s %v", msg, fields) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR %s %v", msg, fields) }

func personalProfile() map[string]interface{} {
	return map[string]interface{}{
		"Customer_Name":             "Ravi Kumar",
		"Customer_Email":            "ravi@example.com",
		"Customer_Phone":            "9876543210",
		"Age":                       30.0,
		"Employment_Type":           "Salaried",
		"Employment_Duration_Years": 5.0,
		"Annual_Income":             600000.0,
		"CIBIL_Score":               720.0,
		"Existing_EMIs":             0.0,
		"Loan_Term_Years":           3.0,
		"Expected_Loan_Amount":      500000.0,
	}
}

func TestDecideFullApproval(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	scorer := &fakeScorer{amount: 800000, rate: 11.5}
	engine := NewEngine(scorer, &testLogger{t})

	verdict, err := engine.Decide(context.Background(), def, personalProfile())
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, verdict.Status)
	// The larger eligible ceiling is never revealed.
	assert.Equal(t, int64(500000), verdict.ApprovedAmount)
	assert.Equal(t, int64(500000), verdict.RequestedAmount)
	assert.Equal(t, 11.5, verdict.InterestRate)
	assert.Contains(t, verdict.Message, "Congratulations")
	assert.Equal(t, "personal", scorer.gotLoanType)
}

func TestDecidePartialApproval(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	scorer := &fakeScorer{amount: 300000, rate: 14}
	engine := NewEngine(scorer, &testLogger{t})

	verdict, err := engine.Decide(context.Background(), def, personalProfile())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPartialApproval, verdict.Status)
	assert.Equal(t, int64(300000), verdict.ApprovedAmount)
	assert.Equal(t, int64(500000), verdict.RequestedAmount)
	assert.NotContains(t, verdict.Message, "Congratulations")
}

func TestDecideDefaultRequestedAmount(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	profile := personalProfile()
	delete(profile, "Expected_Loan_Amount")

	engine := NewEngine(&fakeScorer{amount: 900000, rate: 10}, &testLogger{t})
	verdict, err := engine.Decide(context.Background(), def, profile)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultRequestedAmount), verdict.RequestedAmount)
	assert.Equal(t, models.StatusApproved, verdict.Status)
}

func TestDecideClampsRate(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	engine := NewEngine(&fakeScorer{amount: 600000, rate: 45}, &testLogger{t})
	verdict, err := engine.Decide(context.Background(), def, personalProfile())
	require.NoError(t, err)
	assert.Equal(t, float64(18), verdict.InterestRate)
}

func TestDecideScoringFailureIsFatal(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	engine := NewEngine(&fakeScorer{err: ErrScoringUnavailable}, &testLogger{t})
	_, err = engine.Decide(context.Background(), def, personalProfile())
	assert.ErrorIs(t, err, ErrScoringUnavailable)
}

func TestFieldValuesStripsIdentityAndEncodesEnums(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	vals := FieldValues(def, personalProfile())
	assert.NotContains(t, vals, "Customer_Name")
	assert.NotContains(t, vals, "Customer_Email")
	assert.NotContains(t, vals, "Customer_Phone")
	assert.Equal(t, float64(1), vals["Employment_Type"]) // Salaried
	assert.Equal(t, float64(600000), vals["Annual_Income"])
}

func TestFieldValuesComputesDerived(t *testing.T) {
	def, err := product.Get("education")
	require.NoError(t, err)

	profile := map[string]interface{}{"Academic_Score": 95.0}
	vals := FieldValues(def, profile)
	assert.Equal(t, float64(3), vals["Academic_Performance"]) // Excellent

	profile["Academic_Score"] = 40.0
	vals = FieldValues(def, profile)
	assert.Equal(t, float64(0), vals["Academic_Performance"]) // Poor
}

func TestHTTPScorer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/gold", r.URL.Path)
		w.Write([]byte(`{"amount": 450000, "rate": 12.5}`))
	}))
	defer server.Close()

	scorer := NewHTTPScorer(server.URL, 0)
	amount, rate, err := scorer.Predict(context.Background(), "gold", map[string]float64{"Gold_Value": 600000})
	require.NoError(t, err)
	assert.Equal(t, float64(450000), amount)
	assert.Equal(t, 12.5, rate)
}

func TestHTTPScorerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	scorer := NewHTTPScorer(server.URL, 0)
	_, _, err := scorer.Predict(context.Background(), "car", nil)
	assert.ErrorIs(t, err, ErrScoringUnavailable)

	scorer = NewHTTPScorer("", 0)
	_, _, err = scorer.Predict(context.Background(), "car", nil)
	assert.ErrorIs(t, err, ErrScoringUnavailable)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "500", formatINR(500))
	assert.Equal(t, "5,000", formatINR(5000))
	assert.Equal(t, "5,00,000", formatINR(500000))
	assert.Equal(t, "1,50,00,000", formatINR(15000000))
}

func TestScoringFailureLeavesNoVerdict(t *testing.T) {
	def, err := product.Get("personal")
	require.NoError(t, err)

	engine := NewEngine(&fakeScorer{err: errors.New("model not loaded")}, &testLogger{t})
	verdict, err := engine.Decide(context.Background(), def, personalProfile())
	assert.Error(t, err)
	assert.Nil(t, verdict)
}

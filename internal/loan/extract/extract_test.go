package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/product"
)

type testLogger struct{ t *testing.T }

func (l *testLogger) Debug(msg string, fields map[string]interface{}) { l.t.Logf("DEBUG %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN %s %v", msg, fields) }

func personalDef(t *testing.T) *product.Definition {
	def, err := product.Get("personal")
	require.NoError(t, err)
	return def
}

func TestFallbackName(t *testing.T) {
	def := personalDef(t)

	fields := Fallback(def, "May I have your full name, please?", "Ravi Kumar")
	assert.Equal(t, "Ravi Kumar", fields[product.FieldCustomerName])

	fields = Fallback(def, "", "my name is Priya Sharma")
	assert.Equal(t, "Priya Sharma", fields[product.FieldCustomerName])

	// A number is never a name.
	fields = Fallback(def, "May I have your full name, please?", "12345")
	assert.NotContains(t, fields, product.FieldCustomerName)
}

func TestFallbackEmailAnywhere(t *testing.T) {
	def := personalDef(t)
	fields := Fallback(def, "What is your age?", "30, reach me at ravi.k@example.com")
	assert.Equal(t, "ravi.k@example.com", fields[product.FieldCustomerEmail])
	assert.Equal(t, float64(30), fields["Age"])
}

func TestFallbackPhone(t *testing.T) {
	def := personalDef(t)
	tests := []struct {
		input    string
		expected string
	}{
		{"9876543210", "9876543210"},
		{"+91 98765 43210", "9876543210"},
		{"098765-43210", "9876543210"},
	}
	for _, tt := range tests {
		fields := Fallback(def, "What is your 10-digit mobile number?", tt.input)
		assert.Equal(t, tt.expected, fields[product.FieldCustomerPhone], tt.input)
	}
}

func TestFallbackNumericAnswer(t *testing.T) {
	def := personalDef(t)

	fields := Fallback(def, "What is your annual income?", "6 lakh")
	assert.Equal(t, float64(600000), fields["Annual_Income"])

	fields = Fallback(def, "What is your CIBIL score?", "720")
	assert.Equal(t, float64(720), fields["CIBIL_Score"])

	fields = Fallback(def, "What is your age?", "I am 30 years old")
	assert.Equal(t, float64(30), fields["Age"])
}

func TestFallbackEnumAnswer(t *testing.T) {
	def := personalDef(t)

	fields := Fallback(def, "Are you Salaried or Self-Employed?", "salaried")
	assert.Equal(t, "Salaried", fields["Employment_Type"])

	fields = Fallback(def, "Are you Salaried or Self-Employed?", "I run my own business")
	assert.Equal(t, "Self-Employed", fields["Employment_Type"])
}

func TestFallbackAmountMentionDefaultsToRequestField(t *testing.T) {
	def := personalDef(t)
	fields := Fallback(def, "", "I need 2 lakh urgently")
	assert.Equal(t, float64(200000), fields["Expected_Loan_Amount"])
}

func TestFallbackGuarantorIncomeNotMistakenForIncome(t *testing.T) {
	def, err := product.Get("home")
	require.NoError(t, err)

	fields := Fallback(def, "What is your guarantor's annual income?", "8 lakh")
	assert.Equal(t, float64(800000), fields["Guarantor_income"])
	assert.NotContains(t, fields, "Income")
}

func TestFallbackEmptyMessage(t *testing.T) {
	def := personalDef(t)
	fields := Fallback(def, "What is your age?", "   ")
	assert.Empty(t, fields)
}

func TestExtractUsesModelWhenAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Here you go: {\"Age\": 30, \"Annual_Income\": 600000, \"Shoe_Size\": 9}"}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{BaseURL: server.URL, APIKey: "k"})
	e := New(client, &testLogger{t})

	fields, source := e.Extract(context.Background(), personalDef(t), "", "I am 30 and earn 6 lakh")
	assert.Equal(t, "llm", source)
	assert.Equal(t, float64(30), fields["Age"])
	assert.Equal(t, float64(600000), fields["Annual_Income"])
	// Unknown fields are dropped.
	assert.NotContains(t, fields, "Shoe_Size")
}

func TestExtractFallsBackOnModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{BaseURL: server.URL, APIKey: "k"})
	e := New(client, &testLogger{t})

	fields, source := e.Extract(context.Background(), personalDef(t), "What is your age?", "30")
	assert.Equal(t, "fallback", source)
	assert.Equal(t, float64(30), fields["Age"])
}

func TestExtractFallsBackOnNonJSONCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"I could not find any fields."}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{BaseURL: server.URL, APIKey: "k"})
	e := New(client, &testLogger{t})

	fields, source := e.Extract(context.Background(), personalDef(t), "What is your CIBIL score?", "720")
	assert.Equal(t, "fallback", source)
	assert.Equal(t, float64(720), fields["CIBIL_Score"])
}

func TestExtractWithoutModelConfigured(t *testing.T) {
	e := New(llm.NewClient(llm.Config{}), &testLogger{t})
	fields, source := e.Extract(context.Background(), personalDef(t), "What is your age?", "42")
	assert.Equal(t, "fallback", source)
	assert.Equal(t, float64(42), fields["Age"])
}

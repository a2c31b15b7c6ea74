package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownProducts(t *testing.T) {
	for _, loanType := range []string{"education", "home", "personal", "business", "gold", "car"} {
		def, err := Get(loanType)
		require.NoError(t, err, loanType)
		assert.Equal(t, loanType, def.Type)
		assert.NotEmpty(t, def.Fields)
		assert.NotEmpty(t, def.AmountField)
		assert.NotNil(t, def.BuildFeatures)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	def, err := Get("  Education ")
	require.NoError(t, err)
	assert.Equal(t, "education", def.Type)
}

func TestGetUnknownProduct(t *testing.T) {
	_, err := Get("yacht")
	assert.Error(t, err)
}

func TestIdentityFieldsComeFirst(t *testing.T) {
	for _, loanType := range []string{"education", "home", "personal", "business", "gold", "car"} {
		def, err := Get(loanType)
		require.NoError(t, err)
		names := def.FieldNames()
		assert.Equal(t, []string{FieldCustomerName, FieldCustomerEmail, FieldCustomerPhone}, names[:3], loanType)
	}
}

func TestGradeFromScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{80, "Good"},
		{75, "Good"},
		{65, "Average"},
		{60, "Average"},
		{40, "Poor"},
		{0, "Poor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, gradeFromScore(tt.score), "score %.0f", tt.score)
	}
}

func TestMissingFieldsSkipsDerived(t *testing.T) {
	def, err := Get("education")
	require.NoError(t, err)

	profile := map[string]interface{}{}
	missing := def.MissingFields(profile)
	assert.Contains(t, missing, "Academic_Performance")

	// Presence of the source satisfies the derived field.
	profile["Academic_Score"] = 88.0
	missing = def.MissingFields(profile)
	assert.NotContains(t, missing, "Academic_Performance")
	assert.NotContains(t, missing, "Academic_Score")
	assert.Contains(t, missing, "Age")
}

func TestCanonicalize(t *testing.T) {
	def, err := Get("education")
	require.NoError(t, err)

	course := def.Field("Intended_Course")
	require.NotNil(t, course)

	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"STEM", "STEM", true},
		{"stem", "STEM", true},
		{"I want to study engineering", "STEM", true},
		{"mba", "MBA", true},
		{"basket weaving", "", false},
	}
	for _, tt := range tests {
		got, ok := course.Canonicalize(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		if tt.ok {
			assert.Equal(t, tt.expected, got, tt.input)
		}
	}
}

func TestCanonicalizeCarBrands(t *testing.T) {
	def, err := Get("car")
	require.NoError(t, err)
	carType := def.Field("Car_Type")
	require.NotNil(t, carType)

	got, ok := carType.Canonicalize("a maruti swift")
	require.True(t, ok)
	assert.Equal(t, "Hatchback", got)

	got, ok = carType.Canonicalize("hyundai creta")
	require.True(t, ok)
	assert.Equal(t, "SUV", got)
}

func TestCodeTables(t *testing.T) {
	def, err := Get("business")
	require.NoError(t, err)

	industry := def.Field("Industry_Risk_Rating")
	require.NotNil(t, industry)
	assert.Equal(t, float64(1), industry.Code("Healthcare"))
	assert.Equal(t, float64(5), industry.Code("Crypto"))

	location := def.Field("Location_Tier")
	require.NotNil(t, location)
	assert.Equal(t, float64(1), location.Code("Metro"))
	assert.Equal(t, float64(4), location.Code("Rural"))

	// No Codes table falls back to the enum index.
	eduDef, err := Get("education")
	require.NoError(t, err)
	course := eduDef.Field("Intended_Course")
	assert.Equal(t, float64(0), course.Code("STEM"))
	assert.Equal(t, float64(2), course.Code("Medicine"))
}

func TestEducationFeatures(t *testing.T) {
	def, err := Get("education")
	require.NoError(t, err)

	vals := map[string]float64{
		"Age":                  25,
		"Academic_Performance": 3,
		"Intended_Course":      0,
		"University_Tier":      1,
		"Coapplicant_Income":   600000,
		"Guarantor_Networth":   2000000,
		"CIBIL_Score":          720,
		"Loan_Type":            1,
		"Loan_Term":            10,
		"Expected_Loan_Amount": 1500000,
	}
	features := def.BuildFeatures(vals)
	assert.Equal(t, 600000.0*4+2000000*0.05+720.0/2, features["Repayment_Capacity"])
	assert.Equal(t, float64(720), features["CIBIL_Score"])
	assert.NotContains(t, features, "Expected_Loan_Amount")
}

func TestBusinessEngineeredFeatures(t *testing.T) {
	def, err := Get("business")
	require.NoError(t, err)

	vals := map[string]float64{
		"Business_Age_Years":   10,
		"Annual_Revenue":       5000000,
		"Net_Profit":           1000000,
		"CIBIL_Score":          750,
		"Business_Type":        0,
		"Existing_Loan_Amount": 500000,
		"Loan_Tenure_Years":    5,
		"Has_Collateral":       1,
		"Has_Guarantor":        0,
		"Industry_Risk_Rating": 2,
		"Location_Tier":        1,
		"Expected_Loan_Amount": 2000000,
	}
	features := def.BuildFeatures(vals)
	assert.InDelta(t, 20.0, features["Profit_Margin"], 1e-9)
	assert.InDelta(t, 10.0, features["Debt_to_Revenue_Ratio"], 1e-9)
	assert.InDelta(t, 5000000.0/1000001, features["Revenue_to_Profit_Ratio"], 1e-9)
	assert.InDelta(t, 5000000.0/3, features["Risk_Adjusted_Revenue"], 1e-6)
	assert.Equal(t, float64(2), features["Collateral_Guarantor_Score"])
	assert.InDelta(t, 10.0/25+150.0/300, features["Business_Stability_Score"], 1e-9)
	assert.Equal(t, float64(3), features["Location_Risk_Combined"])
}

func TestClampBounds(t *testing.T) {
	def, err := Get("personal")
	require.NoError(t, err)

	amount, rate := def.Clamp(5000000, 25, nil)
	assert.Equal(t, float64(2000000), amount)
	assert.Equal(t, float64(18), rate)

	amount, rate = def.Clamp(10000, 2, nil)
	assert.Equal(t, float64(50000), amount)
	assert.Equal(t, float64(8), rate)
}

func TestGoldClampTracksPledgeValue(t *testing.T) {
	def, err := Get("gold")
	require.NoError(t, err)

	vals := map[string]float64{"Gold_Value": 1000000}
	amount, _ := def.Clamp(2000000, 10, vals)
	assert.Equal(t, float64(800000), amount)

	vals["Gold_Value"] = 50000000
	amount, _ = def.Clamp(20000000, 10, vals)
	assert.Equal(t, float64(10000000), amount)
}

func TestHomeCrossCheck(t *testing.T) {
	def, err := Get("home")
	require.NoError(t, err)
	require.Len(t, def.CrossChecks, 1)

	cc := def.CrossChecks[0]
	_, ok := cc.Check(map[string]interface{}{
		"Loan_amount_requested": 5000000.0,
		"Property_value":        8000000.0,
	})
	assert.True(t, ok)

	reason, ok := cc.Check(map[string]interface{}{
		"Loan_amount_requested": 9000000.0,
		"Property_value":        8000000.0,
	})
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

// internal/loan/product/gold.go
package product

func init() { register(goldProduct()) }

func goldProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Age", Kind: Numeric,
			Question: "What is your age?",
			AskHints: []string{"your age", "how old"},
			Min:      21, Max: 75, HardMin: true, HardMax: true,
			MinReason: "Gold loans require applicants to be between 21 and 75 years of age.",
			MaxReason: "Gold loans require applicants to be between 21 and 75 years of age.",
		},
		FieldSpec{
			Name: "Annual_Income", Kind: Numeric,
			Question: "What is your annual income?",
			AskHints: []string{"your annual income", "your income"},
			Min:      180000, Max: 60000000, HardMin: true,
			MinReason: "A gold loan requires a minimum annual income of 1,80,000.",
		},
		cibilField(600, "A gold loan requires a CIBIL score of at least 600."),
		FieldSpec{
			Name: "Occupation", Kind: Enum,
			Question: "What is your occupation (Salaried, Retired, Business, Self-employed)?",
			AskHints: []string{"occupation"},
			Enum:     []string{"Salaried", "Retired", "Business", "Self-employed"},
			Keywords: map[string]string{
				"salary": "Salaried", "job": "Salaried",
				"pension": "Retired", "retire": "Retired",
				"shop": "Business", "trade": "Business", "own business": "Business",
				"self": "Self-employed", "freelance": "Self-employed",
			},
		},
		FieldSpec{
			Name: "Gold_Value", Kind: Numeric,
			Question: "What is the approximate value of the gold you wish to pledge?",
			AskHints: []string{"gold", "pledge"},
			Min:      10000, Max: 50000000,
		},
		FieldSpec{
			Name: "Loan_Amount", Kind: Numeric,
			Question: "How much loan amount are you expecting?",
			AskHints: []string{"loan amount", "how much", "expecting"},
			Min:      5000, Max: 10000000,
		},
		FieldSpec{
			Name: "Loan_Tenure", Kind: Numeric,
			Question: "Over how many years would you like to repay (1-3)?",
			AskHints: []string{"repay", "tenure"},
			Min:      1, Max: 3,
		},
	)

	return &Definition{
		Type:        "gold",
		DisplayName: "Gold Loan",
		Fields:      fields,
		NumericFields: []string{
			"Age", "Annual_Income", "CIBIL_Score", "Gold_Value", "Loan_Amount",
			"Loan_Tenure",
		},
		AmountField: "Loan_Amount",
		MinAmount:   5000, MaxAmount: 10000000,
		MinRate: 8, MaxRate: 24,
		// The sanctionable ceiling is 80% of the pledged gold's value,
		// capped at the product maximum.
		ClampAmount: func(predicted float64, vals map[string]float64) float64 {
			ceiling := vals["Gold_Value"] * 0.8
			if ceiling > 10000000 {
				ceiling = 10000000
			}
			if predicted > ceiling {
				predicted = ceiling
			}
			if predicted < 5000 {
				predicted = 5000
			}
			return predicted
		},
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			return map[string]float64{
				"Age":            vals["Age"],
				"Annual_Income":  vals["Annual_Income"],
				"Monthly_Income": vals["Annual_Income"] / 12,
				"CIBIL_Score":    vals["CIBIL_Score"],
				"Occupation":     vals["Occupation"],
				"Gold_Value":     vals["Gold_Value"],
				"Loan_Amount":    vals["Loan_Amount"],
				"Loan_Tenure":    vals["Loan_Tenure"],
				"Existing_EMI":   0,
			}
		},
	}
}

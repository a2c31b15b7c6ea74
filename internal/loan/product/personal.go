// internal/loan/product/personal.go
package product

func init() { register(personalProduct()) }

func personalProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Age", Kind: Numeric,
			Question: "What is your age?",
			AskHints: []string{"your age", "how old"},
			Min:      21, Max: 65, HardMin: true, HardMax: true,
			MinReason: "Personal loans require applicants to be between 21 and 65 years of age.",
			MaxReason: "Personal loans require applicants to be between 21 and 65 years of age.",
		},
		FieldSpec{
			Name: "Employment_Type", Kind: Enum,
			Question: "Are you Salaried or Self-Employed?",
			AskHints: []string{"salaried", "self-employed", "employment"},
			Enum:     []string{"Self-Employed", "Salaried"},
			Keywords: map[string]string{
				"salary": "Salaried", "job": "Salaried", "company": "Salaried",
				"self": "Self-Employed", "freelance": "Self-Employed",
				"own business": "Self-Employed",
			},
		},
		FieldSpec{
			Name: "Employment_Duration_Years", Kind: Numeric,
			Question: "For how many years have you been employed or running your business?",
			AskHints: []string{"duration", "been employed", "how many years"},
			Min:      1, Max: 45, HardMin: true,
			MinReason: "A personal loan requires at least 1 year of employment history.",
		},
		FieldSpec{
			Name: "Annual_Income", Kind: Numeric,
			Question: "What is your annual income?",
			AskHints: []string{"your annual income", "your income"},
			Min:      200000, Max: 50000000, HardMin: true,
			MinReason: "A personal loan requires a minimum annual income of 2,00,000.",
		},
		cibilField(650, "A personal loan requires a CIBIL score of at least 650."),
		FieldSpec{
			Name: "Existing_EMIs", Kind: Numeric,
			Question: "What is your total existing monthly EMI?",
			AskHints: []string{"existing", "emi"},
			Min:      0, Max: 10000000,
		},
		FieldSpec{
			Name: "Loan_Term_Years", Kind: Numeric,
			Question: "Over how many years would you like to repay (1-7)?",
			AskHints: []string{"repay", "term"},
			Min:      1, Max: 7,
		},
		FieldSpec{
			Name: "Expected_Loan_Amount", Kind: Numeric,
			Question: "How much loan amount are you expecting?",
			AskHints: []string{"loan amount", "how much", "expecting"},
			Min:      50000, Max: 2000000,
		},
	)

	return &Definition{
		Type:        "personal",
		DisplayName: "Personal Loan",
		Fields:      fields,
		NumericFields: []string{
			"Age", "Employment_Duration_Years", "Annual_Income", "CIBIL_Score",
			"Existing_EMIs", "Loan_Term_Years", "Expected_Loan_Amount",
		},
		AmountField: "Expected_Loan_Amount",
		MinAmount:   50000, MaxAmount: 2000000,
		MinRate: 8, MaxRate: 18,
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			return map[string]float64{
				"Age":                       vals["Age"],
				"Employment_Type":           vals["Employment_Type"],
				"Employment_Duration_Years": vals["Employment_Duration_Years"],
				"Annual_Income":             vals["Annual_Income"],
				"CIBIL_Score":               vals["CIBIL_Score"],
				"Existing_EMIs":             vals["Existing_EMIs"],
				"Loan_Term_Years":           vals["Loan_Term_Years"],
				"Expected_Loan_Amount":      vals["Expected_Loan_Amount"],
			}
		},
	}
}

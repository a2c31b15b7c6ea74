// internal/loan/product/home.go
package product

func init() { register(homeProduct()) }

func homeProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Age", Kind: Numeric,
			Question: "What is your age?",
			AskHints: []string{"your age", "how old"},
			Min:      21, Max: 50, HardMin: true, HardMax: true,
			MinReason: "Home loans require applicants to be between 21 and 50 years of age.",
			MaxReason: "Home loans require applicants to be between 21 and 50 years of age.",
		},
		FieldSpec{
			Name: "Income", Kind: Numeric,
			Question: "What is your annual income?",
			AskHints: []string{"your annual income", "your income"},
			Min:      200000, Max: 100000000, HardMin: true,
			MinReason: "A home loan requires a minimum annual income of 2,00,000.",
		},
		FieldSpec{
			Name: "Guarantor_income", Kind: Numeric,
			Question: "What is your guarantor's annual income?",
			AskHints: []string{"guarantor"},
			Min:      0, Max: 100000000,
		},
		FieldSpec{
			Name: "Tenure", Kind: Numeric,
			Question: "Over how many years would you like to repay (5-30)?",
			AskHints: []string{"tenure", "repay", "years"},
			Min:      5, Max: 30,
		},
		cibilField(650, "A home loan requires a CIBIL score of at least 650."),
		FieldSpec{
			Name: "Employment_type", Kind: Enum,
			Question: "What is your employment type (Business Owner, Salaried, Government Employee, Self-Employed)?",
			AskHints: []string{"employment"},
			Enum:     []string{"Business Owner", "Salaried", "Government Employee", "Self-Employed"},
			Keywords: map[string]string{
				"own business": "Business Owner", "proprietor": "Business Owner",
				"entrepreneur": "Business Owner",
				"salary":       "Salaried", "job": "Salaried", "private company": "Salaried",
				"govt": "Government Employee", "government": "Government Employee",
				"psu":  "Government Employee",
				"self": "Self-Employed", "freelance": "Self-Employed",
			},
		},
		FieldSpec{
			Name: "Down_payment", Kind: Numeric,
			Question: "How much down payment can you make?",
			AskHints: []string{"down payment"},
			Min:      0, Max: 100000000,
		},
		FieldSpec{
			Name: "Existing_total_EMI", Kind: Numeric,
			Question: "What is your total existing monthly EMI?",
			AskHints: []string{"existing", "emi"},
			Min:      0, Max: 10000000,
		},
		FieldSpec{
			Name: "Loan_amount_requested", Kind: Numeric,
			Question: "How much loan amount are you requesting?",
			AskHints: []string{"loan amount", "how much", "requesting"},
			Min:      100000, Max: 100000000,
		},
		FieldSpec{
			Name: "Property_value", Kind: Numeric,
			Question: "What is the value of the property you plan to purchase?",
			AskHints: []string{"property"},
			Min:      100000, Max: 1000000000,
		},
	)

	return &Definition{
		Type:        "home",
		DisplayName: "Home Loan",
		Fields:      fields,
		NumericFields: []string{
			"Age", "Income", "Guarantor_income", "Tenure", "CIBIL_Score",
			"Down_payment", "Existing_total_EMI", "Loan_amount_requested",
			"Property_value",
		},
		CrossChecks: []CrossCheck{
			{
				Fields: []string{"Loan_amount_requested", "Property_value"},
				Field:  "Loan_amount_requested",
				Check: func(profile map[string]interface{}) (string, bool) {
					loan := CoerceNumeric(profile["Loan_amount_requested"])
					property := CoerceNumeric(profile["Property_value"])
					if loan > property {
						return "The requested loan amount cannot exceed the property value.", false
					}
					return "", true
				},
			},
		},
		AmountField: "Loan_amount_requested",
		MinAmount:   100000, MaxAmount: 100000000,
		MinRate: 8, MaxRate: 15,
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			property := vals["Property_value"]
			if property == 0 {
				property = 1
			}
			income := vals["Income"]
			if income == 0 {
				income = 1
			}
			return map[string]float64{
				"Age":                   vals["Age"],
				"Income":                vals["Income"],
				"Guarantor_income":      vals["Guarantor_income"],
				"Tenure":                vals["Tenure"],
				"CIBIL_score":           vals["CIBIL_Score"],
				"Employment_type":       vals["Employment_type"],
				"Down_payment":          vals["Down_payment"],
				"Existing_total_EMI":    vals["Existing_total_EMI"],
				"Loan_amount_requested": vals["Loan_amount_requested"],
				"Property_value":        vals["Property_value"],
				"LTV":                   vals["Loan_amount_requested"] / property,
				"EMI_to_Income":         vals["Existing_total_EMI"] / income,
				"DP_ratio":              vals["Down_payment"] / property,
			}
		},
	}
}

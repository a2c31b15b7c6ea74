// internal/loan/product/car.go
package product

func init() { register(carProduct()) }

func carProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Age", Kind: Numeric,
			Question: "What is your age?",
			AskHints: []string{"your age", "how old"},
			Min:      18, Max: 80, HardMin: true, HardMax: true,
			MinReason: "Car loans require applicants to be between 18 and 80 years of age.",
			MaxReason: "Car loans require applicants to be between 18 and 80 years of age.",
		},
		FieldSpec{
			Name: "applicant_annual_salary", Kind: Numeric,
			Question: "What is your annual salary?",
			AskHints: []string{"your annual salary", "your salary"},
			Min:      300000, Max: 100000000, HardMin: true,
			MinReason: "A car loan requires a minimum annual salary of 3,00,000.",
		},
		FieldSpec{
			Name: "Coapplicant_Annual_Income", Kind: Numeric,
			Question: "What is your co-applicant's annual income (0 if none)?",
			AskHints: []string{"co-applicant", "coapplicant"},
			Min:      0, Max: 100000000,
		},
		cibilField(650, "A car loan requires a CIBIL score of at least 650."),
		FieldSpec{
			Name: "Car_Type", Kind: Enum,
			Question: "What type of car are you buying (Sedan, SUV, Hatchback, Coupe)?",
			AskHints: []string{"type of car", "car type"},
			Enum:     []string{"Sedan", "SUV", "Hatchback", "Coupe"},
			Keywords: map[string]string{
				"city": "Sedan", "verna": "Sedan", "dzire": "Sedan",
				"creta": "SUV", "nexon": "SUV", "scorpio": "SUV",
				"maruti": "Hatchback", "swift": "Hatchback", "alto": "Hatchback",
			},
			Codes: map[string]float64{"Sedan": 0, "SUV": 1, "Hatchback": 2, "Coupe": 3},
		},
		FieldSpec{
			Name: "down_payment_percent", Kind: Numeric,
			Question: "What percentage of the car price will you pay as down payment (10-50)?",
			AskHints: []string{"down payment"},
			Min:      10, Max: 50,
		},
		FieldSpec{
			Name: "Tenure", Kind: Numeric,
			Question: "Over how many years would you like to repay (1-7)?",
			AskHints: []string{"repay", "tenure"},
			Min:      1, Max: 7,
		},
		FieldSpec{
			Name: "loan_amount", Kind: Numeric,
			Question: "How much loan amount are you expecting?",
			AskHints: []string{"loan amount", "how much", "expecting"},
			Min:      100000, Max: 50000000,
		},
	)

	return &Definition{
		Type:        "car",
		DisplayName: "Car Loan",
		Fields:      fields,
		NumericFields: []string{
			"Age", "applicant_annual_salary", "Coapplicant_Annual_Income",
			"CIBIL_Score", "down_payment_percent", "Tenure", "loan_amount",
		},
		AmountField: "loan_amount",
		MinAmount:   100000, MaxAmount: 50000000,
		MinRate: 7, MaxRate: 20,
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			return map[string]float64{
				"Age":                       vals["Age"],
				"applicant_annual_salary":   vals["applicant_annual_salary"],
				"Coapplicant_Annual_Income": vals["Coapplicant_Annual_Income"],
				"Total_Annual_Income":       vals["applicant_annual_salary"] + vals["Coapplicant_Annual_Income"],
				"CIBIL":                     vals["CIBIL_Score"],
				"Car_Type":                  vals["Car_Type"],
				"down_payment_percent":      vals["down_payment_percent"],
				"Tenure":                    vals["Tenure"],
				"loan_amount":               vals["loan_amount"],
				"Employment_Type":           0,
			}
		},
	}
}

// internal/loan/product/education.go
package product

func init() { register(educationProduct()) }

// gradeFromScore buckets an academic percentage into the categorical grade
// the education scoring model was trained on.
func gradeFromScore(score float64) interface{} {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Average"
	default:
		return "Poor"
	}
}

func educationProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Age", Kind: Numeric,
			Question: "What is your age?",
			AskHints: []string{"your age", "how old"},
			Min:      18, Max: 35, HardMin: true, HardMax: true,
			MinReason: "Education loans require applicants to be between 18 and 35 years of age.",
			MaxReason: "Education loans require applicants to be between 18 and 35 years of age.",
		},
		FieldSpec{
			Name: "Academic_Score", Kind: Numeric,
			Question: "What was your academic score (percentage) in your most recent qualification?",
			AskHints: []string{"academic", "percentage", "marks"},
			Min:      0, Max: 100,
		},
		FieldSpec{
			Name: "Academic_Performance", Kind: Enum,
			Enum:    []string{"Poor", "Average", "Good", "Excellent"},
			Codes:   map[string]float64{"Poor": 0, "Average": 1, "Good": 2, "Excellent": 3},
			Derived: &DerivedSpec{Source: "Academic_Score", Compute: gradeFromScore},
		},
		FieldSpec{
			Name: "Intended_Course", Kind: Enum,
			Question: "Which course do you intend to pursue (STEM, MBA, Medicine, Finance, Law, Arts, Other)?",
			AskHints: []string{"course", "pursue", "study"},
			Enum:     []string{"STEM", "MBA", "Medicine", "Finance", "Law", "Arts", "Other"},
			Keywords: map[string]string{
				"engineering": "STEM", "computer": "STEM", "btech": "STEM",
				"science": "STEM", "tech": "STEM",
				"management": "MBA", "business": "MBA",
				"medical": "Medicine", "mbbs": "Medicine", "doctor": "Medicine",
				"commerce": "Finance", "accounting": "Finance",
				"llb": "Law", "legal": "Law",
				"design": "Arts", "humanities": "Arts", "literature": "Arts",
			},
		},
		FieldSpec{
			Name: "University_Tier", Kind: Enum,
			Question: "Which tier is your target university (Tier1, Tier2, Tier3)?",
			AskHints: []string{"tier", "university"},
			Enum:     []string{"Tier1", "Tier2", "Tier3"},
			Keywords: map[string]string{
				"tier 1": "Tier1", "tier 2": "Tier2", "tier 3": "Tier3",
				"iit": "Tier1", "iim": "Tier1", "bits": "Tier1", "nit": "Tier1",
				"top": "Tier1", "premier": "Tier1",
				"good": "Tier2", "decent": "Tier2", "average": "Tier2", "state": "Tier2",
				"local": "Tier3", "small": "Tier3", "private": "Tier3",
			},
			Codes: map[string]float64{"Tier1": 1, "Tier2": 2, "Tier3": 3},
		},
		FieldSpec{
			Name: "Coapplicant_Income", Kind: Numeric,
			Question: "What is your co-applicant's annual income?",
			AskHints: []string{"co-applicant", "coapplicant"},
			Min:      0, Max: 100000000,
		},
		FieldSpec{
			Name: "Guarantor_Networth", Kind: Numeric,
			Question: "What is your guarantor's net worth?",
			AskHints: []string{"guarantor", "net worth"},
			Min:      0, Max: 1000000000,
		},
		cibilField(650, "An education loan requires a CIBIL score of at least 650."),
		FieldSpec{
			Name: "Loan_Type", Kind: Enum,
			Question: "Would you prefer a Secured or Unsecured loan?",
			AskHints: []string{"secured", "unsecured"},
			Enum:     []string{"Unsecured", "Secured"},
			Keywords: map[string]string{"collateral": "Secured", "without security": "Unsecured"},
		},
		FieldSpec{
			Name: "Loan_Term", Kind: Numeric,
			Question: "Over how many years would you like to repay (1-15)?",
			AskHints: []string{"repay", "term", "years"},
			Min:      1, Max: 15,
		},
		FieldSpec{
			Name: "Expected_Loan_Amount", Kind: Numeric,
			Question: "How much loan amount are you expecting?",
			AskHints: []string{"loan amount", "how much", "expecting"},
			Min:      50000, Max: 30000000,
		},
	)

	return &Definition{
		Type:        "education",
		DisplayName: "Education Loan",
		Fields:      fields,
		NumericFields: []string{
			"Age", "Academic_Score", "Coapplicant_Income", "Guarantor_Networth",
			"CIBIL_Score", "Loan_Term", "Expected_Loan_Amount",
		},
		AmountField: "Expected_Loan_Amount",
		MinAmount:   50000, MaxAmount: 30000000,
		MinRate: 8, MaxRate: 16,
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			repayment := vals["Coapplicant_Income"]*4 +
				vals["Guarantor_Networth"]*0.05 +
				vals["CIBIL_Score"]/2
			return map[string]float64{
				"Age":                  vals["Age"],
				"Academic_Performance": vals["Academic_Performance"],
				"Intended_Course":      vals["Intended_Course"],
				"University_Tier":      vals["University_Tier"],
				"Coapplicant_Income":   vals["Coapplicant_Income"],
				"Guarantor_Networth":   vals["Guarantor_Networth"],
				"CIBIL_Score":          vals["CIBIL_Score"],
				"Loan_Type":            vals["Loan_Type"],
				"Repayment_Capacity":   repayment,
				"Loan_Term":            vals["Loan_Term"],
			}
		},
	}
}

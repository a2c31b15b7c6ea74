// internal/loan/product/business.go
package product

import "math"

func init() { register(businessProduct()) }

func businessProduct() *Definition {
	fields := identityFields()
	fields = append(fields,
		FieldSpec{
			Name: "Business_Age_Years", Kind: Numeric,
			Question: "For how many years has your business been operating?",
			AskHints: []string{"business been", "operating", "business age"},
			Min:      1, Max: 50, HardMin: true,
			MinReason: "A business loan requires the business to be at least 1 year old.",
		},
		FieldSpec{
			Name: "Annual_Revenue", Kind: Numeric,
			Question: "What is your business's annual revenue?",
			AskHints: []string{"revenue", "turnover"},
			Min:      500000, Max: 1000000000, HardMin: true,
			MinReason: "A business loan requires annual revenue of at least 5,00,000.",
		},
		FieldSpec{
			Name: "Net_Profit", Kind: Numeric,
			Question: "What is your business's annual net profit?",
			AskHints: []string{"net profit", "profit"},
			Min:      1, Max: 500000000, HardMin: true,
			MinReason: "A business loan requires the business to be profitable.",
		},
		cibilField(650, "A business loan requires a CIBIL score of at least 650."),
		FieldSpec{
			Name: "Business_Type", Kind: Enum,
			Question: "What type of business do you run (Retail, Trading, Services, Manufacturing)?",
			AskHints: []string{"type of business", "business type"},
			Enum:     []string{"Retail", "Trading", "Services", "Manufacturing"},
			Keywords: map[string]string{
				"shop": "Retail", "store": "Retail",
				"export": "Trading", "import": "Trading", "wholesale": "Trading",
				"consult": "Services", "software": "Services", "agency": "Services",
				"factory": "Manufacturing", "production": "Manufacturing",
			},
		},
		FieldSpec{
			Name: "Existing_Loan_Amount", Kind: Numeric,
			Question: "What is the total outstanding amount of your existing business loans?",
			AskHints: []string{"existing", "outstanding"},
			Min:      0, Max: 1000000000,
		},
		FieldSpec{
			Name: "Loan_Tenure_Years", Kind: Numeric,
			Question: "Over how many years would you like to repay (1-10)?",
			AskHints: []string{"repay", "tenure"},
			Min:      1, Max: 10,
		},
		FieldSpec{
			Name: "Has_Collateral", Kind: Enum,
			Question: "Do you have collateral to offer (Yes/No)?",
			AskHints: []string{"collateral"},
			Enum:     []string{"No", "Yes"},
			Keywords: map[string]string{"yeah": "Yes", "yep": "Yes", "nope": "No", "none": "No"},
		},
		FieldSpec{
			Name: "Has_Guarantor", Kind: Enum,
			Question: "Do you have a guarantor (Yes/No)?",
			AskHints: []string{"guarantor"},
			Enum:     []string{"No", "Yes"},
			Keywords: map[string]string{"yeah": "Yes", "yep": "Yes", "nope": "No", "none": "No"},
		},
		FieldSpec{
			Name: "Industry_Risk_Rating", Kind: Enum,
			Question: "Which industry does your business operate in (Healthcare, FMCG, IT Services, Education, Automobile, Telecom, Real Estate, Hospitality, Crypto, Airlines)?",
			AskHints: []string{"industry"},
			Enum: []string{
				"Healthcare", "FMCG", "IT Services", "Education", "Automobile",
				"Telecom", "Real Estate", "Hospitality", "Crypto", "Airlines",
			},
			Keywords: map[string]string{
				"pharma": "Healthcare", "clinic": "Healthcare", "medical": "Healthcare",
				"consumer goods": "FMCG",
				"software":       "IT Services", "tech": "IT Services",
				"school": "Education", "college": "Education", "coaching": "Education",
				"auto": "Automobile",
				"mobile network": "Telecom", "broadband": "Telecom",
				"property": "Real Estate", "construction": "Real Estate",
				"hotel": "Hospitality", "restaurant": "Hospitality",
				"bitcoin": "Crypto", "blockchain": "Crypto",
				"airline": "Airlines", "aviation": "Airlines",
			},
			Codes: map[string]float64{
				"Healthcare": 1, "FMCG": 1, "IT Services": 2, "Education": 2,
				"Automobile": 3, "Telecom": 3, "Real Estate": 4, "Hospitality": 4,
				"Crypto": 5, "Airlines": 5,
			},
		},
		FieldSpec{
			Name: "Location_Tier", Kind: Enum,
			Question: "Where is your business located (Metro, Tier-1 City, Tier-2 City, Rural)?",
			AskHints: []string{"located", "location"},
			Enum:     []string{"Metro", "Tier-1 City", "Tier-2 City", "Rural"},
			Keywords: map[string]string{
				"mumbai": "Metro", "delhi": "Metro", "bangalore": "Metro",
				"chennai": "Metro", "kolkata": "Metro", "hyderabad": "Metro",
				"tier 1": "Tier-1 City", "tier-1": "Tier-1 City",
				"tier 2": "Tier-2 City", "tier-2": "Tier-2 City",
				"village": "Rural", "town": "Rural",
			},
			Codes: map[string]float64{"Metro": 1, "Tier-1 City": 2, "Tier-2 City": 3, "Rural": 4},
		},
		FieldSpec{
			Name: "Expected_Loan_Amount", Kind: Numeric,
			Question: "How much loan amount are you expecting?",
			AskHints: []string{"loan amount", "how much", "expecting"},
			Min:      100000, Max: 100000000,
		},
	)

	return &Definition{
		Type:        "business",
		DisplayName: "Business Loan",
		Fields:      fields,
		NumericFields: []string{
			"Business_Age_Years", "Annual_Revenue", "Net_Profit", "CIBIL_Score",
			"Existing_Loan_Amount", "Loan_Tenure_Years", "Expected_Loan_Amount",
		},
		CrossChecks: []CrossCheck{
			{
				Fields: []string{"Net_Profit", "Annual_Revenue"},
				Field:  "Net_Profit",
				Check: func(profile map[string]interface{}) (string, bool) {
					profit := CoerceNumeric(profile["Net_Profit"])
					revenue := CoerceNumeric(profile["Annual_Revenue"])
					if profit >= revenue {
						return "Net profit must be less than annual revenue.", false
					}
					return "", true
				},
			},
		},
		AmountField: "Expected_Loan_Amount",
		MinAmount:   100000, MaxAmount: 100000000,
		MinRate: 8, MaxRate: 24,
		BuildFeatures: func(vals map[string]float64) map[string]float64 {
			age := vals["Business_Age_Years"]
			revenue := vals["Annual_Revenue"]
			profit := vals["Net_Profit"]
			cibil := vals["CIBIL_Score"]
			existing := vals["Existing_Loan_Amount"]
			risk := vals["Industry_Risk_Rating"]
			tier := vals["Location_Tier"]
			safeRevenue := revenue
			if safeRevenue == 0 {
				safeRevenue = 1
			}
			return map[string]float64{
				"Business_Age_Years":          age,
				"Annual_Revenue":              revenue,
				"Net_Profit":                  profit,
				"CIBIL_Score":                 cibil,
				"Business_Type":               vals["Business_Type"],
				"Existing_Loan_Amount":        existing,
				"Loan_Tenure_Years":           vals["Loan_Tenure_Years"],
				"Has_Collateral":              vals["Has_Collateral"],
				"Has_Guarantor":               vals["Has_Guarantor"],
				"Industry_Risk_Rating":        risk,
				"Location_Tier":               tier,
				"Expected_Loan_Amount":        vals["Expected_Loan_Amount"],
				"Profit_Margin":               profit / safeRevenue * 100,
				"Debt_to_Revenue_Ratio":       existing / safeRevenue * 100,
				"Revenue_to_Profit_Ratio":     revenue / (profit + 1),
				"Age_Revenue_Interaction":     age * math.Log1p(revenue),
				"CIBIL_Revenue_Score":         cibil * math.Log1p(revenue) / 1e6,
				"Risk_Adjusted_Revenue":       revenue / (risk + tier),
				"Collateral_Guarantor_Score":  vals["Has_Collateral"]*2 + vals["Has_Guarantor"],
				"Business_Stability_Score":    age/25 + (cibil-600)/300,
				"Debt_Service_Coverage":       profit / (existing*0.12 + 1),
				"Location_Risk_Combined":      tier + risk,
			}
		},
	}
}

// Package product holds the table-driven loan product definitions: required
// fields in asking order, validation thresholds, enum tables, derived fields,
// feature-engineering recipes and clamping bounds for all six products.
package product

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind classifies how a field is validated and encoded.
type FieldKind int

const (
	Text FieldKind = iota
	Numeric
	Enum
)

// DerivedSpec marks a field computed from another field instead of asked for.
// Completion checking treats the derived field as satisfied whenever its
// source is present; the source must appear earlier in the field order.
type DerivedSpec struct {
	Source  string
	Compute func(v float64) interface{}
}

// FieldSpec describes one required field of a product.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Question string   // deterministic follow-up when the LLM is unavailable
	AskHints []string // lowercase tokens locating this field in the last question asked

	// Numeric bounds, inclusive. A hard bound breach is ineligibility (the
	// applicant cannot proceed), a soft breach reads as a probable typo.
	Min, Max         float64
	HardMin, HardMax bool
	MinReason        string
	MaxReason        string

	// Enum fields.
	Enum     []string
	Keywords map[string]string  // free-text keyword -> canonical value
	Codes    map[string]float64 // canonical value -> model input code

	Derived  *DerivedSpec
	Identity bool // stripped from the scoring feature set
}

// Canonicalize maps raw user text onto the canonical enum value. Exact
// case-insensitive matches win; otherwise the first keyword contained in the
// text decides.
func (f *FieldSpec) Canonicalize(raw string) (string, bool) {
	if f.Kind != Enum {
		return raw, false
	}
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	for _, v := range f.Enum {
		if cleaned == strings.ToLower(v) {
			return v, true
		}
	}
	for kw, canonical := range f.Keywords {
		if strings.Contains(cleaned, kw) {
			return canonical, true
		}
	}
	return "", false
}

// Code returns the model input code for a canonical enum value. Unknown
// values encode as 0.
func (f *FieldSpec) Code(canonical string) float64 {
	if f.Codes != nil {
		if c, ok := f.Codes[canonical]; ok {
			return c
		}
	}
	for i, v := range f.Enum {
		if v == canonical {
			return float64(i)
		}
	}
	return 0
}

// CrossCheck is a validation spanning several fields. Check runs only once
// every listed field is present in the profile.
type CrossCheck struct {
	Fields []string
	Field  string // field blamed in the rejection message
	Check  func(profile map[string]interface{}) (reason string, ok bool)
}

// Definition is the full static configuration of one loan product.
type Definition struct {
	Type        string
	DisplayName string
	Fields      []FieldSpec

	// NumericFields are coerced to numbers before decisioning.
	NumericFields []string

	CrossChecks []CrossCheck

	// AmountField names the requested-amount field for verdict comparison.
	AmountField string

	MinAmount, MaxAmount float64
	MinRate, MaxRate     float64

	// ClampAmount overrides the default bound clamp when the ceiling depends
	// on profile values (gold loans cap at 80% of the pledged value).
	ClampAmount func(predicted float64, vals map[string]float64) float64

	// BuildFeatures turns encoded field values into the scoring input.
	BuildFeatures func(vals map[string]float64) map[string]float64
}

// Field returns the spec for a field name, or nil.
func (d *Definition) Field(name string) *FieldSpec {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the required fields in asking order.
func (d *Definition) FieldNames() []string {
	out := make([]string, len(d.Fields))
	for i := range d.Fields {
		out[i] = d.Fields[i].Name
	}
	return out
}

// MissingFields lists required fields absent from the profile. A derived
// field counts as present whenever its source field is.
func (d *Definition) MissingFields(profile map[string]interface{}) []string {
	var missing []string
	for i := range d.Fields {
		f := &d.Fields[i]
		if _, ok := profile[f.Name]; ok {
			continue
		}
		if f.Derived != nil {
			if _, ok := profile[f.Derived.Source]; ok {
				continue
			}
		}
		missing = append(missing, f.Name)
	}
	return missing
}

// IsNumeric reports whether the field is on the numeric coercion list.
func (d *Definition) IsNumeric(name string) bool {
	for _, n := range d.NumericFields {
		if n == name {
			return true
		}
	}
	return false
}

// Clamp applies the product bounds to a scoring result.
func (d *Definition) Clamp(amount, rate float64, vals map[string]float64) (float64, float64) {
	if d.ClampAmount != nil {
		amount = d.ClampAmount(amount, vals)
	} else {
		if amount < d.MinAmount {
			amount = d.MinAmount
		}
		if amount > d.MaxAmount {
			amount = d.MaxAmount
		}
	}
	if rate < d.MinRate {
		rate = d.MinRate
	}
	if rate > d.MaxRate {
		rate = d.MaxRate
	}
	return amount, rate
}

// ErrUnknownProduct is returned for loan type identifiers with no
// registered definition.
var ErrUnknownProduct = errors.New("unknown loan product")

var registry = map[string]*Definition{}

func register(d *Definition) {
	registry[d.Type] = d
}

// Get resolves a loan type identifier to its product definition.
func Get(loanType string) (*Definition, error) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(loanType))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, loanType)
	}
	return d, nil
}

// Types lists the registered loan type identifiers.
func Types() []string {
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}

// Identity field names shared by every product.
const (
	FieldCustomerName  = "Customer_Name"
	FieldCustomerEmail = "Customer_Email"
	FieldCustomerPhone = "Customer_Phone"
)

// cibilField builds the CIBIL score spec every product shares. The minimum
// is a hard floor (ineligibility below it); 900 is the scale ceiling.
func cibilField(min float64, minReason string) FieldSpec {
	return FieldSpec{
		Name:     "CIBIL_Score",
		Kind:     Numeric,
		Question: "What is your CIBIL score?",
		AskHints: []string{"cibil", "credit score"},
		Min:      min, Max: 900,
		HardMin:   true,
		MinReason: minReason,
	}
}

func identityFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:     FieldCustomerName,
			Kind:     Text,
			Identity: true,
			Question: "May I have your full name, please?",
			AskHints: []string{"name"},
		},
		{
			Name:     FieldCustomerEmail,
			Kind:     Text,
			Identity: true,
			Question: "Could you share your email address?",
			AskHints: []string{"email"},
		},
		{
			Name:     FieldCustomerPhone,
			Kind:     Text,
			Identity: true,
			Question: "What is your 10-digit mobile number?",
			AskHints: []string{"phone", "mobile", "contact number"},
		},
	}
}

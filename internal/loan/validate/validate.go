// Package validate applies per-field and cross-field rules for a product.
// A rejection carries a user-presentable reason and a kind: a hard
// ineligibility ends the applicant's path, a format error reads as a typo to
// reconfirm, an enum mismatch asks the user to pick from the allowed set.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"lending-workers/internal/loan/product"
)

type Kind int

const (
	Format Kind = iota
	Ineligible
	EnumMismatch
)

func (k Kind) String() string {
	switch k {
	case Ineligible:
		return "ineligible"
	case EnumMismatch:
		return "enum_mismatch"
	default:
		return "format"
	}
}

// Rejection explains why a field value was not accepted.
type Rejection struct {
	Field  string
	Kind   Kind
	Reason string
}

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z .']*$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	phonePrefix  = regexp.MustCompile(`^(?:\+91|91|0)`)
)

// Field checks one raw value against its spec and returns the normalized
// value to store: float64 for numeric fields, the canonical enum value for
// categorical ones, a cleaned string for identity fields.
func Field(def *product.Definition, name string, raw interface{}) (interface{}, *Rejection) {
	spec := def.Field(name)
	if spec == nil {
		return nil, &Rejection{Field: name, Kind: Format, Reason: fmt.Sprintf("%q is not a recognised field.", name)}
	}

	switch {
	case spec.Identity:
		return identityField(spec, raw)
	case spec.Kind == product.Numeric:
		return numericField(spec, raw)
	case spec.Kind == product.Enum:
		return enumField(spec, raw)
	default:
		return fmt.Sprint(raw), nil
	}
}

func numericField(spec *product.FieldSpec, raw interface{}) (interface{}, *Rejection) {
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case string:
		parsed, err := product.ParseAmount(t)
		if err != nil {
			return nil, &Rejection{
				Field: spec.Name, Kind: Format,
				Reason: fmt.Sprintf("I could not read %s as a number. Please enter it again.", humanName(spec.Name)),
			}
		}
		v = parsed
	default:
		return nil, &Rejection{
			Field: spec.Name, Kind: Format,
			Reason: fmt.Sprintf("I could not read %s as a number. Please enter it again.", humanName(spec.Name)),
		}
	}

	if spec.HardMin && v < spec.Min {
		return nil, &Rejection{Field: spec.Name, Kind: Ineligible, Reason: spec.MinReason}
	}
	if spec.HardMax && v > spec.Max {
		return nil, &Rejection{Field: spec.Name, Kind: Ineligible, Reason: spec.MaxReason}
	}
	if v < spec.Min || v > spec.Max {
		return nil, &Rejection{
			Field: spec.Name, Kind: Format,
			Reason: fmt.Sprintf("%s should be between %s and %s. Please reconfirm.",
				humanName(spec.Name), formatNumber(spec.Min), formatNumber(spec.Max)),
		}
	}
	return v, nil
}

func enumField(spec *product.FieldSpec, raw interface{}) (interface{}, *Rejection) {
	canonical, ok := spec.Canonicalize(fmt.Sprint(raw))
	if !ok {
		return nil, &Rejection{
			Field: spec.Name, Kind: EnumMismatch,
			Reason: fmt.Sprintf("Please choose one of: %s.", strings.Join(spec.Enum, ", ")),
		}
	}
	return canonical, nil
}

func identityField(spec *product.FieldSpec, raw interface{}) (interface{}, *Rejection) {
	s := strings.TrimSpace(fmt.Sprint(raw))
	switch spec.Name {
	case product.FieldCustomerName:
		err := validation.Validate(s,
			validation.Required,
			validation.Length(2, 100),
			validation.Match(namePattern),
		)
		if err != nil {
			return nil, &Rejection{Field: spec.Name, Kind: Format, Reason: "Please share your name using letters only (2-100 characters)."}
		}
		return s, nil
	case product.FieldCustomerEmail:
		if err := validation.Validate(s, validation.Required, is.Email); err != nil {
			return nil, &Rejection{Field: spec.Name, Kind: Format, Reason: "That email address does not look right. Please re-enter it."}
		}
		return strings.ToLower(s), nil
	case product.FieldCustomerPhone:
		digits := phonePrefix.ReplaceAllString(condense(s), "")
		if err := validation.Validate(digits, validation.Required, validation.Match(phonePattern)); err != nil {
			return nil, &Rejection{Field: spec.Name, Kind: Format, Reason: "Please share a 10-digit Indian mobile number starting with 6-9."}
		}
		return digits, nil
	}
	return s, nil
}

// CrossChecks runs the product's multi-field rules and returns the first
// failure. A check only fires once every field it reads is present.
func CrossChecks(def *product.Definition, profile map[string]interface{}) *Rejection {
	for _, cc := range def.CrossChecks {
		ready := true
		for _, f := range cc.Fields {
			if _, ok := profile[f]; !ok {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		if reason, ok := cc.Check(profile); !ok {
			return &Rejection{Field: cc.Field, Kind: Format, Reason: reason}
		}
	}
	return nil
}

func humanName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func condense(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
}

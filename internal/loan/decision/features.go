// Package decision turns a completed profile into a scoring feature vector,
// invokes the scoring collaborator and produces the verdict.
package decision

import (
	"lending-workers/internal/loan/product"
)

// FieldValues encodes a completed profile into per-field numbers: numeric
// fields are coerced, enum fields are mapped through the product's code
// table, identity fields are dropped. Derived fields absent from the profile
// are computed from their source on the spot.
func FieldValues(def *product.Definition, profile map[string]interface{}) map[string]float64 {
	vals := make(map[string]float64)
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Identity {
			continue
		}

		raw, ok := profile[f.Name]
		if !ok && f.Derived != nil {
			if src, srcOK := profile[f.Derived.Source]; srcOK {
				raw = f.Derived.Compute(product.CoerceNumeric(src))
				ok = true
			}
		}
		if !ok {
			continue
		}

		switch f.Kind {
		case product.Enum:
			if s, isStr := raw.(string); isStr {
				vals[f.Name] = f.Code(s)
			} else {
				vals[f.Name] = product.CoerceNumeric(raw)
			}
		default:
			vals[f.Name] = product.CoerceNumeric(raw)
		}
	}
	return vals
}

// internal/loan/extract/fallback.go
package extract

import (
	"regexp"
	"strings"

	"lending-workers/internal/loan/product"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+91|91|0)?([6-9]\d{9})`)
	namePattern  = regexp.MustCompile(`(?i)(?:my name is|i am|i'm|this is)\s+([A-Za-z]+(?:\s+[A-Za-z]+){0,2})`)
	bareName     = regexp.MustCompile(`^[A-Za-z]+(?:\s+[A-Za-z]+){0,2}$`)
	// An Indian-numbering amount anywhere in the text is taken as the
	// requested loan amount when no more specific field claims it.
	amountMention = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:lakhs?|lacs?|crores?|cr)\b`)
)

// Fallback is the deterministic extraction path. It is a pure function of
// the product definition, the last question asked, and the user's text.
func Fallback(def *product.Definition, lastAssistant, userText string) map[string]interface{} {
	fields := make(map[string]interface{})
	text := strings.TrimSpace(userText)
	if text == "" {
		return fields
	}
	lastQ := strings.ToLower(lastAssistant)
	asked := askedField(def, lastQ)

	// Identity detectors run on every message; users volunteer contact
	// details out of order all the time.
	if m := emailPattern.FindString(text); m != "" {
		fields[product.FieldCustomerEmail] = m
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		fields[product.FieldCustomerName] = strings.TrimSpace(m[1])
	}
	if asked != nil && asked.Name == product.FieldCustomerPhone ||
		strings.Contains(strings.ToLower(text), "phone") ||
		strings.Contains(strings.ToLower(text), "mobile") {
		if m := phonePattern.FindStringSubmatch(condenseDigits(text)); m != nil {
			fields[product.FieldCustomerPhone] = m[1]
		}
	}

	if asked != nil {
		extractAskedField(fields, asked, text)
	}

	// "5 lakh" style mentions default to the requested-amount field when
	// nothing else claimed the number this turn.
	if _, taken := fields[def.AmountField]; !taken && amountMention.MatchString(text) {
		if asked == nil || !def.IsNumeric(asked.Name) {
			if v, err := product.ParseAmount(text); err == nil {
				fields[def.AmountField] = v
			}
		}
	}

	return fields
}

func extractAskedField(fields map[string]interface{}, asked *product.FieldSpec, text string) {
	switch {
	case asked.Name == product.FieldCustomerName:
		if _, ok := fields[product.FieldCustomerName]; ok {
			return
		}
		// A short bare answer to the name question is the name.
		if bareName.MatchString(text) {
			fields[product.FieldCustomerName] = text
		}
	case asked.Identity:
		// Email and phone are covered by the always-on detectors.
	case asked.Kind == product.Numeric:
		if v, err := product.ParseAmount(text); err == nil {
			fields[asked.Name] = v
		}
	case asked.Kind == product.Enum:
		if canonical, ok := asked.Canonicalize(text); ok {
			fields[asked.Name] = canonical
		}
	default:
		fields[asked.Name] = text
	}
}

// askedField resolves which field the last assistant question was about.
// The exact question text wins; otherwise the field with the longest
// matching hint does, so "your guarantor's annual income" is not mistaken
// for plain income.
func askedField(def *product.Definition, lastQ string) *product.FieldSpec {
	if lastQ == "" {
		return nil
	}
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Question != "" && strings.Contains(lastQ, strings.ToLower(f.Question)) {
			return f
		}
	}
	var best *product.FieldSpec
	bestLen := 0
	for i := range def.Fields {
		f := &def.Fields[i]
		for _, hint := range f.AskHints {
			if len(hint) > bestLen && strings.Contains(lastQ, hint) {
				best = f
				bestLen = len(hint)
			}
		}
	}
	return best
}

// condenseDigits strips the separators people type inside phone numbers.
func condenseDigits(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
}

// Package extract turns free-text user messages into candidate field values.
// The primary path asks the language model for a JSON object; the fallback
// path is a deterministic keyword/regex pass that is always available.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/product"
	"lending-workers/internal/models"
)

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Extracted values must be flat scalars; anything else is a model
// hallucination and the whole payload is discarded.
const payloadSchema = `{
	"type": "object",
	"additionalProperties": {"type": ["string", "number", "integer", "boolean"]}
}`

var (
	schemaLoader = gojsonschema.NewStringLoader(payloadSchema)
	jsonObject   = regexp.MustCompile(`(?s)\{.*\}`)
)

type Extractor struct {
	client *llm.Client
	logger Logger
}

func New(client *llm.Client, logger Logger) *Extractor {
	return &Extractor{client: client, logger: logger}
}

// Extract returns the candidate fields found in userText. It never fails:
// any problem on the model path degrades to the deterministic fallback.
// The returned source is "llm" or "fallback".
func (e *Extractor) Extract(ctx context.Context, def *product.Definition, lastAssistant, userText string) (map[string]interface{}, string) {
	if e.client.Available() {
		if fields, err := e.extractWithModel(ctx, def, lastAssistant, userText); err == nil {
			return fields, "llm"
		} else if e.logger != nil {
			e.logger.Warn("model extraction failed, using fallback", map[string]interface{}{
				"loanType": def.Type,
				"error":    err.Error(),
			})
		}
	}
	return Fallback(def, lastAssistant, userText), "fallback"
}

func (e *Extractor) extractWithModel(ctx context.Context, def *product.Definition, lastAssistant, userText string) (map[string]interface{}, error) {
	messages := []models.Message{
		{Role: models.RoleSystem, Content: extractionPrompt(def)},
	}
	if lastAssistant != "" {
		messages = append(messages, models.Message{Role: models.RoleAssistant, Content: lastAssistant})
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Content: userText})

	reply, err := e.client.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	raw := jsonObject.FindString(reply)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("payload rejected: %v", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("payload rejected: %v", result.Errors())
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	// Keep only fields the product actually defines.
	fields := make(map[string]interface{})
	for name, value := range parsed {
		if def.Field(name) == nil {
			continue
		}
		fields[name] = value
	}
	return fields, nil
}

func extractionPrompt(def *product.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an information extraction system for %s applications.\n", strings.ToLower(def.DisplayName))
	b.WriteString("From the user's message, extract only the fields the user clearly states.\n")
	b.WriteString("Respond with a single JSON object and nothing else. Known fields:\n")
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Derived != nil {
			continue
		}
		if len(f.Enum) > 0 {
			fmt.Fprintf(&b, "- %s (one of: %s)\n", f.Name, strings.Join(f.Enum, ", "))
		} else {
			fmt.Fprintf(&b, "- %s\n", f.Name)
		}
	}
	b.WriteString("Omit any field the user did not state. Never guess.")
	return b.String()
}

// internal/loan/engine/followup.go
package engine

import (
	"context"
	"fmt"
	"strings"

	"lending-workers/internal/loan/product"
	"lending-workers/internal/models"
)

// greeting opens the conversation. The model gets one shot at a warmer
// version; the template always works.
func (c *Controller) greeting(ctx context.Context, def *product.Definition) string {
	template := fmt.Sprintf(
		"Welcome! I can help you apply for a %s. I will ask a few questions to put your application together. May I have your full name, please?",
		strings.ToLower(def.DisplayName))

	if c.llmClient == nil || !c.llmClient.Available() {
		return template
	}

	prompt := fmt.Sprintf(
		"You are a polite bank loan assistant. Write a short greeting (2 sentences max) welcoming a customer applying for a %s, then ask for their full name. No markdown.",
		strings.ToLower(def.DisplayName))
	reply, err := c.llmClient.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: prompt},
	})
	if err != nil {
		return template
	}
	return reply
}

// followUp asks for exactly the next missing field, acknowledging what was
// just recorded. Model failure degrades to the field's templated question.
func (c *Controller) followUp(ctx context.Context, def *product.Definition, sess *models.ChatSession, nextField string, recorded []string) string {
	spec := def.Field(nextField)
	question := ""
	if spec != nil {
		question = spec.Question
	}
	if question == "" {
		question = fmt.Sprintf("Could you share your %s?", strings.ReplaceAll(nextField, "_", " "))
	}

	template := question
	if len(recorded) > 0 {
		template = acknowledgement(recorded) + " " + question
	}

	if c.llmClient == nil || !c.llmClient.Available() {
		return template
	}

	prompt := fmt.Sprintf(
		"You are a polite bank loan assistant collecting a %s application. Rephrase the following question in one friendly sentence, asking for that single detail and nothing else: %q. No markdown.",
		strings.ToLower(def.DisplayName), question)
	reply, err := c.llmClient.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: prompt},
		{Role: models.RoleUser, Content: sess.LastAssistantMessage()},
	})
	if err != nil || !mentionsQuestion(reply, question) {
		return template
	}
	if len(recorded) > 0 {
		return acknowledgement(recorded) + " " + reply
	}
	return reply
}

func acknowledgement(recorded []string) string {
	if len(recorded) == 1 {
		return fmt.Sprintf("Got it, %s noted.", strings.ReplaceAll(recorded[0], "_", " "))
	}
	return "Got it, noted."
}

// mentionsQuestion keeps a drifting model answer from asking for the wrong
// thing: the rephrased question must share a keyword with the template.
func mentionsQuestion(reply, question string) bool {
	replyLower := strings.ToLower(reply)
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, "?.,()-")
		if len(word) >= 5 && strings.Contains(replyLower, word) {
			return true
		}
	}
	return false
}

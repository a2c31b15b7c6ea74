// Package engine orchestrates one conversation turn: restore state, extract
// candidate fields from the user's message, validate and commit them, then
// either ask for the next missing field or run decisioning.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lending-workers/internal/common/metrics"
	"lending-workers/internal/loan/decision"
	"lending-workers/internal/loan/extract"
	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/product"
	"lending-workers/internal/loan/session"
	"lending-workers/internal/loan/validate"
	"lending-workers/internal/models"
)

// Turn outcomes.
const (
	StatusCollecting = "COLLECTING"
	StatusDecided    = "DECIDED"
	StatusError      = "ERROR"
)

const genericErrorReply = "We ran into a problem while processing your application. Your details are safe, please try again in a moment."

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TurnResult is what one processed turn hands back to the transport layer.
type TurnResult struct {
	SessionID     string          `json:"sessionId"`
	Reply         string          `json:"reply"`
	Status        string          `json:"status"`
	MissingFields []string        `json:"missingFields,omitempty"`
	Verdict       *models.Verdict `json:"verdict,omitempty"`
}

type Controller struct {
	store     session.Store
	extractor *extract.Extractor
	decider   *decision.Engine
	repo      models.ApplicationRepository // optional, best effort
	llmClient *llm.Client
	logger    Logger
}

func NewController(
	store session.Store,
	extractor *extract.Extractor,
	decider *decision.Engine,
	repo models.ApplicationRepository,
	llmClient *llm.Client,
	logger Logger,
) *Controller {
	return &Controller{
		store:     store,
		extractor: extractor,
		decider:   decider,
		repo:      repo,
		llmClient: llmClient,
		logger:    logger,
	}
}

// StartSession creates a session for the loan type and returns it together
// with the opening assistant message.
func (c *Controller) StartSession(ctx context.Context, loanType string) (*models.ChatSession, string, error) {
	def, err := product.Get(loanType)
	if err != nil {
		return nil, "", err
	}

	sess, err := c.store.Create(ctx, def.Type)
	if err != nil {
		return nil, "", fmt.Errorf("creating session: %w", err)
	}

	greeting := c.greeting(ctx, def)
	sess.Append(models.RoleAssistant, greeting)
	if err := c.store.Save(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("session started", map[string]interface{}{
		"sessionId": sess.ID,
		"loanType":  def.Type,
	})
	return sess, greeting, nil
}

// HandleTurn processes one user message. It only fails for infrastructure
// reasons (unknown session, session store down); everything else, scoring
// failure included, comes back as a TurnResult the user can read.
func (c *Controller) HandleTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	unlock := c.store.Lock(sessionID)
	defer unlock()

	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	def, err := product.Get(sess.LoanType)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result := c.processTurn(ctx, def, sess, userText)
	metrics.TurnDuration.WithLabelValues(def.Type).Observe(time.Since(started).Seconds())
	metrics.TurnsProcessed.WithLabelValues(def.Type, result.Status).Inc()

	if err := c.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return result, nil
}

func (c *Controller) processTurn(ctx context.Context, def *product.Definition, sess *models.ChatSession, userText string) *TurnResult {
	c.rehydrateIdentity(ctx, def, sess)

	lastQuestion := sess.LastAssistantMessage()
	sess.Append(models.RoleUser, userText)

	extracted, source := c.extractor.Extract(ctx, def, lastQuestion, userText)
	if source == "fallback" {
		metrics.ExtractionFallbacks.WithLabelValues(def.Type, "model_unavailable").Inc()
	}
	c.logger.Debug("fields extracted", map[string]interface{}{
		"sessionId": sess.ID,
		"source":    source,
		"count":     len(extracted),
	})

	rejection, recorded := c.commitFields(def, sess, extracted)
	if rejection == nil {
		if cross := validate.CrossChecks(def, sess.Profile); cross != nil {
			// The blamed value cannot stand with the rest of the
			// profile; drop it so the user is asked again.
			delete(sess.Profile, cross.Field)
			rejection = cross
		}
	}

	if rejection != nil {
		metrics.ValidationRejections.WithLabelValues(def.Type, rejection.Field, rejection.Kind.String()).Inc()
		reply := c.rejectionReply(def, rejection)
		sess.Append(models.RoleAssistant, reply)
		return &TurnResult{
			SessionID:     sess.ID,
			Reply:         reply,
			Status:        StatusCollecting,
			MissingFields: def.MissingFields(sess.Profile),
		}
	}

	missing := def.MissingFields(sess.Profile)
	if len(missing) == 0 {
		return c.decideTurn(ctx, def, sess)
	}

	reply := c.followUp(ctx, def, sess, missing[0], recorded)
	sess.Append(models.RoleAssistant, reply)
	return &TurnResult{
		SessionID:     sess.ID,
		Reply:         reply,
		Status:        StatusCollecting,
		MissingFields: missing,
	}
}

// commitFields validates extracted values in required-field order. The first
// rejection stops the loop; fields accepted before it stay committed.
func (c *Controller) commitFields(def *product.Definition, sess *models.ChatSession, extracted map[string]interface{}) (*validate.Rejection, []string) {
	var recorded []string
	for i := range def.Fields {
		f := &def.Fields[i]
		raw, ok := extracted[f.Name]
		if !ok || isBlank(raw) {
			continue
		}

		value, rej := validate.Field(def, f.Name, raw)
		if rej != nil {
			return rej, recorded
		}
		sess.Profile[f.Name] = value
		recorded = append(recorded, f.Name)

		c.storeDerived(def, sess, f.Name)
	}
	return nil, recorded
}

// storeDerived computes any field derived from the one just committed.
func (c *Controller) storeDerived(def *product.Definition, sess *models.ChatSession, source string) {
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Derived == nil || f.Derived.Source != source {
			continue
		}
		sess.Profile[f.Name] = f.Derived.Compute(product.CoerceNumeric(sess.Profile[source]))
	}
}

func (c *Controller) decideTurn(ctx context.Context, def *product.Definition, sess *models.ChatSession) *TurnResult {
	verdict, err := c.decider.Decide(ctx, def, sess.Profile)
	if err != nil {
		// Profile stays intact so the user can retry the turn.
		c.logger.Error("decisioning failed", map[string]interface{}{
			"sessionId": sess.ID,
			"loanType":  def.Type,
			"error":     err.Error(),
		})
		sess.Append(models.RoleAssistant, genericErrorReply)
		return &TurnResult{
			SessionID: sess.ID,
			Reply:     genericErrorReply,
			Status:    StatusError,
		}
	}

	c.persistApplication(ctx, def, sess, verdict)

	sess.ResetProfile()
	sess.Append(models.RoleAssistant, verdict.Message)
	return &TurnResult{
		SessionID: sess.ID,
		Reply:     verdict.Message,
		Status:    StatusDecided,
		Verdict:   verdict,
	}
}

// persistApplication stores the decided application. Failures are logged
// and never block the verdict reaching the user.
func (c *Controller) persistApplication(ctx context.Context, def *product.Definition, sess *models.ChatSession, verdict *models.Verdict) {
	if c.repo == nil {
		return
	}

	loanData := make(map[string]interface{}, len(sess.Profile))
	for k, v := range sess.Profile {
		if k == product.FieldCustomerName || k == product.FieldCustomerEmail || k == product.FieldCustomerPhone {
			continue
		}
		loanData[k] = v
	}

	app := &models.LoanApplication{
		LoanType:  def.Type,
		SessionID: sess.ID,
		Customer: models.CustomerInfo{
			Name:  asString(sess.Profile[product.FieldCustomerName]),
			Email: asString(sess.Profile[product.FieldCustomerEmail]),
			Phone: asString(sess.Profile[product.FieldCustomerPhone]),
		},
		LoanData:        loanData,
		Status:          verdict.Status,
		ApprovedAmount:  verdict.ApprovedAmount,
		RequestedAmount: verdict.RequestedAmount,
		InterestRate:    verdict.InterestRate,
	}
	if _, err := c.repo.SaveApplication(ctx, app); err != nil {
		c.logger.Error("storing application failed", map[string]interface{}{
			"sessionId": sess.ID,
			"loanType":  def.Type,
			"error":     err.Error(),
		})
	}
}

// rehydrateIdentity fills identity fields from a previously stored
// application on the same session, so a second application in one session
// does not re-ask name, email and phone. Non-fatal when storage is down.
func (c *Controller) rehydrateIdentity(ctx context.Context, def *product.Definition, sess *models.ChatSession) {
	if c.repo == nil {
		return
	}
	if _, ok := sess.Profile[product.FieldCustomerName]; ok {
		return
	}

	app, err := c.repo.GetApplicationBySession(ctx, def.Type, sess.ID)
	if err != nil {
		c.logger.Warn("rehydration skipped", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
		return
	}
	if app == nil {
		return
	}

	if app.Customer.Name != "" {
		sess.Profile[product.FieldCustomerName] = app.Customer.Name
	}
	if app.Customer.Email != "" {
		sess.Profile[product.FieldCustomerEmail] = app.Customer.Email
	}
	if app.Customer.Phone != "" {
		sess.Profile[product.FieldCustomerPhone] = app.Customer.Phone
	}
}

func (c *Controller) rejectionReply(def *product.Definition, rej *validate.Rejection) string {
	if f := def.Field(rej.Field); f != nil && f.Question != "" {
		return rej.Reason + " " + f.Question
	}
	return rej.Reason
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

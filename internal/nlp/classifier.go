// Package nlp ties the classification pipeline together: text normalisation,
// feature encoding, the trained heads with their usable gate, the rule-router
// fallback and the canned response templates.
//
// The orchestrator separates deciding from doing: [Classifier.Classify]
// returns the response plus a list of side effects, and
// [Classifier.ClassifyAndDispatch] executes the effects best-effort so an
// effect failure can never corrupt or suppress the response value.
package nlp

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/andrei-vlg/shopmind/internal/handoff"
	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
	"github.com/andrei-vlg/shopmind/internal/nlp/head"
	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
	"github.com/andrei-vlg/shopmind/internal/nlp/rules"
	"github.com/andrei-vlg/shopmind/internal/observe"
)

// Result is the structured classification response returned to the caller.
type Result struct {
	UserID      *uuid.UUID `json:"userId,omitempty"`
	Message     string     `json:"message"`
	Link        *string    `json:"link"`
	AdminIssued bool       `json:"adminIssued"`
}

// Effect is a side effect the caller should execute after the response has
// been decided. Only the admin hand-off effect exists today.
type Effect struct {
	UserID  uuid.UUID
	Message string
}

// Classifier is the per-request classification orchestrator. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	store        *lexicon.Store
	router       *rules.Router
	intentEnc    encode.Encoder
	categoryEnc  encode.Encoder
	intentHead   *head.Head
	categoryHead *head.Head
	handoffSvc   handoff.Service
	metrics      *observe.Metrics
}

// Option is a functional option for [NewClassifier].
type Option func(*Classifier)

// WithIntentHead attaches the trained intent head. When nil or unusable the
// rule router decides intents.
func WithIntentHead(h *head.Head) Option {
	return func(c *Classifier) { c.intentHead = h }
}

// WithCategoryHead attaches the trained category head. When nil or unusable
// the rule router decides categories.
func WithCategoryHead(h *head.Head) Option {
	return func(c *Classifier) { c.categoryHead = h }
}

// WithHandoff attaches the admin hand-off service used by
// [Classifier.ClassifyAndDispatch]. When nil, admin effects are logged and
// skipped.
func WithHandoff(s handoff.Service) Option {
	return func(c *Classifier) { c.handoffSvc = s }
}

// WithMetrics overrides the metrics instance (tests).
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// NewClassifier builds the orchestrator. Encoder/head mismatches are logged
// here, once, rather than per request — the usable flags never change after
// this point.
func NewClassifier(store *lexicon.Store, intentEnc, categoryEnc encode.Encoder, opts ...Option) *Classifier {
	c := &Classifier{
		store:       store,
		router:      rules.New(store.Categories),
		intentEnc:   intentEnc,
		categoryEnc: categoryEnc,
		metrics:     observe.Default(),
	}
	for _, o := range opts {
		o(c)
	}

	if c.intentHead != nil && !c.intentHead.Usable() {
		slog.Warn("encoder/head representation mismatch; rule fallback enabled",
			"head", "intent", "encoder", string(intentEnc.Kind()))
	}
	if c.categoryHead != nil && !c.categoryHead.Usable() {
		slog.Warn("encoder/head representation mismatch; rule fallback enabled",
			"head", "category", "encoder", string(categoryEnc.Kind()))
	}
	return c
}

// Classify normalises the text, decides the intent (and category when the
// intent is CATEGORY) and returns the response plus any side effects to
// execute. It never returns an error: inference failures degrade to
// deterministic defaults inside.
func (c *Classifier) Classify(ctx context.Context, userID *uuid.UUID, raw string) (Result, []Effect) {
	start := time.Now()
	defer observe.RecordDuration(ctx, c.metrics.ClassifyDuration, start)

	text := encode.Normalize(raw)

	intent, path := c.decideIntent(ctx, text)
	c.metrics.IntentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", intent.String()),
		attribute.String("path", path),
	))

	if intent == lexicon.IntentCategory {
		code := c.decideCategory(ctx, text)
		cat, _ := c.store.Category(code)
		link := "/catalog?category=" + cat.Code
		return Result{
			UserID:  userID,
			Message: "We have that category of products click the button below to access the " + cat.Label,
			Link:    &link,
		}, nil
	}

	res := cannedResponse(intent, userID)

	var effects []Effect
	if intent == lexicon.IntentAdmin {
		if userID != nil {
			// The hand-off record carries the user's raw words, not the
			// normalised form.
			effects = append(effects, Effect{UserID: *userID, Message: raw})
		} else {
			slog.Warn("admin intent without a user id; skipping hand-off record")
		}
	}
	return res, effects
}

// ClassifyAndDispatch runs [Classifier.Classify] and executes the returned
// effects best-effort. Effect failures are logged and counted but never
// surface to the caller — the admin response is returned regardless.
func (c *Classifier) ClassifyAndDispatch(ctx context.Context, userID *uuid.UUID, raw string) Result {
	res, effects := c.Classify(ctx, userID, raw)
	for _, e := range effects {
		if c.handoffSvc == nil {
			slog.Warn("no hand-off service configured; dropping admin hand-off", "user_id", e.UserID)
			continue
		}
		if _, err := c.handoffSvc.CreateAwaiting(ctx, e.UserID, e.Message); err != nil {
			c.metrics.HandoffFailures.Add(ctx, 1)
			slog.Error("admin hand-off failed", "user_id", e.UserID, "err", err)
		}
	}
	return res
}

// decideIntent prefers the usable intent head; a predict failure degrades to
// ADMIN with negligible confidence, the fixed low-confidence default.
func (c *Classifier) decideIntent(ctx context.Context, text string) (lexicon.Intent, string) {
	if c.intentHead == nil || !c.intentHead.Usable() {
		return c.router.RouteIntent(text), "rules"
	}

	idx, _, err := c.top1(ctx, c.intentHead, c.intentEnc, text)
	if err != nil {
		c.metrics.HeadFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("head", "intent")))
		slog.Error("intent predict failed", "err", err)
		return lexicon.IntentAdmin, "head"
	}
	if idx >= len(c.store.IntentIDs) {
		slog.Error("intent head index out of label space", "index", idx)
		return lexicon.IntentAdmin, "head"
	}
	return c.store.IntentIDs[idx], "head"
}

// decideCategory prefers the usable category head; a predict failure degrades
// to the first catalog code.
func (c *Classifier) decideCategory(ctx context.Context, text string) string {
	if c.categoryHead == nil || !c.categoryHead.Usable() {
		return c.router.RouteCategory(text)
	}

	idx, _, err := c.top1(ctx, c.categoryHead, c.categoryEnc, text)
	if err != nil || idx >= len(c.store.CategoryIDs) {
		c.metrics.HeadFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("head", "category")))
		slog.Error("category predict failed", "err", err)
		return c.store.FirstCategoryCode()
	}
	return c.store.CategoryIDs[idx]
}

func (c *Classifier) top1(ctx context.Context, h *head.Head, enc encode.Encoder, text string) (int, float32, error) {
	vec, err := enc.Encode(ctx, text)
	if err != nil {
		return 0, 0, err
	}
	return h.Top1(vec)
}

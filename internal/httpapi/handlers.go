package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/calls"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/contract"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/dedup"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/events"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/metrics"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/reporting"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
	"github.com/sddhantjaiii/Calling-agent-sub001/pkg/logger"
)

const DefaultMaxBodyBytes = 2 << 20

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
//
// Dedup and Publisher may be nil; the no-op implementations are used.
type Handlers struct {
	Store     calls.Repository
	Dedup     dedup.Deduper
	Publisher events.Publisher
	Reports   *reporting.Service

	MaxBodyBytes int64
}

// --- Webhooks ---

type webhookResponse struct {
	Status         string   `json:"status"`
	ConversationID string   `json:"conversation_id"`
	IsValid        bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
}

const (
	statusAccepted  = "accepted"
	statusDuplicate = "duplicate"
)

// CallCompleted ingests a provider call-completion webhook.
//
// Only an unreadable body is rejected. Data problems are reported in the
// response and stored with the call, so the provider does not retry them.
func (h Handlers) CallCompleted(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	if h.Store == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call store not configured"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes()))
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeBadRequest)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	start := time.Now()
	nw, err := webhook.NormalizeBytes(body)
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeBadRequest)
		log.Warn("webhook rejected", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.ObserveNormalized(nw, time.Since(start))

	log = log.With(
		zap.String("conversation_id", nw.Metadata.ConversationID),
		zap.String("version", string(nw.Version)),
		zap.String("source", string(nw.Source)),
	)
	if !nw.IsValid {
		log.Warn("webhook normalized with errors", zap.Strings("errors", nw.Errors))
	}

	key, claimed := h.claim(ctx, log, nw)
	if !claimed {
		metrics.ObserveOutcome(metrics.OutcomeDuplicate)
		c.JSON(http.StatusOK, h.response(statusDuplicate, nw))
		return
	}

	storeStart := time.Now()
	_, inserted, err := h.Store.SaveWebhook(ctx, nw)
	metrics.StorageDuration.Observe(time.Since(storeStart).Seconds())
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeStoreError)
		log.Error("webhook store failed", zap.Error(err))
		if rerr := h.deduper().Release(ctx, key); rerr != nil {
			log.Warn("dedup release failed", zap.Error(rerr))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store failed"})
		return
	}
	if !inserted {
		metrics.ObserveOutcome(metrics.OutcomeDuplicate)
		c.JSON(http.StatusOK, h.response(statusDuplicate, nw))
		return
	}

	if err := h.publisher().Publish(ctx, nw); err != nil {
		log.Warn("webhook publish failed", zap.Error(err))
	}

	metrics.ObserveOutcome(metrics.OutcomeAccepted)
	log.Info("webhook accepted", zap.Bool("is_valid", nw.IsValid), zap.Int("warnings", len(nw.Warnings)))
	c.JSON(http.StatusOK, h.response(statusAccepted, nw))
}

// claim reports whether this delivery is the first one seen. A failing
// dedup backend does not block intake; the database constraint still holds.
func (h Handlers) claim(ctx context.Context, log *zap.Logger, nw webhook.NormalizedWebhook) (string, bool) {
	fp, err := contract.Fingerprint(nw)
	if err != nil {
		log.Warn("webhook fingerprint failed", zap.Error(err))
	}
	key := dedup.Key(nw.Metadata.ConversationID, fp)
	if nw.Metadata.ConversationID == "" && fp == "" {
		return key, true
	}
	ok, err := h.deduper().Claim(ctx, key, fp)
	if err != nil {
		log.Warn("dedup claim failed", zap.String("key", key), zap.Error(err))
		return key, true
	}
	return key, ok
}

func (h Handlers) response(status string, nw webhook.NormalizedWebhook) webhookResponse {
	return webhookResponse{
		Status:         status,
		ConversationID: nw.Metadata.ConversationID,
		IsValid:        nw.IsValid,
		Errors:         nw.Errors,
		Warnings:       nw.Warnings,
	}
}

func (h Handlers) maxBodyBytes() int64 {
	if h.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return h.MaxBodyBytes
}

func (h Handlers) deduper() dedup.Deduper {
	if h.Dedup == nil {
		return dedup.NoopDeduper{}
	}
	return h.Dedup
}

func (h Handlers) publisher() events.Publisher {
	if h.Publisher == nil {
		return events.NoopPublisher{}
	}
	return h.Publisher
}

// --- Reports ---

// LeadSummary serves GET /reports/leads?from=&to=&agent_id= with RFC 3339 bounds.
func (h Handlers) LeadSummary(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be an RFC 3339 timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be an RFC 3339 timestamp"})
		return
	}

	out, err := h.Reports.LeadSummary(c.Request.Context(), reporting.LeadSummaryRequest{
		AgentID: c.Query("agent_id"),
		Range:   reporting.TimeRange{From: from.UTC(), To: to.UTC()},
	})
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
			return
		}
		logger.FromGin(c).Error("lead summary failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	if out.Truncated {
		logger.FromGin(c).Warn("lead summary truncated", zap.Int("max_calls", reporting.MaxCalls))
	}
	c.JSON(http.StatusOK, out)
}

// Register mounts the handlers on r.
func (h Handlers) Register(r gin.IRouter) {
	r.POST("/webhooks/elevenlabs/call-completed", h.CallCompleted)
	r.GET("/reports/leads", h.LeadSummary)
}

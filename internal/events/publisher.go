// Package events fans normalized webhooks out to downstream consumers
// (billing, CRM sync) over NATS.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

const DefaultSubject = "calls.normalized"

// Header names set on every published message.
const (
	HeaderConversationID = "Conversation-Id"
	HeaderValid          = "Webhook-Valid"
	HeaderSource         = "Call-Source"
)

// Publisher hands a normalized webhook to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, nw webhook.NormalizedWebhook) error
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Name          string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "calling-agent-webhooks",
		Subject:       DefaultSubject,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes JSON-encoded webhooks to a single subject.
type NATSPublisher struct {
	conn    msgPublisher
	subject string
	close   func()
}

// Connect dials NATS. Disconnects and reconnects are logged through log.
func Connect(cfg Config, log *zap.Logger) (*NATSPublisher, error) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "events: connect")
	}
	return &NATSPublisher{conn: conn, subject: cfg.Subject, close: conn.Close}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, nw webhook.NormalizedWebhook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(nw)
	if err != nil {
		return eris.Wrap(err, "events: marshal")
	}
	msg := &nats.Msg{Subject: p.subject, Data: data, Header: nats.Header{}}
	msg.Header.Set(HeaderConversationID, nw.Metadata.ConversationID)
	msg.Header.Set(HeaderValid, strconv.FormatBool(nw.IsValid))
	msg.Header.Set(HeaderSource, string(nw.Source))
	if nw.Metadata.ConversationID != "" {
		// JetStream uses this to drop redeliveries within its dedup window.
		msg.Header.Set(nats.MsgIdHdr, nw.Metadata.ConversationID)
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return eris.Wrapf(err, "events: publish %s", p.subject)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// NoopPublisher drops everything.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, webhook.NormalizedWebhook) error { return nil }

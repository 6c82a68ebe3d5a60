package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func sample() webhook.NormalizedWebhook {
	return webhook.NormalizedWebhook{
		Version:  webhook.VersionDataWrapped,
		Metadata: webhook.CallMetadata{ConversationID: "conv_9", AgentID: "agent_1"},
		Source:   webhook.SourcePhone,
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

func TestNATSPublisher_Publish(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, subject: DefaultSubject}

	require.NoError(t, p.Publish(context.Background(), sample()))
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, DefaultSubject, msg.Subject)
	assert.Equal(t, "conv_9", msg.Header.Get(HeaderConversationID))
	assert.Equal(t, "conv_9", msg.Header.Get(nats.MsgIdHdr))
	assert.Equal(t, "true", msg.Header.Get(HeaderValid))
	assert.Equal(t, "phone", msg.Header.Get(HeaderSource))

	var got webhook.NormalizedWebhook
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "conv_9", got.Metadata.ConversationID)
}

func TestNATSPublisher_NoMsgIDWithoutConversation(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn, subject: "x"}
	nw := sample()
	nw.Metadata.ConversationID = ""

	require.NoError(t, p.Publish(context.Background(), nw))
	assert.Empty(t, conn.msgs[0].Header.Get(nats.MsgIdHdr))
}

func TestNATSPublisher_Errors(t *testing.T) {
	p := &NATSPublisher{conn: &fakeConn{err: errors.New("down")}, subject: "x"}
	assert.Error(t, p.Publish(context.Background(), sample()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = &NATSPublisher{conn: &fakeConn{}, subject: "x"}
	assert.ErrorIs(t, p.Publish(ctx, sample()), context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, nats.DefaultURL, c.URL)
	assert.Equal(t, DefaultSubject, c.Subject)
	assert.Equal(t, -1, c.MaxReconnects)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), sample()))
}

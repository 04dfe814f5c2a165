package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	failFor   string
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	var n domain.Notification
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		return err
	}
	if n.Target == c.failFor {
		return errors.New("channel closed")
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (s *fakeSender) DialAndSend(messages ...*mail.Msg) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, messages...)
	return nil
}

func publishedNotification(email string) domain.Notification {
	return domain.Notification{
		Type:   domain.NotificationTypeSchedulePublished,
		Target: email,
		Title:  "班表已发布",
		Body:   "2024-01-01 开始的一周班表已发布",
		Data:   map[string]any{"weekStartDate": "2024-01-01"},
	}
}

func TestPublisher_SendBulk(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "notification_queue")

	err := p.SendBulk(context.Background(), []domain.Notification{
		publishedNotification("alice@example.com"),
		publishedNotification("bob@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, ch.published, 2)
	assert.Equal(t, []string{"notification_queue", "notification_queue"}, ch.keys)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
}

func TestPublisher_SendBulkContinuesAfterFailure(t *testing.T) {
	ch := &fakeChannel{failFor: "alice@example.com"}
	p := NewPublisher(ch, "notification_queue")

	err := p.SendBulk(context.Background(), []domain.Notification{
		publishedNotification("alice@example.com"),
		publishedNotification("bob@example.com"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice@example.com")
	assert.Len(t, ch.published, 1)
}

func TestMailer_Process(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer(sender, "noreply@example.com")

	body, err := json.Marshal(publishedNotification("alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, m.Process(body))
	require.Len(t, sender.sent, 1)
	to := sender.sent[0].GetAddrHeaderString(mail.HeaderTo)
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "alice@example.com")
	assert.Equal(t, []string{"TavernShift - 班表已发布"}, sender.sent[0].GetGenHeader(mail.HeaderSubject))
}

func TestMailer_ProcessMalformed(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer(sender, "noreply@example.com")

	err := m.Process([]byte("not json"))
	require.ErrorIs(t, err, ErrMalformed)

	unknown, err := json.Marshal(domain.Notification{Type: "push", Target: "alice@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, m.Process(unknown), ErrMalformed)

	assert.Empty(t, sender.sent)
}

func TestMailer_ProcessSendFailureIsRetryable(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp timeout")}
	m := NewMailer(sender, "noreply@example.com")

	body, err := json.Marshal(publishedNotification("alice@example.com"))
	require.NoError(t, err)

	err = m.Process(body)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
}

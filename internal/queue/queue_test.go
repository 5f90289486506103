package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	"github.com/BruksfildServices01/lead-crm/internal/llm"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestPublishLeadCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := NewProducer(ch)

	err := p.PublishLeadCreated(context.Background(), LeadCreated{BookingID: "b1", UserID: 3, Name: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var got LeadCreated
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, uint(3), got.UserID)

	ch.err = errors.New("channel closed")
	assert.Error(t, p.PublishLeadCreated(context.Background(), LeadCreated{}))
}

type mockReplier struct {
	mock.Mock
}

func (m *mockReplier) AutoReply(ctx context.Context, in llm.LeadMessage) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type auditSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSink) Log(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestWorkerHandleDraftsReply(t *testing.T) {
	r := &mockReplier{}
	r.On("AutoReply", mock.Anything, llm.LeadMessage{Name: "Ana", Message: "Leak", Source: "WhatsApp"}).
		Return("Hi Ana!", nil)
	sink := &auditSink{}
	d := audit.NewDispatcher(sink)
	w := NewWorker(nil, r, d)

	body, _ := json.Marshal(LeadCreated{BookingID: "b1", UserID: 7, Name: "Ana", Problem: "Leak", Source: "WhatsApp"})
	require.NoError(t, w.Handle(context.Background(), body))
	d.Close()

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, "lead_auto_reply_drafted", ev.Action)
	assert.Equal(t, "b1", ev.EntityID)
	assert.Equal(t, uint(7), *ev.UserID)
	assert.Equal(t, map[string]any{"response": "Hi Ana!"}, ev.Metadata)
}

func TestWorkerHandleErrors(t *testing.T) {
	r := &mockReplier{}
	r.On("AutoReply", mock.Anything, mock.Anything).Return("", errors.New("llm down"))
	d := audit.NewDispatcher(&auditSink{})
	defer d.Close()
	w := NewWorker(nil, r, d)

	assert.Error(t, w.Handle(context.Background(), []byte("{bad")))
	assert.Error(t, w.Handle(context.Background(), []byte(`{"booking_id":"b1"}`)))
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	"github.com/BruksfildServices01/lead-crm/internal/llm"
)

// Replier drafts the first answer to a new lead.
type Replier interface {
	AutoReply(ctx context.Context, in llm.LeadMessage) (string, error)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker drafts an auto-reply for every created lead and records it in
// the audit log.
type Worker struct {
	ch      consumer
	replier Replier
	audit   *audit.Dispatcher
}

func NewWorker(ch consumer, replier Replier, dispatcher *audit.Dispatcher) *Worker {
	return &Worker{ch: ch, replier: replier, audit: dispatcher}
}

// Start consumes until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf("queue: worker waiting on %q", QueueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				log.Printf("queue: lead.created failed: %v", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var ev LeadCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	reply, err := w.replier.AutoReply(ctx, llm.LeadMessage{
		Name:    ev.Name,
		Message: ev.Problem,
		Source:  ev.Source,
	})
	if err != nil {
		return fmt.Errorf("auto reply for %s: %w", ev.BookingID, err)
	}

	userID := ev.UserID
	w.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "lead_auto_reply_drafted",
		Entity:   "booking",
		EntityID: ev.BookingID,
		Metadata: map[string]any{"response": reply},
	})
	return nil
}

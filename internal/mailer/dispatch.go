package mailer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/binkeyit/storefront/internal/mq"
)

// QueueSender implements Sender by publishing email jobs to the message
// queue instead of calling the provider in the request path.
type QueueSender struct {
	queue *mq.MQ
}

func NewQueueSender(queue *mq.MQ) *QueueSender {
	return &QueueSender{queue: queue}
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = q.queue.Publish(ctx, mq.EmailChannel, data, nil)
	return err
}

// Worker consumes queued email jobs and delivers them via the provider.
type Worker struct {
	queue  *mq.MQ
	sender Sender
	logger *slog.Logger
}

func NewWorker(queue *mq.MQ, sender Sender, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{queue: queue, sender: sender, logger: logger}
}

// Run blocks consuming the email channel until ctx is cancelled. Delivery
// failures are logged and the message is acked anyway: email is best-effort
// and a poisoned job must not wedge the queue.
func (w *Worker) Run(ctx context.Context) error {
	return w.queue.Subscribe(ctx, mq.EmailChannel, func(ctx context.Context, m mq.Message) error {
		var msg Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			w.logger.Error("dropping malformed email job", "msg_id", m.ID, "err", err)
			return nil
		}
		if err := w.sender.Send(ctx, msg); err != nil {
			w.logger.Error("email delivery failed", "to", msg.To, "subject", msg.Subject, "err", err)
		}
		return nil
	})
}

package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
)

// ErrDiscard marks a handler failure that redelivery cannot fix. Such
// deliveries are rejected without requeue (dead-lettered when the queue has a
// dead-letter exchange).
var ErrDiscard = errors.New("discard delivery")

// Handler processes one delivery body. A nil error acks the delivery, an
// error wrapping ErrDiscard rejects it, any other error nacks it back onto
// the queue.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage starts consuming queueName in the background. Deliveries
// are handled one after another until ctx is done or the channel closes.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				settle(ctx, d, d.Body, log, handler)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Acknowledger is the part of amqp.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(ctx context.Context, ack Acknowledger, body []byte, log *slog.Logger, handler Handler) {
	err := handler(ctx, body)
	if errors.Is(err, ErrDiscard) {
		log.Error("handler failed permanently, rejecting message", sl.Err(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error("failed to reject message", sl.Err(nackErr))
		}
		return
	}
	if err != nil {
		log.Warn("handler failed, requeueing message", sl.Err(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}

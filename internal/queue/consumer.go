package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// Sink stores consumed booking intents.  repository.IntentRepo and
// FileSink implement it.
type Sink interface {
	Insert(ctx context.Context, in *model.BookingIntent) error
}

// FileSink appends one line per intent to a log file.
type FileSink struct {
	Path string

	mu sync.Mutex
}

// NewFileSink writes to logs/booking_intent.log under dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Path: filepath.Join(dir, "logs", "booking_intent.log")}
}

func (s *FileSink) Insert(_ context.Context, in *model.BookingIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Booking intent | session=%s | unit=%s | kind=%s | auto=%t | target=%q\n",
		in.CreatedAt.UTC().Format(time.RFC3339), in.SessionID, in.UnitID, in.Kind, in.Auto, in.Target)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// Consumer reads the booking.intent queue and hands every event to a Sink.
type Consumer struct {
	url  string
	sink Sink
	log  *slog.Logger
}

func NewConsumer(url string, sink Sink, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{url: url, sink: sink, log: log.With("component", "intent-consumer")}
}

// Run connects to RabbitMQ, declares the booking.intent queue (durable) and
// consumes until ctx is cancelled.  Connection failures are retried with an
// exponential backoff capped at 30 seconds.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("failed to dial broker", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(BookingIntentQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingIntentQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.log.Error("handle message failed", "err", err)
				_ = d.Nack(false, false) // do not requeue, avoids a hot loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and stores it.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev BookingIntentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SessionID == "" || ev.UnitID == "" {
		return errors.New("event without session or unit")
	}
	rec := ev.Record()
	if err := c.sink.Insert(ctx, &rec); err != nil {
		return fmt.Errorf("store intent: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Package service holds the side effects of guest actions that run
// outside the request path.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/model"
	q "github.com/iliyamo/hospitality-booking/internal/queue"
)

// IntentRecorder counts intents; metrics.Metrics satisfies it.
type IntentRecorder interface {
	IntentDispatched(kind string, auto bool)
}

// IntentPublisher publishes a BookingIntentEvent for every intent a session
// takes.  Publishing is fire-and-forget: it runs in the background, errors
// are logged and never reach the guest.
type IntentPublisher struct {
	url     string
	timeout time.Duration
	rec     IntentRecorder
	log     *slog.Logger
	now     func() time.Time
	send    func(ctx context.Context, body []byte) error

	mu   sync.Mutex
	conn *amqp.Connection
	wg   sync.WaitGroup
}

// NewIntentPublisher publishes to the broker at url.  An empty url keeps
// counting intents but publishes nothing.
func NewIntentPublisher(url string, rec IntentRecorder, log *slog.Logger) *IntentPublisher {
	if log == nil {
		log = slog.Default()
	}
	p := &IntentPublisher{
		url:     url,
		timeout: 5 * time.Second,
		rec:     rec,
		log:     log.With("component", "intent-publisher"),
		now:     time.Now,
	}
	if url != "" {
		p.send = p.publish
	}
	return p
}

// IntentTaken implements session.Listener.
func (p *IntentPublisher) IntentTaken(ctx context.Context, sessionID string, in booking.Intent, c model.SearchCriteria) {
	if p.rec != nil {
		p.rec.IntentDispatched(string(in.Kind), in.Auto)
	}
	if p.send == nil {
		return
	}
	body, err := json.Marshal(q.NewBookingIntentEvent(sessionID, in, c, p.now()))
	if err != nil {
		p.log.Error("marshal event failed", "err", err)
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		if err := p.send(pubCtx, body); err != nil {
			p.log.Warn("publish failed", "session", sessionID, "unit", in.UnitID, "err", err)
		}
	}()
}

// publish sends body to the booking.intent queue as a persistent message.
// The broker connection is opened lazily and reopened after it drops.
func (p *IntentPublisher) publish(ctx context.Context, body []byte) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.BookingIntentQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.BookingIntentQueue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *IntentPublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// Close waits for in-flight publishes and closes the broker connection.
func (p *IntentPublisher) Close() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

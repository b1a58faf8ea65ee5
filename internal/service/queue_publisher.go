// Package queue_publisher publishes booking events to RabbitMQ.  Errors are
// logged and returned so callers can decide to ignore them without
// interrupting the booking flow.
package queue_publisher

import (
    "context"
    "encoding/json"
    "fmt"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/skyvoyage-seatmap/internal/logger"
    "github.com/iliyamo/skyvoyage-seatmap/internal/model"
    q "github.com/iliyamo/skyvoyage-seatmap/internal/queue"
)

// Publisher sends BookingConfirmedEvents to the booking.confirmed queue.
// The connection is opened lazily and reopened after a failure.  It
// satisfies booking.Notifier.
type Publisher struct {
    url string
    log *logger.Logger

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log *logger.Logger) *Publisher {
    return &Publisher{url: url, log: log.WithComponent("queue-publisher")}
}

// BookingConfirmed publishes the event for r.  Messages are persistent.
func (p *Publisher) BookingConfirmed(ctx context.Context, sessionID string, r model.Reservation) error {
    body, err := json.Marshal(q.NewBookingConfirmedEvent(sessionID, r))
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel()
    if err != nil {
        p.log.Warn("rabbitmq unavailable", "error", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        MessageId:    r.ID,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.BookingQueueName, false, false, pub); err != nil {
        p.log.Warn("rabbitmq publish failed", "booking_id", r.ID, "error", err)
        p.reset()
        return fmt.Errorf("publish: %w", err)
    }
    p.log.Debug("booking event published", "booking_id", r.ID)
    return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.reset()
    return nil
}

// channel returns an open channel with the queue declared; callers hold mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()

    conn, err := amqp.Dial(p.url)
    if err != nil {
        return nil, fmt.Errorf("dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("channel open: %w", err)
    }
    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(q.BookingQueueName, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, fmt.Errorf("queue declare: %w", err)
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}

package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/bucharest-discover/internal/queue"
)

// TicketPublisher announces committed purchases to downstream consumers.
type TicketPublisher interface {
	PublishTicketPurchased(ctx context.Context, ev q.TicketPurchasedEvent) error
}

// AMQPPublisher publishes to RabbitMQ, dialling per message. Purchases are
// rare enough that a pooled connection is not worth its reconnect logic.
type AMQPPublisher struct {
	URL string
}

// maxDialTimeout bounds the TCP dial and AMQP handshake when ctx carries no
// deadline of its own.
const maxDialTimeout = 30 * time.Second

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishTicketPurchased sends ev to the durable ticket.purchased queue as a
// persistent message. Errors are logged and returned so the caller can
// choose to ignore them.
func (p *AMQPPublisher) PublishTicketPurchased(ctx context.Context, ev q.TicketPurchasedEvent) error {
	timeout := maxDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	// DefaultDial keeps the socket deadline in place until the handshake
	// completes, so a broker that accepts and never answers cannot outlive ctx.
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()
	// Channel open and queue declare do not take a ctx; closing the
	// connection unblocks them once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.TicketPurchasedQueue, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.TicketID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.TicketPurchasedQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"ticket-api/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
}

// TicketCreatedEvent is the payload published for every new ticket.
type TicketCreatedEvent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           2 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer}
}

// PublishTicketCreated streams the ticket creation event to Kafka, keyed by id so
// every event for a ticket lands on the same partition.
func (p *Producer) PublishTicketCreated(ctx context.Context, ticket models.Ticket) error {
	msgBytes, err := json.Marshal(TicketCreatedEvent{
		ID:        ticket.ID,
		Name:      ticket.Name,
		Email:     ticket.Email,
		Message:   ticket.Message,
		CreatedAt: ticket.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(strconv.FormatInt(ticket.ID, 10)),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

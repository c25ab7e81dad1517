package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-api/internal/logger"
	"ticket-api/internal/models"
	"ticket-api/internal/tickets/db"
)

var (
	ErrMissingFields  = errors.New("missing required ticket fields")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrNoTicketsFound = errors.New("no ticket found")
)

type TicketDBLayer interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByID(ctx context.Context, id int64) (*models.Ticket, error)
	ListTickets(ctx context.Context, query models.TicketQuery) ([]models.Ticket, error)
	Ping(ctx context.Context) error
}

type TicketCache interface {
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	SetTicket(ctx context.Context, ticket *models.Ticket) error
}

type EventPublisher interface {
	PublishTicketCreated(ctx context.Context, ticket models.Ticket) error
}

// DefaultPublishTimeout bounds how long a create waits on the event publisher.
const DefaultPublishTimeout = 2 * time.Second

// TicketService holds the ticket rules. Cache and Events are optional.
type TicketService struct {
	DB             TicketDBLayer
	Cache          TicketCache
	Events         EventPublisher
	PublishTimeout time.Duration
	Logger         *logger.Logger
}

func NewTicketService(db TicketDBLayer, log *logger.Logger) *TicketService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TicketService{DB: db, PublishTimeout: DefaultPublishTimeout, Logger: log}
}

// SubmitTicket validates and stores a new ticket.
func (s *TicketService) SubmitTicket(ctx context.Context, req models.TicketCreateRequest) (*models.Ticket, error) {
	req = req.Normalize()
	if !req.Complete() {
		return nil, ErrMissingFields
	}

	ticket := &models.Ticket{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	s.Logger.LogDatabase("INSERT", "tickets", fmt.Sprintf("ticket %d created", ticket.ID))

	if s.Events != nil {
		s.publishCreated(ctx, *ticket)
	}

	return ticket, nil
}

// publishCreated sends the creation event on its own deadline. The row is already
// committed, so neither a slow broker nor a cancelled request may hold up the reply.
func (s *TicketService) publishCreated(ctx context.Context, ticket models.Ticket) {
	timeout := s.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.Events.PublishTicketCreated(pubCtx, ticket); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish ticket %d: %v", ticket.ID, err))
	}
}

// GetTicket looks the ticket up in the cache first, then the database.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	if id <= 0 {
		return nil, ErrTicketNotFound
	}

	if s.Cache != nil {
		cached, err := s.Cache.GetTicket(ctx, id)
		if err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Cache read for ticket %d failed: %v", id, err))
		} else if cached != nil {
			return cached, nil
		}
	}

	ticket, err := s.DB.GetTicketByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
	}

	if s.Cache != nil {
		if err := s.Cache.SetTicket(ctx, ticket); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Cache write for ticket %d failed: %v", id, err))
		}
	}

	return ticket, nil
}

// ListTickets returns the matching tickets, newest first. An empty result is
// reported as ErrNoTicketsFound.
func (s *TicketService) ListTickets(ctx context.Context, query models.TicketQuery) ([]models.Ticket, error) {
	tickets, err := s.DB.ListTickets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, ErrNoTicketsFound
	}
	return tickets, nil
}

func (s *TicketService) Healthy(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"ticket-api/internal/models"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("ticket not found")

type DB struct {
	Bun *bun.DB
}

// CreateTicket inserts the ticket and fills in the generated id. CreatedAt is set to
// the insertion time unless the caller already provided one.
func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	_, err := d.Bun.NewInsert().
		Model(ticket).
		Returning("id").
		Exec(ctx)
	return err
}

func (d *DB) GetTicketByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("t.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns the tickets matching the query, newest first.
func (d *DB) ListTickets(ctx context.Context, query models.TicketQuery) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0)
	q := d.Bun.NewSelect().Model(&tickets)

	if name, ok := query.NameFilter(); ok {
		q = q.Where("LOWER(t.name) LIKE LOWER(?) ESCAPE '!'", containsPattern(name))
	}
	if email, ok := query.EmailFilter(); ok {
		q = q.Where("LOWER(t.email) LIKE LOWER(?) ESCAPE '!'", containsPattern(email))
	}

	err := q.OrderExpr("t.created_at DESC, t.id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Bun.PingContext(ctx)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching v as a literal substring. Case
// folding is left to the database so the column and the pattern go through the
// same LOWER().
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Ticket is a support/contact submission. Rows are append-only.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Message   string    `bun:"message,type:text,notnull" json:"message"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// TicketCreateRequest is the payload accepted by POST /tickets.
type TicketCreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (r TicketCreateRequest) Normalize() TicketCreateRequest {
	return TicketCreateRequest{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Message: strings.TrimSpace(r.Message),
	}
}

// Complete reports whether name, email and message are all non-blank.
func (r TicketCreateRequest) Complete() bool {
	n := r.Normalize()
	return n.Name != "" && n.Email != "" && n.Message != ""
}

// TicketResponse wraps a freshly created ticket.
type TicketResponse struct {
	Message string  `json:"message"`
	Ticket  *Ticket `json:"ticket"`
}

// TicketQuery holds the optional list filters. Blank values count as absent.
type TicketQuery struct {
	Name  string
	Email string
}

func (q TicketQuery) NameFilter() (string, bool) {
	return optional(q.Name)
}

func (q TicketQuery) EmailFilter() (string, bool) {
	return optional(q.Email)
}

func optional(v string) (string, bool) {
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

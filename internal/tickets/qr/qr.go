package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"ticket-api/internal/models"
)

// DefaultSize is the edge length, in pixels, of generated codes.
const DefaultSize = 256

type QRGenerator struct {
	size int
}

func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = DefaultSize
	}
	return &QRGenerator{size: size}
}

// Payload is the text encoded in a ticket's QR code.
func Payload(ticket models.Ticket) string {
	return fmt.Sprintf("ticket:%d:%s", ticket.ID, ticket.Email)
}

// GeneratePNG renders the ticket reference as a PNG image.
func (q *QRGenerator) GeneratePNG(ticket models.Ticket) ([]byte, error) {
	png, err := qrcode.Encode(Payload(ticket), qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR for ticket %d: %w", ticket.ID, err)
	}
	return png, nil
}

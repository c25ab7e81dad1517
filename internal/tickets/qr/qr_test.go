package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-api/internal/models"
)

func TestPayload(t *testing.T) {
	assert.Equal(t, "ticket:7:ana@example.com", Payload(models.Ticket{ID: 7, Email: "ana@example.com"}))
}

func TestGeneratePNG(t *testing.T) {
	gen := NewQRGenerator(0)

	data, err := gen.GeneratePNG(models.Ticket{ID: 7, Email: "ana@example.com"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestGeneratePNGDiffersPerTicket(t *testing.T) {
	gen := NewQRGenerator(128)

	first, err := gen.GeneratePNG(models.Ticket{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	second, err := gen.GeneratePNG(models.Ticket{ID: 2, Email: "a@example.com"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketCreateRequestComplete(t *testing.T) {
	tests := []struct {
		name string
		req  TicketCreateRequest
		want bool
	}{
		{"all fields", TicketCreateRequest{Name: "Ana", Email: "ana@example.com", Message: "hi"}, true},
		{"missing name", TicketCreateRequest{Email: "ana@example.com", Message: "hi"}, false},
		{"blank email", TicketCreateRequest{Name: "Ana", Email: "   ", Message: "hi"}, false},
		{"missing message", TicketCreateRequest{Name: "Ana", Email: "ana@example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Complete())
		})
	}
}

func TestTicketCreateRequestNormalize(t *testing.T) {
	req := TicketCreateRequest{Name: "  Ana ", Email: "\tana@example.com\n", Message: " hi there "}
	assert.Equal(t, TicketCreateRequest{Name: "Ana", Email: "ana@example.com", Message: "hi there"}, req.Normalize())
}

func TestTicketQueryFilters(t *testing.T) {
	q := TicketQuery{Name: "grim", Email: "  "}

	name, ok := q.NameFilter()
	assert.True(t, ok)
	assert.Equal(t, "grim", name)

	_, ok = q.EmailFilter()
	assert.False(t, ok)

	_, ok = TicketQuery{}.NameFilter()
	assert.False(t, ok)
}

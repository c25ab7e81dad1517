package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"ticket-api/internal/models"
)

// TestRedisIntegration tests the ticket cache against a real Redis container
func TestRedisIntegration(t *testing.T) {
	if testing.Short() || os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping Redis integration test; set RUN_INTEGRATION_TESTS=1 to run it")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := Connect(ctx, host+":"+port.Port(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisTicketCache(client, time.Minute)
	ticket := &models.Ticket{ID: 7, Name: "Ana", Email: "ana@example.com", Message: "hi", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}

	require.NoError(t, c.SetTicket(ctx, ticket))

	got, err := c.GetTicket(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ticket.Name, got.Name)
	assert.True(t, ticket.CreatedAt.Equal(got.CreatedAt))

	ttl, err := client.TTL(ctx, ticketKey(7)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	miss, err := c.GetTicket(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, miss)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-api/internal/models"
)

// setupTestRedis creates a Redis client backed by miniredis
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestSetAndGetTicket(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTicketCache(client, 10*time.Minute)
	ctx := context.Background()

	ticket := &models.Ticket{
		ID:        42,
		Name:      "Ana",
		Email:     "ana@example.com",
		Message:   "hello",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, c.SetTicket(ctx, ticket))

	assert.True(t, mr.Exists("ticket:42"))
	assert.Equal(t, 10*time.Minute, mr.TTL("ticket:42"))

	got, err := c.GetTicket(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, ticket.Name, got.Name)
	assert.True(t, ticket.CreatedAt.Equal(got.CreatedAt))
}

func TestGetTicketMiss(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisTicketCache(client, time.Minute)

	got, err := c.GetTicket(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTicketExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTicketCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetTicket(ctx, &models.Ticket{ID: 1, Name: "a"}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetTicket(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTicketCorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTicketCache(client, time.Minute)

	require.NoError(t, mr.Set("ticket:5", "not json"))

	_, err := c.GetTicket(context.Background(), 5)
	assert.ErrorContains(t, err, "failed to unmarshal cached ticket")
}

func TestRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRedisTicketCache(client, time.Minute)
	mr.Close()

	_, err = c.GetTicket(context.Background(), 1)
	assert.Error(t, err)
}

func TestNilClient(t *testing.T) {
	c := &RedisTicketCache{}
	_, err := c.GetTicket(context.Background(), 1)
	assert.EqualError(t, err, "redis client not initialized")
	assert.EqualError(t, c.SetTicket(context.Background(), &models.Ticket{}), "redis client not initialized")
}

func TestConnectFailure(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1", "", 0)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

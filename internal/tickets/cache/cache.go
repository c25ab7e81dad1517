package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"ticket-api/internal/models"
)

// TicketKeyPrefix namespaces cached tickets in redis.
const TicketKeyPrefix = "ticket:"

// RedisTicketCache stores serialized tickets in redis. Tickets never change once
// written, so entries only ever expire.
type RedisTicketCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTicketCache(client *redis.Client, ttl time.Duration) *RedisTicketCache {
	return &RedisTicketCache{
		Client: client,
		TTL:    ttl,
	}
}

func ticketKey(id int64) string {
	return TicketKeyPrefix + strconv.FormatInt(id, 10)
}

// GetTicket returns the cached ticket, or nil with no error on a miss.
func (c *RedisTicketCache) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	if c.Client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	raw, err := c.Client.Get(ctx, ticketKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get ticket from Redis: %w", err)
	}

	var ticket models.Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ticket: %w", err)
	}
	return &ticket, nil
}

func (c *RedisTicketCache) SetTicket(ctx context.Context, ticket *models.Ticket) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}

	if err := c.Client.Set(ctx, ticketKey(ticket.ID), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store ticket in Redis: %w", err)
	}
	return nil
}

// Connect creates a redis client and verifies it answers PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

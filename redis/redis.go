package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const professionalListKey = "professionals:approved"

// New connects to Redis and verifies the connection.
func New(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	fmt.Println("✅ Connected to Redis")
	return client, nil
}

// GetProfessionalList returns the cached approved-professionals listing, or
// "" on a miss.
func GetProfessionalList(ctx context.Context, client *redis.Client, page, limit int) string {
	if client == nil {
		return ""
	}
	val, err := client.Get(ctx, listKey(page, limit)).Result()
	if err != nil {
		return ""
	}
	return val
}

// SetProfessionalList caches a serialized listing page for a short TTL.
func SetProfessionalList(ctx context.Context, client *redis.Client, page, limit int, payload string) {
	if client == nil {
		return
	}
	client.Set(ctx, listKey(page, limit), payload, 2*time.Minute)
}

// InvalidateProfessionalList drops all cached listing pages after an approval
// or registration changes the directory.
func InvalidateProfessionalList(ctx context.Context, client *redis.Client) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, professionalListKey+":*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func listKey(page, limit int) string {
	return fmt.Sprintf("%s:%d:%d", professionalListKey, page, limit)
}

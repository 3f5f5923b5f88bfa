// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PositionEvent mirrors the wire shape of domain.PositionEvent.
type PositionEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	sessionID := flag.String("session", "", "Report session ID (defaults to a random one)")
	lat := flag.Float64("lat", 18.5204, "Latitude of the device fix")
	lon := flag.Float64("lon", 73.8567, "Longitude of the device fix")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	id := uuid.New()
	if *sessionID != "" {
		parsed, err := uuid.Parse(*sessionID)
		if err != nil {
			log.Fatalf("Invalid session ID: %v", err)
		}
		id = parsed
	}

	event := PositionEvent{
		SessionID: id,
		Latitude:  *lat,
		Longitude: *lon,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:position:update",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: stream:position:update\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Session ID: %s\n", event.SessionID)
	fmt.Printf("   Coordinates: %.6f, %.6f\n", event.Latitude, event.Longitude)

	// Wait for the worker to mirror the fix into the cache
	fmt.Printf("\n⏳ Waiting for position:latest:%s...\n", event.SessionID)

	key := fmt.Sprintf("position:latest:%s", event.SessionID)
	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for cached position")
			return
		case <-ticker.C:
			val, err := client.Get(ctx, key).Result()
			if err != nil {
				continue
			}

			var cached map[string]interface{}
			if err := json.Unmarshal([]byte(val), &cached); err != nil {
				continue
			}

			fmt.Printf("\n✅ Position cached!\n")
			prettyJSON, _ := json.MarshalIndent(cached, "", "  ")
			fmt.Printf("%s\n", prettyJSON)
			return
		}
	}
}

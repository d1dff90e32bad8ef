//go:build ignore

// Публикует код брони в stream:checkin:scans, как это делает киоск, и ждёт результат посадки.
//
//	go run scripts/test_publish.go -route m1 -code AB12CD34E
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type scanFeedEvent struct {
	RouteID  string    `json:"route_id"`
	Code     string    `json:"code"`
	DeviceID string    `json:"device_id"`
	Scanned  time.Time `json:"scanned_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	routeID := flag.String("route", "m1", "Route ID")
	code := flag.String("code", "", "Booking code")
	deviceID := flag.String("device", "test-kiosk", "Kiosk device ID")
	flag.Parse()

	if *code == "" {
		log.Fatal("-code is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := scanFeedEvent{
		RouteID:  *routeID,
		Code:     *code,
		DeviceID: *deviceID,
		Scanned:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// читаем результаты только после публикации
	lastID := "$"
	if entries, err := client.XRevRangeN(ctx, "stream:checkin:results", "+", "-", 1).Result(); err == nil && len(entries) > 0 {
		lastID = entries[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:checkin:scans",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish scan: %v", err)
	}

	fmt.Printf("Scan published: stream=stream:checkin:scans id=%s route=%s code=%s\n", id, event.RouteID, event.Code)
	fmt.Println("Waiting for result in stream:checkin:results...")

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:checkin:results", lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read results: %v", err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var result map[string]interface{}
				if err := json.Unmarshal([]byte(raw), &result); err != nil {
					continue
				}
				if result["device_id"] != event.DeviceID {
					continue
				}

				pretty, _ := json.MarshalIndent(result, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for result")
}

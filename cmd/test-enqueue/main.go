// test-enqueue pushes a tick for an existing session onto the queue,
// for exercising the worker by hand without a running API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jwebster45206/worldsim/internal/queue"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session-id>\n", os.Args[0])
		os.Exit(1)
	}

	sessionID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("invalid session id: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	client := queue.NewClient(redisURL, "worldsim:ticks")
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	if err := client.Enqueue(ctx, sessionID); err != nil {
		log.Fatalf("failed to enqueue tick: %v", err)
	}

	depth, err := client.Depth(ctx)
	if err != nil {
		log.Fatalf("failed to read queue depth: %v", err)
	}

	fmt.Printf("enqueued tick for session %s (queue depth: %d)\n", sessionID, depth)
}

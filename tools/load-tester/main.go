package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	targetURL := flag.String("url", "http://localhost:8080/logs/submit", "Target URL for submission")
	token := flag.String("token", "", "Signed capability token (mint one with token-gen)")
	producers := flag.Int("producers", 5, "Number of distinct producer identities")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 1000, "Requests per second limit")
	batchSize := flag.Int("batch", 10, "Entries per submission")
	flag.Parse()

	if *token == "" {
		log.Fatal("a capability token is required (-token)")
	}

	// Fixed set of producer identities so the run also exercises the
	// provisioning race across workers.
	identities := make([]string, *producers)
	for i := range identities {
		identities[i] = "load-" + uuid.NewString()
	}

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Producers: %d, Concurrency: %d, Duration: %s, RPS: %d", *producers, *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 100) // Allow bursts up to 100

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 5 * time.Second,
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
					limiter.Wait(ctx) // Wait for token from rate limiter

					identity := identities[workerID%len(identities)]
					payload := buildBatch(workerID, *batchSize)

					req, err := http.NewRequestWithContext(ctx, http.MethodPost, *targetURL, bytes.NewBufferString(payload))
					if err != nil {
						continue // Should not happen
					}
					req.Header.Set("Content-Type", "application/json")
					req.Header.Set("Authorization", "Bearer "+identity)
					req.Header.Set("X-Capability-Token", *token)

					resp, err := client.Do(req)
					if err != nil {
						errorCount.Add(1)
						continue
					}

					if resp.StatusCode == http.StatusOK {
						successCount.Add(1)
					} else {
						errorCount.Add(1)
					}
					resp.Body.Close()
				}
			}
		}(i)
	}

	wg.Wait()

	log.Printf("Load test finished. Success: %d, Errors: %d", successCount.Load(), errorCount.Load())
}

func buildBatch(workerID, size int) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < size; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"timestamp": %q, "message": "load test entry from worker %d", "level": "info"}`,
			time.Now().Format(time.RFC3339Nano), workerID)
	}
	buf.WriteByte(']')
	return buf.String()
}

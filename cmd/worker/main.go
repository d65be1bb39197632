package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textbook/internal/cloudinary"
	"textbook/internal/config"
	"textbook/internal/metrics"
	"textbook/internal/queue"
	"textbook/internal/receipt"
	"textbook/internal/request"
	"textbook/internal/store"
)

// Worker consumes receipt jobs, renders the request card to PNG,
// uploads it to Cloudinary, and stores the resulting URL on the record.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "textbook:receipts")
	}

	repo := request.NewRepository(db.Client)

	var cdn *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdn = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured; receipts will be rendered but not uploaded")
	}

	metrics.Register()

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for receipt jobs...")
	for msg := range messages {
		if msg.Type != "receipt" {
			continue
		}

		id := string(msg.Body)
		log.Printf("job %s: rendering receipt for %s", msg.ID, id)

		req, err := repo.Get(ctx, id)
		if err != nil {
			log.Printf("job %s: fetch request %s failed: %v", msg.ID, id, err)
			continue
		}

		img, err := receipt.Render(req)
		if err != nil {
			log.Printf("job %s: render failed: %v", msg.ID, err)
			continue
		}

		if cdn == nil {
			continue
		}

		result, err := cdn.UploadBytes(ctx, img, receipt.FileName(req))
		if err != nil {
			log.Printf("job %s: upload failed: %v", msg.ID, err)
			continue
		}

		url := result.SecureURL
		if err := repo.UpdateFields(ctx, id, request.Update{ImageURL: &url}); err != nil {
			log.Printf("job %s: store image url failed: %v", msg.ID, err)
			continue
		}

		metrics.ReceiptsRenderedTotal.Inc()
		log.Printf("job %s: receipt uploaded as %s", msg.ID, result.PublicID)

		time.Sleep(10 * time.Millisecond)
	}

	log.Println("worker stopped")
}

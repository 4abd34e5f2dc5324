package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/weblarek/internal/config"
	"github.com/example/weblarek/internal/infrastructure/journal"
	"github.com/example/weblarek/internal/infrastructure/kafka"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[Journal] Invalid configuration: %v", err)
	}
	if !cfg.KafkaEnabled() {
		log.Fatal("[Journal] KAFKA_BROKERS environment variable is required")
	}

	log.Println("[Journal] ========================================")
	log.Println("[Journal] Storefront event tail")
	log.Println("[Journal] ========================================")
	log.Printf("[Journal] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Journal] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Journal] Group: %s", cfg.KafkaGroup)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup)
	defer consumer.Close()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[Journal] Shutting down...")
		cancel()
	}()

	if err := consumer.Consume(ctx, handleEntry); err != nil && ctx.Err() == nil {
		log.Fatalf("[Journal] Consumer error: %v", err)
	}
}

func handleEntry(_ context.Context, key, value []byte) error {
	var entry journal.Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		return err
	}
	log.Printf("[Journal] session=%s v%d %s %s", key, entry.Version, entry.Kind, entry.Data)
	return nil
}

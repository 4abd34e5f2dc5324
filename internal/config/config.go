package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultAPIOrigin = "https://larek-api.nomoreparties.co"

type Config struct {
	HTTPAddr        string
	APIURL          string
	CDNURL          string
	APITimeout      time.Duration
	ShutdownTimeout time.Duration
	JournalSize     int
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaGroup      string
}

// FromEnv reads the configuration from environment variables
func FromEnv() (Config, error) {
	origin := strings.TrimRight(getEnv("API_ORIGIN", defaultAPIOrigin), "/")

	apiTimeout, err := getEnvInt("API_TIMEOUT_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)
	if err != nil {
		return Config{}, err
	}
	journalSize, err := getEnvInt("JOURNAL_SIZE", 500)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		APIURL:          getEnv("API_URL", origin+"/api/weblarek"),
		CDNURL:          getEnv("CDN_URL", origin+"/content/weblarek"),
		APITimeout:      time.Duration(apiTimeout) * time.Second,
		ShutdownTimeout: time.Duration(shutdownTimeout) * time.Second,
		JournalSize:     journalSize,
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "weblarek-events"),
		KafkaGroup:      getEnv("KAFKA_GROUP", "weblarek-journal"),
	}, nil
}

// KafkaEnabled reports whether journal entries are forwarded to Kafka
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

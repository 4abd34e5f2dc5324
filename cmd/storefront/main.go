package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/example/weblarek/internal/api"
	"github.com/example/weblarek/internal/appstate"
	"github.com/example/weblarek/internal/config"
	"github.com/example/weblarek/internal/eventbus"
	"github.com/example/weblarek/internal/infrastructure/journal"
	"github.com/example/weblarek/internal/infrastructure/kafka"
	"github.com/example/weblarek/internal/infrastructure/weblarek"
	"github.com/example/weblarek/internal/loop"
	"github.com/example/weblarek/internal/realtime"
	"github.com/example/weblarek/internal/view"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[Storefront] Invalid configuration: %v", err)
	}

	log.Println("[Storefront] ========================================")
	log.Println("[Storefront] WEB-larek storefront")
	log.Println("[Storefront] ========================================")
	log.Printf("[Storefront] API: %s", cfg.APIURL)
	log.Printf("[Storefront] CDN: %s", cfg.CDNURL)

	// Journal, forwarded to Kafka when brokers are configured
	session := uuid.New().String()
	var publisher journal.Publisher
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[Storefront] Kafka: %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[Storefront] Kafka: disabled, journal kept in memory only")
	}
	eventJournal := journal.New(session, cfg.JournalSize, publisher)

	// Core: bus, store, loop
	bus := eventbus.New()
	bus.SubscribeAll(eventJournal.Handler())
	store := appstate.New(bus)
	eventLoop := loop.New(64)
	client := weblarek.NewClient(cfg.APIURL, cfg.CDNURL, cfg.APITimeout)

	// View
	hub := realtime.NewHub()
	pusher := api.NewScreenPusher(hub.Broadcast)
	presenter := view.NewPresenter(view.PresenterConfig{
		Bus:           bus,
		Store:         store,
		Orders:        client,
		Scheduler:     eventLoop,
		Sink:          pusher,
		SubmitTimeout: cfg.APITimeout,
	})
	presenter.Bind()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := eventLoop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[Storefront] Event loop stopped: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		pusher.Run(ctx)
	}()

	// Load the catalog off the loop and apply it on the loop
	eventLoop.Go(func() func() {
		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.APITimeout)
		defer fetchCancel()
		products, err := client.FetchCatalog(fetchCtx)
		return func() {
			if err != nil {
				log.Printf("[Storefront] Failed to load catalog: %v", err)
				return
			}
			if err := store.SetCatalog(products); err != nil {
				log.Printf("[Storefront] Rejected catalog: %v", err)
				return
			}
			log.Printf("[Storefront] Catalog loaded: %d products", len(products))
		}
	})

	handlers := api.NewHandlers(api.HandlersConfig{
		Loop:      eventLoop,
		Presenter: presenter,
		Catalog:   store,
		Products:  client,
		Journal:   eventJournal,
		Hub:       hub,
		Sink:      pusher,
	})
	router := api.NewRouter(api.RouterConfig{Handlers: handlers})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[Storefront] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Storefront] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Storefront] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Storefront] Shutdown error: %v", err)
	}

	cancel() // stop the loop and the hub
	wg.Wait()
	presenter.Unbind()
	log.Printf("[Storefront] Journal holds %d events", len(eventJournal.Entries()))
}

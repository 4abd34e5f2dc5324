package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/infrastructure/journal"
	"github.com/example/weblarek/internal/infrastructure/weblarek"
	"github.com/example/weblarek/internal/realtime"
	"github.com/example/weblarek/internal/render"
	"github.com/example/weblarek/internal/view"
	"github.com/gorilla/websocket"
)

// Runner executes a task on the event loop and waits for it
type Runner interface {
	Do(ctx context.Context, task func()) error
}

// Presenter is the part of view.Presenter the shell drives
type Presenter interface {
	Do(a view.Action) error
	Screen() view.Screen
}

// Catalog looks products up in the loaded catalog
type Catalog interface {
	Product(id string) (product.Product, bool)
}

type ProductFetcher interface {
	FetchProduct(ctx context.Context, id string) (product.Product, error)
}

type EventLog interface {
	Entries() []journal.Entry
	EntriesOf(kind string) []journal.Entry
}

type HandlersConfig struct {
	Loop      Runner
	Presenter Presenter
	Catalog   Catalog
	Products  ProductFetcher
	Journal   EventLog
	Hub       *realtime.Hub
	Sink      view.Sink
}

type Handlers struct {
	loop      Runner
	presenter Presenter
	catalog   Catalog
	products  ProductFetcher
	journal   EventLog
	hub       *realtime.Hub
	sink      view.Sink
	upgrader  websocket.Upgrader
}

func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		loop:      cfg.Loop,
		presenter: cfg.Presenter,
		catalog:   cfg.Catalog,
		products:  cfg.Products,
		journal:   cfg.Journal,
		hub:       cfg.Hub,
		sink:      cfg.Sink,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Document Handlers

func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	screen, err := h.screen(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := render.Document(&buf, screen); err != nil {
		log.Printf("[API] Failed to render document: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	respondHTML(w, http.StatusOK, buf.Bytes())
}

// PostAction runs one user gesture and answers with the re-rendered body
func (h *Handlers) PostAction(w http.ResponseWriter, r *http.Request) {
	var action view.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var screen view.Screen
	var actionErr error
	err := h.loop.Do(r.Context(), func() {
		actionErr = h.presenter.Do(action)
		screen = h.presenter.Screen()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if actionErr != nil {
		switch {
		case errors.Is(actionErr, view.ErrUnknownProduct):
			http.Error(w, actionErr.Error(), http.StatusNotFound)
		default:
			http.Error(w, actionErr.Error(), http.StatusBadRequest)
		}
		return
	}

	var buf bytes.Buffer
	if err := render.Body(&buf, screen); err != nil {
		log.Printf("[API] Failed to render body: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	respondHTML(w, http.StatusOK, buf.Bytes())
}

// ServeWS upgrades the connection and registers it for screen pushes
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade failed: %v", err)
		return
	}

	select {
	case h.hub.Register <- conn:
	case <-h.hub.Done():
		conn.Close()
		return
	}

	// Push the current screen so the new client starts in sync
	if h.sink != nil {
		if err := h.loop.Do(r.Context(), func() { h.sink.Show(h.presenter.Screen()) }); err != nil {
			log.Printf("[API] Initial screen push failed: %v", err)
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.hub.Unregister <- conn:
	case <-h.hub.Done():
	}
}

// Product Handlers

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	var found product.Product
	var ok bool
	if err := h.loop.Do(r.Context(), func() { found, ok = h.catalog.Product(id) }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if ok {
		respondJSON(w, http.StatusOK, found)
		return
	}

	found, err := h.products.FetchProduct(r.Context(), id)
	if err != nil {
		var apiErr *weblarek.APIError
		switch {
		case errors.Is(err, weblarek.ErrNotFound):
			http.Error(w, "Product not found", http.StatusNotFound)
		case errors.As(err, &apiErr):
			http.Error(w, apiErr.Message, http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	respondJSON(w, http.StatusOK, found)
}

// Journal Handlers

func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	var entries []journal.Entry
	if kind := r.URL.Query().Get("kind"); kind != "" {
		entries = h.journal.EntriesOf(kind)
	} else {
		entries = h.journal.Entries()
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handlers) screen(ctx context.Context) (view.Screen, error) {
	var screen view.Screen
	err := h.loop.Do(ctx, func() { screen = h.presenter.Screen() })
	return screen, err
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

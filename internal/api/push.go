package api

import (
	"context"
	"log"

	"github.com/example/weblarek/internal/render"
	"github.com/example/weblarek/internal/view"
)

// ScreenPusher is the presenter's sink. Show never blocks: it parks the
// screen in a single slot, replacing any screen not yet rendered, and Run
// renders and broadcasts from its own goroutine.
type ScreenPusher struct {
	screens   chan view.Screen
	broadcast chan<- []byte
}

// NewScreenPusher creates a pusher that sends rendered bodies to broadcast
func NewScreenPusher(broadcast chan<- []byte) *ScreenPusher {
	return &ScreenPusher{
		screens:   make(chan view.Screen, 1),
		broadcast: broadcast,
	}
}

// Show must be called from a single goroutine, the event loop.
func (p *ScreenPusher) Show(s view.Screen) {
	select {
	case p.screens <- s:
		return
	default:
	}

	// Slot taken by an older screen: drop it and park the new one
	select {
	case <-p.screens:
	default:
	}
	select {
	case p.screens <- s:
	default:
	}
}

// Run broadcasts parked screens until ctx is cancelled
func (p *ScreenPusher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.screens:
			body, err := render.BodyString(s)
			if err != nil {
				log.Printf("[API] Failed to render screen: %v", err)
				continue
			}
			select {
			case p.broadcast <- []byte(body):
			case <-ctx.Done():
				return
			}
		}
	}
}

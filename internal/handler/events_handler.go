package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"canteen-counter/internal/model"
	"canteen-counter/internal/sync"
)

// EventsHandler exposes the change stream over Server-Sent Events. Each
// connected client holds one hub subscription for the requested resource
// family; the subscription is disposed when the client goes away.
type EventsHandler struct {
	hub    *sync.Hub
	logger zerolog.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(hub *sync.Hub, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger.With().Str("handler", "events").Logger(),
	}
}

// heartbeatInterval keeps proxies from closing quiet streams.
const heartbeatInterval = 15 * time.Second

// Stream handles GET /api/events/{family} requests.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	family, err := sync.ParseFamily(r.PathValue("family"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "unknown resource family", h.logger)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "streaming unsupported", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Events and resync hints funnel into one channel so only this
	// goroutine writes the response.
	out := make(chan []byte, 16)
	sub := h.hub.SubscribeWithResync(family,
		func(ev sync.Event) {
			data, err := json.Marshal(ev)
			if err != nil {
				return
			}
			select {
			case out <- data:
			default:
			}
		},
		func() {
			select {
			case out <- nil:
			default:
			}
		},
	)
	defer sub.Dispose()

	// A fresh stream starts with a resync hint: the client fetches current
	// state before trusting incremental events.
	fmt.Fprint(w, "event: resync\ndata: {}\n\n")
	flusher.Flush()

	h.logger.Debug().Str("family", string(family)).Msg("event stream opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Str("family", string(family)).Msg("event stream closed")
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case data := <-out:
			if data == nil {
				fmt.Fprint(w, "event: resync\ndata: {}\n\n")
			} else {
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			}
			flusher.Flush()
		}
	}
}

package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"patient-management-service/internal/services"
)

// EventsHandler streams patient change events as server-sent events.
type EventsHandler struct {
	events    services.EventServiceContract
	logger    zerolog.Logger
	keepAlive time.Duration
}

func NewEventsHandler(es services.EventServiceContract, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		events:    es,
		logger:    logger,
		keepAlive: 15 * time.Second,
	}
}

func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := h.events.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.events.Unsubscribe(sub)

		fmt.Fprintf(w, "data: %s\n\n", "connected")
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()
		for {
			select {
			case event, ok := <-sub:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					h.logger.Error().Err(err).Msg("encoding event")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			}
			if err := w.Flush(); err != nil {
				h.logger.Debug().Err(err).Msg("event stream closed by client")
				return
			}
		}
	}))
	return nil
}

func RegisterEventRoutes(router fiber.Router, eh *EventsHandler) {
	router.Get("/events", eh.Stream)
}

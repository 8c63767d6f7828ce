package handler

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/api/metrics"
	"github.com/leadhub/lead-tracker/internal/core/ports"
	"github.com/leadhub/lead-tracker/internal/infrastructure/ws"
)

// WSHandler upgrades authenticated requests to websocket connections and
// hands them to the hub.
type WSHandler struct {
	hub      *ws.Hub
	leads    ports.LeadService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, leads ports.LeadService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:   hub,
		leads: leads,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve handles GET /v1/ws. The connection stays open until the client
// disconnects; events arrive according to the caller's user, role, and
// subscribed lead rooms.
func (h *WSHandler) Serve(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	metrics.WebsocketConnections.Inc()
	defer metrics.WebsocketConnections.Dec()

	client := ws.NewClient(h.hub, conn, actor, h.leads, h.log)
	client.Run(c.Request().Context())
	return nil
}

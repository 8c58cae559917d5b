// FilePath: api/resources/api.resource.ws.go
package resources

import (
	"net/http"
	"time"

	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/gorilla/websocket"
	nuts "github.com/vaudience/go-nuts"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventHandlers bridges hub subscriptions onto WebSocket connections
type EventHandlers struct {
	service *fieldservice.FieldService
	hub     *hub.Hub
}

// clientMessage is what subscribers may send upstream
type clientMessage struct {
	Event string `json:"event"`
}

// Serve upgrades the connection, registers a hub subscriber and pumps events
// until either side goes away. A client may send {"event":
// "request_latest_data"} at any time to get an immediate snapshot alongside
// the live stream.
func (h *EventHandlers) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		nuts.L.Errorf("[WS] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	// Snapshot pushes requested by the read pump bypass the hub so they
	// cannot be dropped under broadcast backpressure.
	direct := make(chan hub.Event, 4)
	stop := make(chan struct{})

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	go h.writePump(conn, sub, direct, stop)

	direct <- hub.Event{Event: "connected", Data: map[string]string{
		"subscriber_id": sub.ID(),
	}}

	// Read pump; owns the connection lifetime.
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Event {
		case "request_latest_data":
			readings, err := h.service.LatestReadings(r.Context())
			if err != nil {
				nuts.L.Warnf("[WS] Snapshot for %s failed: %v", sub.ID(), err)
				continue
			}
			select {
			case direct <- hub.Event{Event: "latest_sensor_data", Data: readings}:
			default:
				nuts.L.Debugf("[WS] Snapshot for %s dropped, client too slow", sub.ID())
			}
		default:
			nuts.L.Debugf("[WS] Ignoring unknown client event %q from %s", msg.Event, sub.ID())
		}
	}

	close(stop)
}

// writePump serializes all writes to the connection: hub events, direct
// snapshot pushes and keepalive pings.
func (h *EventHandlers) writePump(conn *websocket.Conn, sub *hub.Subscriber, direct <-chan hub.Event, stop <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				nuts.L.Debugf("[WS] Write to %s failed: %v", sub.ID(), err)
				return
			}
		case evt := <-direct:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				nuts.L.Debugf("[WS] Write to %s failed: %v", sub.ID(), err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

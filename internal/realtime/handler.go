package realtime

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Handler struct {
	hub     *Hub
	origins []string
}

// NewHandler accepts upgrades from the given origin patterns. An empty list
// allows same-origin only.
func NewHandler(hub *Hub, origins []string) *Handler {
	return &Handler{hub: hub, origins: origins}
}

// Serve upgrades an authenticated request and streams the user's events
// until either side closes. Client frames are ignored.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		http.Error(w, `{"error":"Authentication required"}`, http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.hub.log.Debug("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	c := &client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.hub.register(c)
	defer h.hub.unregister(c)

	ctx := conn.CloseRead(r.Context())
	c.writePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}

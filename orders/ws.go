package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"andariego/apperr"
	"andariego/config"
	"andariego/guard"
	"andariego/middleware"
	"andariego/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

// Hub tracks websocket subscribers per order so status changes can be pushed
// to waiting clients. Upgrade requests skip the normal auth middleware, so
// the hub validates tokens itself.
type Hub struct {
	subscribers  map[string][]*websocket.Conn
	mu           sync.Mutex
	auth         *middleware.Auth
	enforceOwner bool
}

func NewHub(cfg *config.Config, auth *middleware.Auth) *Hub {
	return &Hub{
		subscribers:  make(map[string][]*websocket.Conn),
		auth:         auth,
		enforceOwner: cfg.EnforceOrderOwner,
	}
}

// StatusUpdates subscribes the caller to status changes of one order.
// Browsers cannot set headers on websocket connects, so the token is also
// accepted as a query parameter.
func (h *Hub) StatusUpdates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		if t := r.URL.Query().Get("token"); t != "" {
			tokenString = "Bearer " + t
		}
	}
	claims, err := h.auth.ValidateJWT(tokenString)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if h.enforceOwner {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		order, err := fetchOrder(ctx, orderID)
		if err != nil {
			utils.RespondWithError(w, apperr.Status(err), err.Error())
			return
		}
		if err := guard.RequireOwnerOrAdmin(order.UserID, claims.UserID, claims.Role); err != nil {
			utils.RespondWithError(w, apperr.Status(err), "You do not own this order")
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.subscribers[orderID] = append(h.subscribers[orderID], conn)
	h.mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	conns := h.subscribers[orderID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	h.subscribers[orderID] = newList
	h.mu.Unlock()

	conn.Close()
}

// BroadcastStatus pushes the new status to every subscriber of the order.
// Dead connections are dropped on write failure.
func (h *Hub) BroadcastStatus(orderID, status string) {
	msg, err := json.Marshal(map[string]string{"orderid": orderID, "status": status})
	if err != nil {
		log.Println("BroadcastStatus marshal error:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[orderID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	h.subscribers[orderID] = newList
}

package websockets

import (
	"encoding/json"
	"log"
)

// event is a queued broadcast. An empty departmentID reaches every client;
// otherwise clients scoped to another department are skipped.
type event struct {
	departmentID string
	message      []byte
}

// subscription scopes a client to a department channel.
type subscription struct {
	client       *Client
	departmentID string
}

type Hub struct {
	clients map[*Client]bool

	// departmentOf holds each client's department scope. Clients without an
	// entry receive every event.
	departmentOf map[*Client]string

	register chan *Client

	unregister chan *Client

	subscribe chan subscription

	events chan event
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		departmentOf: make(map[*Client]string),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		subscribe:    make(chan subscription),
		events:       make(chan event),
	}
}

// RegisterDepartmentClient scopes a client to a department channel; from then
// on the client only receives that department's events and unscoped ones.
func (h *Hub) RegisterDepartmentClient(client *Client, departmentID string) {
	h.subscribe <- subscription{client: client, departmentID: departmentID}
}

// BroadcastEvent marshals a lifecycle event and hands it to the hub for
// delivery. An event carrying a department reaches that department's
// subscribers and every unscoped client, exactly once each; an event without
// one reaches every client.
func (h *Hub) BroadcastEvent(msgType MessageType, departmentID string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", msgType, err)
		return
	}

	message, err := json.Marshal(Message{Type: msgType, Data: payload, DepartmentID: departmentID})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msgType, err)
		return
	}

	h.events <- event{departmentID: departmentID, message: message}
}

// NotifyRequestsExpired publishes the outcome of an expiry sweep.
func (h *Hub) NotifyRequestsExpired(count int) {
	h.BroadcastEvent(TypeRequestsExpired, "", struct {
		Count int `json:"count"`
	}{Count: count})
}

// Run owns the client and scope maps: registration, subscription, delivery
// and teardown all happen on this goroutine, so a client's send channel is
// closed at most once and never written to after closing.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.departmentOf, client)
				close(client.send)
			}

		case sub := <-h.subscribe:
			if h.clients[sub.client] {
				h.departmentOf[sub.client] = sub.departmentID
			}

		case ev := <-h.events:
			for client := range h.clients {
				if scope, ok := h.departmentOf[client]; ok && ev.departmentID != "" && scope != ev.departmentID {
					continue
				}
				select {
				case client.send <- ev.message:
				default:
					// The client cannot keep up. Closing its connection makes
					// both pumps exit; the read pump then unregisters it.
					delete(h.clients, client)
					delete(h.departmentOf, client)
					client.conn.Close()
				}
			}
		}
	}
}

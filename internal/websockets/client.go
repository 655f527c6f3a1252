package websockets

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

type MessageType string

const (
	TypeRequestCreated   MessageType = "request.created"
	TypeRequestApproved  MessageType = "request.approved"
	TypeRequestRejected  MessageType = "request.rejected"
	TypeRequestCancelled MessageType = "request.cancelled"
	TypeRequestUpdated   MessageType = "request.updated"
	TypeRequestsExpired  MessageType = "requests.expired"
	TypeAccountReviewed  MessageType = "account.reviewed"
	TypeSubscribe        MessageType = "department.subscribe"
	TypeError            MessageType = "error"
	TypePing             MessageType = "ping"
	TypePong             MessageType = "pong"
)

type ClientType string

const (
	ClientTypeEmployee ClientType = "employee"
	ClientTypeManager  ClientType = "manager"
	ClientTypeAdmin    ClientType = "admin"
)

type Message struct {
	Type         MessageType     `json:"type"`
	Data         json.RawMessage `json:"data"`
	DepartmentID string          `json:"department_id,omitempty"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID string

	clientType ClientType

	departmentID string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, clientType ClientType) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		userID:     userID,
		clientType: clientType,
	}
}

func (c *Client) SetDepartmentID(departmentID string) {
	c.departmentID = departmentID
	if departmentID != "" {
		c.hub.RegisterDepartmentClient(c, departmentID)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var wsMessage Message
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case TypeSubscribe:
			var subscribeData struct {
				DepartmentID string `json:"department_id"`
			}
			if err := json.Unmarshal(wsMessage.Data, &subscribeData); err != nil {
				log.Printf("Error unmarshaling subscribe data: %v", err)
				continue
			}
			c.SetDepartmentID(subscribeData.DepartmentID)

		case TypePing:
			pongMsg, _ := json.Marshal(Message{Type: TypePong})
			select {
			case c.send <- pongMsg:
			default:
			}

		default:
			// Lifecycle events only ever originate from the server; anything
			// else a client sends is dropped.
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func ServeWs(hub *Hub, conn *websocket.Conn, userID string, clientType ClientType) {
	client := NewClient(hub, conn, userID, clientType)

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

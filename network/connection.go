// network/connection.go
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/robotserver/models"
)

// Event types pushed to watcher connections.
const (
	EventHello = "hello"
	EventState = "state"
)

// Event is one JSON message on the watcher stream. State carries the robot
// snapshot that triggered the event.
type Event struct {
	Type  string               `json:"type"`
	State models.StateResponse `json:"state"`
}

type Connection interface {
	SendEvent(evt Event) error
	Close() error
	RemoteAddr() net.Addr
	SetReadDeadline(deadline time.Duration) error
	NextMessage() error
}

// WSConnection wraps a gorilla websocket and serializes writes.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) SendEvent(evt Event) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(evt)
}

// NextMessage reads and discards one client message. Watchers are receive-only;
// the read loop only exists to notice pings and disconnects.
func (c *WSConnection) NextMessage() error {
	_, _, err := c.conn.ReadMessage()
	return err
}

func (c *WSConnection) SetReadDeadline(deadline time.Duration) error {
	return c.conn.SetReadDeadline(time.Now().Add(deadline))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

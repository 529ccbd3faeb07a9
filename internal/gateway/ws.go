package gateway

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voxelagent.ai/internal/protocol"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

var ErrClosed = errors.New("gateway closed")

// Client is the websocket gateway. A reader goroutine decodes inbound
// messages onto the events channel; a writer goroutine drains the outbound
// queue with a write deadline.
type Client struct {
	conn *websocket.Conn
	log  *log.Logger

	events chan protocol.Event
	out    chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func Dial(url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:   conn,
		log:    logger,
		events: make(chan protocol.Event, 256),
		out:    make(chan []byte, 256),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

func (c *Client) Events() <-chan protocol.Event { return c.events }

func (c *Client) Send(cmd protocol.Command) error {
	b, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	case c.out <- b:
		return nil
	}
}

// Close is idempotent: the writer goroutine closes on write errors while
// the owner closes at shutdown, and both paths may run concurrently.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := protocol.DecodeEvent(msg)
		if err != nil {
			if c.log != nil {
				c.log.Printf("drop malformed message: %v", err)
			}
			continue
		}
		if ev == nil {
			// Unrecognized type; the stream keeps going.
			continue
		}
		select {
		case <-c.done:
			return
		case c.events <- ev:
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}

package liveavatar

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChunkSize is one second of 16-bit mono PCM at 24kHz.
const ChunkSize = 96_000

const writeTimeout = 5 * time.Second

type event struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Audio   string `json:"audio,omitempty"`
}

type conn struct {
	sessionID string
	ws        *websocket.Conn
	now       func() time.Time

	writeMu   sync.Mutex
	counter   int
	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(sessionID string, ws *websocket.Conn, now func() time.Time) *conn {
	return &conn{
		sessionID: sessionID,
		ws:        ws,
		now:       now,
		closed:    make(chan struct{}),
	}
}

// nextEventID must be called with writeMu held.
func (c *conn) nextEventID() string {
	c.counter++
	t := c.now()
	return fmt.Sprintf("%s_%d_%s%06d", short(c.sessionID), c.counter, t.Format("150405"), t.Nanosecond()/1000)
}

func (c *conn) send(ctx context.Context, evt event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writeLocked(ctx, evt)
}

func (c *conn) writeLocked(ctx context.Context, evt event) error {
	select {
	case <-c.closed:
		return fmt.Errorf("connection closed")
	default:
	}

	evt.EventID = c.nextEventID()
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.ws.SetWriteDeadline(deadline)
	} else {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	}
	return c.ws.WriteJSON(evt)
}

// speak splits pcm into ChunkSize pieces. The write lock is held for the whole
// utterance so chunks of two turns never interleave.
func (c *conn) speak(ctx context.Context, pcm []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	n := 0
	for off := 0; off < len(pcm); off += ChunkSize {
		end := off + ChunkSize
		if end > len(pcm) {
			end = len(pcm)
		}
		evt := event{Type: "agent.speak", Audio: base64.StdEncoding.EncodeToString(pcm[off:end])}
		if err := c.writeLocked(ctx, evt); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *conn) close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

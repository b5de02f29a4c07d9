package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mehrbod2002/fxmobile/internal/models"
)

// EventsURL maps the API host onto the websocket event endpoint.
func (c *Client) EventsURL(token string) (string, error) {
	u, err := url.Parse(c.host)
	if err != nil {
		return "", fmt.Errorf("parse host: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/user/events"
	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Events streams server pushed events to handle until ctx is cancelled or
// the connection drops. A cancelled ctx returns nil.
func (c *Client) Events(ctx context.Context, token string, handle func(models.Event)) error {
	if token == "" {
		return ErrUnauthorized
	}
	endpoint, err := c.EventsURL(token)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial events: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		var ev models.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Dropping malformed event: %v", err)
			continue
		}
		if ev.Type == "" {
			log.Printf("Dropping event without type")
			continue
		}
		handle(ev)
	}
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

// handleLiveFeed streams activity entries to the client as they happen.
// Write-only; the connection ends when the client goes away. Feed
// connections are not recorded in the activity log, watching the feed
// would otherwise fill it.
func (s *Server) handleLiveFeed(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer c.Close(websocket.StatusInternalError, "the sky is falling")

	id, ch := s.activity.Subscribe()
	defer s.activity.Unsubscribe(id)

	for {
		select {
		case <-r.Context().Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case e, ok := <-ch:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "")
				return
			}

			js, err := json.Marshal(e)
			if err != nil {
				log.Err(err).Msg("Failed to marshal entry for websocket")
				continue
			}

			if err := writeTimeout(r.Context(), 5*time.Second, c, js); err != nil {
				return
			}
		}
	}
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Write(ctx, websocket.MessageText, msg)
}

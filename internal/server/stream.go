package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/opsboard/internal/liveevents"
)

var streamCollections = map[string]struct{}{
	"products":  {},
	"expenses":  {},
	"shipments": {},
	"invoices":  {},
	"history":   {},
}

// StreamChanges serves the per-collection change feed over SSE. A bounded
// backlog is replayed first so late subscribers catch up.
func (s *Server) StreamChanges(c *gin.Context) {
	if s.changes == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	collection := strings.TrimSpace(c.Param("collection"))
	if _, ok := streamCollections[collection]; !ok {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	subscription, backlog, err := s.changes.Subscribe(collection)
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	defer subscription.Close()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := writer.(http.Flusher)
	if !ok {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}

	for _, change := range backlog {
		if err := writeChange(writer, change); err != nil {
			return
		}
	}
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case change := <-subscription.Events():
			if err := writeChange(writer, change); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeChange(w io.Writer, change liveevents.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

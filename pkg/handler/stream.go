package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// EventStreamAccept is the Accept header value of SSE clients.
const EventStreamAccept = "text/event-stream"

// IsEventStream reports whether the client asked for Server-Sent Events.
// Datastar clients are detected by their query parameter as well.
func IsEventStream(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), EventStreamAccept) {
		return true
	}
	return r.URL.Query().Has("datastar")
}

// StreamHandler runs for the lifetime of an SSE connection. The connection
// is closed when it returns.
type StreamHandler func(stream StreamContext) error

// StreamContext is a Context that can push datastar signal patches.
type StreamContext interface {
	Context

	// SendSignal patches a single frontend signal.
	SendSignal(name string, value any) error

	// SendSignals patches several frontend signals at once.
	SendSignals(signals map[string]any) error
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendSignal(name string, value any) error {
	return c.SendSignals(map[string]any{name: value})
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return c.sse.PatchSignals(data)
}

type sseResponse struct {
	handler StreamHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsEventStream(r) {
		return NewHTTPError(http.StatusNotAcceptable, "event_stream_required")
	}
	if _, ok := w.(http.Flusher); !ok {
		return ErrStreamingUnsupported
	}

	return s.handler(&streamContext{
		Context: NewContext(w, r),
		sse:     datastar.NewSSE(w, r),
	})
}

// SSE creates a response that upgrades the request to a Server-Sent Events
// stream and runs h on it.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		for {
//			select {
//			case <-stream.Done():
//				return nil
//			case ev := <-events:
//				if err := stream.SendSignal("latest", ev); err != nil {
//					return err
//				}
//			}
//		}
//	})
func SSE(h StreamHandler) Response {
	return sseResponse{handler: h}
}

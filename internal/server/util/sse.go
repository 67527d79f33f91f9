package util

import (
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/doclens/doclens/pkg/analyze"
)

// WriteSSEEvent writes one server-sent event frame and flushes it so the
// client sees progress immediately.
func WriteSSEEvent(c echo.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(c.Response(), "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", data); err != nil {
		return err
	}

	c.Response().Flush()
	return nil
}

// EncodeEvent maps an analysis event onto its wire name and payload.
func EncodeEvent(event analyze.Event) (string, any) {
	switch event.Type {
	case analyze.EventLog:
		return "log", event.Log
	case analyze.EventGraph:
		return "graph", map[string]any{"data": event.Graph}
	case analyze.EventResult:
		return "result", map[string]any{"data": event.Result}
	case analyze.EventError:
		return "error", map[string]any{"error": event.Err}
	default:
		return string(event.Type), nil
	}
}

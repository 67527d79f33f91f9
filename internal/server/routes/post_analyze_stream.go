package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doclens/doclens/internal/server/util"
	"github.com/doclens/doclens/pkg/analyze"
	"github.com/doclens/doclens/pkg/logger"
)

// AnalyzeStreamHandler runs one analysis and streams its progress as
// server-sent events: log events per milestone, at most one graph event,
// then a terminal result or error event.
func AnalyzeStreamHandler(analyzer *analyze.Analyzer) echo.HandlerFunc {
	type analyzeResponse struct {
		Message string `json:"message"`
	}

	return func(c echo.Context) error {
		data := new(analyze.Request)
		if err := c.Bind(data); err != nil {
			return c.JSON(http.StatusBadRequest, analyzeResponse{
				Message: "Invalid request body",
			})
		}
		if err := c.Validate(data); err != nil {
			return c.JSON(http.StatusBadRequest, analyzeResponse{
				Message: "Invalid request body",
			})
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set("Cache-Control", "no-cache")
		c.Response().Header().Set("Connection", "keep-alive")
		c.Response().WriteHeader(http.StatusOK)

		ctx := c.Request().Context()
		for event := range analyzer.AnalyzeStream(ctx, *data) {
			name, payload := util.EncodeEvent(event)
			if err := util.WriteSSEEvent(c, name, payload); err != nil {
				// The client went away; the run context is cancelled with
				// the request.
				logger.Debug("SSE write failed", "err", err)
				return nil
			}
		}

		return nil
	}
}

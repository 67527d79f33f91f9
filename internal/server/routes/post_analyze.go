package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doclens/doclens/pkg/analyze"
	"github.com/doclens/doclens/pkg/logger"
)

// AnalyzeHandler runs one synchronous analysis and returns the final result.
func AnalyzeHandler(analyzer *analyze.Analyzer) echo.HandlerFunc {
	type analyzeResponse struct {
		Message string          `json:"message,omitempty"`
		Result  *analyze.Result `json:"result,omitempty"`
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

		result, err := analyzer.Analyze(c.Request().Context(), *data)
		if err != nil {
			logger.Error("Analysis failed", "err", err)
			return c.JSON(http.StatusInternalServerError, analyzeResponse{
				Message: "Internal server error",
			})
		}

		return c.JSON(http.StatusOK, analyzeResponse{Result: result})
	}
}

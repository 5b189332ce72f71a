// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/locator"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/onemap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, onemap.ErrNotFound), errors.Is(err, locator.ErrNoResults):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, locator.ErrDataNotLoaded):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

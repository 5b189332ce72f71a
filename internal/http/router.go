// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/ai"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/http/handlers"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/http/middleware"
)

func NewRouter(searcher handlers.Searcher, planner ai.Planner) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	h := handlers.NewCarparkHandler(searcher, planner)
	r.GET("/api/carparks", h.Search)
	r.POST("/api/carparks/smart-search", h.SmartSearch)
	r.GET("/health", h.Health)

	return r
}

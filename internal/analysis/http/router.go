package http

import "github.com/gin-gonic/gin"

// Register mounts the analysis routes on an API group. Analyze accepts both
// GET and POST so browser clients and form posts work the same way.
func Register(rg gin.IRouter, h *Handler) {
	rg.GET("/analyze", h.Analyze)
	rg.POST("/analyze", h.Analyze)
	rg.GET("/metrics", h.Metrics)
}

package http

import "github.com/gin-gonic/gin"

// Register registers the name proxy routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate-names", h.GenerateNames)
	rg.POST("/lookup-name", h.LookupName)
	rg.POST("/related-names", h.RelatedNames)
	rg.POST("/name-origin", h.NameOrigin)
	rg.GET("/usages", h.ListUsages)
}

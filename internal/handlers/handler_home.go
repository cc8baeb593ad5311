package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description Echoes the authenticated actor; useful to check a token.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /whoami [get]
func getHome(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business management API v1", "actor": actor})
}

// registerHomeRoutes registers the '/whoami' route
func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("/whoami", getHome)
}

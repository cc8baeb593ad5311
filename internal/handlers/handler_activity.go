package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

func registerActivityRoutes(rg *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	h := &activityHandler{activityService: activityService}
	rg.GET("/activities", middleware.RequireStaff(), h.listActivities)
}

// listActivities godoc
// @Summary Recent activity
// @Description Order and worker history merged into one feed, newest first.
// @Tags activities
// @Produce  json
// @Param   source query string false "order or worker"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.Activity
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities [get]
func (h *activityHandler) listActivities(c *gin.Context) {
	var params dto.ListActivitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	activities, err := h.activityService.ListActivities(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, activities)
}

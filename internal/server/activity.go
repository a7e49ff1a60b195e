package server

import (
	"net/http"

	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListActivities(c *gin.Context) {
	var query struct {
		PageToken  string `form:"page_token"`
		PageSize   int    `form:"page_size"`
		Type       string `form:"type"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := activitydomain.ListActivityRequest{
		Type:       query.Type,
		CustomerID: query.CustomerID,
	}
	req.PageToken = query.PageToken
	req.PageSize = query.PageSize

	resp, err := s.activitySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

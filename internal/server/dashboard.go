package server

import (
	"net/http"

	dashboarddomain "github.com/arclear/arclear/internal/dashboard/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboard(c *gin.Context) {
	var query dashboarddomain.QueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dashboard, err := s.dashboardSvc.Get(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard})
}

package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetCustomerByID(c *gin.Context) {
	detail, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type updateInvoiceRequest struct {
	Action string `json:"action"`
	Note   string `json:"note"`
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.invoiceSvc.ApplyAction(c.Request.Context(), invoicedomain.ApplyActionRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		Action:    invoicedomain.Action(strings.TrimSpace(req.Action)),
		Note:      req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

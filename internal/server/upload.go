package server

import (
	"net/http"
	"strings"

	ingestdomain "github.com/arclear/arclear/internal/ingest/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) UploadInvoices(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "a CSV file is required"))
		return
	}

	reader, err := file.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer reader.Close()

	result, err := s.ingestSvc.ProcessBatch(c.Request.Context(), ingestdomain.ProcessBatchRequest{
		FileName: file.Filename,
		Content:  reader,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Row validation failures are part of the batch outcome, not a request
	// error: the result ships with success=false and the per-row errors.
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) GetUpload(c *gin.Context) {
	upload, err := s.ingestSvc.GetUpload(c.Request.Context(), ingestdomain.GetUploadRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": upload})
}

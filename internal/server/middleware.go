package server

import (
	"strings"

	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const HeaderOrg = "X-Org-Id"

// OrgContext resolves the acting organization from the X-Org-Id header,
// falling back to the configured default org for single-tenant deployments.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := s.cfg.DefaultOrgID
		if header := strings.TrimSpace(c.GetHeader(HeaderOrg)); header != "" {
			parsed, err := snowflake.ParseString(header)
			if err != nil {
				AbortWithError(c, newValidationError("organization", "invalid_organization", "invalid organization id"))
				return
			}
			orgID = parsed.Int64()
		}
		if orgID == 0 {
			AbortWithError(c, newValidationError("organization", "invalid_organization", "organization is required"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderfeed/backend/internal/domain/shared"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// unexpectedErrorMessage is returned, as a bare JSON string, for unclassified failures
const unexpectedErrorMessage = "An unexpected error occurred"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends the shipment acknowledgement
func (h *BaseHandler) Success(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse())
}

// XML sends a rendered document
func (h *BaseHandler) XML(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, xmlContentType, body)
}

// Unauthorized sends a 401 with a Basic challenge
func (h *BaseHandler) Unauthorized(c *gin.Context, realm, message string) {
	c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
	h.HandleError(c, shared.NewAuthenticationError(message))
}

// HandleError logs err and writes the matching response. Classified errors get a
// {code, message} body; anything else is a 500 with a bare string body.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.GetGinLogger(c)

	if domainErr, ok := shared.AsDomainError(err); ok {
		status, body := dto.FromDomainError(domainErr)
		log.Error("Request failed",
			zap.String("code", domainErr.Code),
			zap.Int("status", status),
			zap.String("message", domainErr.Message),
			zap.Error(domainErr.Err),
		)
		c.AbortWithStatusJSON(status, body)
		return
	}

	log.Error("Unexpected error", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, unexpectedErrorMessage)
}

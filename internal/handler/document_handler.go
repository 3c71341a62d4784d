package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kvstore/internal/domain"
	"kvstore/internal/service"
	"kvstore/pkg/logger"
)

// DocumentHandler handles HTTP requests for document storage operations
type DocumentHandler struct {
	service service.DocumentService
	logger  *logger.Logger
}

// NewDocumentHandler creates a new document handler with dependencies
func NewDocumentHandler(service service.DocumentService, logger *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger,
	}
}

// PutDocument handles PUT /api/v1/collections/:collection/keys/:key
// Stores a document and returns the value the key held before
func (h *DocumentHandler) PutDocument(c *gin.Context) {
	var req domain.PutDocumentRequest

	// Bind and validate request body
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	resp, err := h.service.Put(c.Request.Context(), c.Param("collection"), c.Param("key"), req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// CreateDocument handles POST /api/v1/collections/:collection
// Stores a document under a server-generated key
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req domain.PutDocumentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.Param("collection"), req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetDocument handles GET /api/v1/collections/:collection/keys/:key
// Returns the stored document
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("collection"), c.Param("key"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/v1/collections/:collection/keys/:key
// Removes a document; deleting an absent document succeeds
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	resp, err := h.service.Delete(c.Request.Context(), c.Param("collection"), c.Param("key"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DocumentExists handles GET /api/v1/collections/:collection/keys/:key/exists
func (h *DocumentHandler) DocumentExists(c *gin.Context) {
	collection := c.Param("collection")
	key := c.Param("key")

	exists, err := h.service.Exists(c.Request.Context(), collection, key)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.ExistsResponse{
		Collection: collection,
		Key:        key,
		Exists:     exists,
	})
}

// DocumentTTL handles GET /api/v1/collections/:collection/keys/:key/ttl
// Returns the remaining lifetime in whole seconds; negative values are the
// store's own no-key/no-expiry sentinels
func (h *DocumentHandler) DocumentTTL(c *gin.Context) {
	collection := c.Param("collection")
	key := c.Param("key")

	ttl, err := h.service.TTL(c.Request.Context(), collection, key)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.TTLResponse{
		Collection: collection,
		Key:        key,
		TTLSeconds: int64(ttl.Seconds()),
	})
}

// handleError processes domain errors and returns appropriate HTTP responses
func (h *DocumentHandler) handleError(c *gin.Context, err error) {
	var appErr *domain.AppError

	switch {
	case errors.As(err, &appErr):
		// Log internal errors but don't expose details to users
		if appErr.Internal {
			h.logger.Error("Internal server error", "error", appErr.Err)
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "internal_error",
				Message: appErr.Message,
				Code:    appErr.StatusCode,
			})
		} else {
			c.JSON(appErr.StatusCode, domain.ErrorResponse{
				Error:   "client_error",
				Message: appErr.Message,
				Code:    appErr.StatusCode,
			})
		}

	case errors.Is(err, domain.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "not_found",
			Message: "The requested document was not found",
			Code:    http.StatusNotFound,
		})

	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{
			Error:   "store_unavailable",
			Message: "Storage is temporarily unavailable",
			Code:    http.StatusServiceUnavailable,
		})

	case errors.Is(err, domain.ErrRateLimitExceeded):
		c.JSON(http.StatusTooManyRequests, domain.ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: "Too many requests, please try again later",
			Code:    http.StatusTooManyRequests,
		})

	default:
		h.logger.Error("Unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}

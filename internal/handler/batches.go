package handler

import (
	"net/http"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/apierror"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/middleware"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BatchesHandler struct{ svc service.BatchService }

func NewBatchesHandler(svc service.BatchService) *BatchesHandler {
	return &BatchesHandler{svc: svc}
}

// Create receives a batch into stock and records the matching purchase movement.
func (h *BatchesHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBatch(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MarkExpired writes off a batch's remaining units and depletes it.
func (h *BatchesHandler) MarkExpired(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid batch id"))
		return
	}
	resp, err := h.svc.MarkExpired(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListFEFO returns a product's active batches, nearest expiry first.
func (h *BatchesHandler) ListFEFO(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	resp, err := h.svc.ListFEFO(c.Request.Context(), middleware.TenantID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

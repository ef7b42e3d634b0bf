package handler

import (
	"net/http"
	"strconv"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/middleware"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create registers a retail sale; every line consumes the global balance.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateRegulated registers a batch-tracked sale; each line names the batch
// it consumes and the whole sale aborts on any shortage.
func (h *SalesHandler) CreateRegulated(c *gin.Context) {
	var req dto.CreateRegulatedSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRegulatedSale(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns the tenant's sales, newest first.
func (h *SalesHandler) List(c *gin.Context) {
	filter := dto.SaleFilter{Status: c.Query("status")}
	if v := c.Query("credit"); v != "" {
		credit := v == "true"
		filter.Credit = &credit
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	resp, err := h.svc.List(c.Request.Context(), middleware.TenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

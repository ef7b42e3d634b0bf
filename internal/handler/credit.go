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

type CreditHandler struct{ svc service.CreditService }

func NewCreditHandler(svc service.CreditService) *CreditHandler { return &CreditHandler{svc: svc} }

// Pay applies a partial or full payment to a credit sale.
func (h *CreditHandler) Pay(c *gin.Context) {
	var req dto.CreditPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterPayment(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CustomerBalance folds a customer's outstanding credit from their sales.
func (h *CreditHandler) CustomerBalance(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid customer id"))
		return
	}
	resp, err := h.svc.CustomerBalance(c.Request.Context(), middleware.TenantID(c), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

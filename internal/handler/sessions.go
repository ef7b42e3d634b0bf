package handler

import (
	"net/http"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/middleware"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Open starts the tenant's cash session. Only one may be open at a time.
func (h *SessionsHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Withdraw records a cash withdrawal against the open session.
func (h *SessionsHandler) Withdraw(c *gin.Context) {
	var req dto.CashMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterWithdrawal(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deposit records a cash deposit into the open session.
func (h *SessionsHandler) Deposit(c *gin.Context) {
	var req dto.CashMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterDeposit(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close reconciles the open session against the declared cash count.
func (h *SessionsHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.TenantID(c), middleware.Performer(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Current returns the open session, or 404 when none is open.
func (h *SessionsHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

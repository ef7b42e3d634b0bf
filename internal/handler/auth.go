package handler

import (
	"net/http"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/apierror"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"context"

	"github.com/duccv/employee-api/internal/apperr"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/internal/model/response"
	"github.com/duccv/employee-api/internal/validation"
	"github.com/duccv/employee-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup godoc
//
//	@Summary	Register a user
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.SignupRequest	true	"new user"
//	@Success	201		{object}	response.MessageData
//	@Failure	400		{object}	response.ErrorData
//	@Failure	500		{object}	response.ErrorData
//	@Router		/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) (Result, error) {
	req := validation.Body[model.SignupRequest](c)
	if _, err := h.svc.Signup(c.Request.Context(), req); err != nil {
		metrics.ObserveAuth("signup", outcome(err))
		return Result{}, err
	}
	metrics.ObserveAuth("signup", "success")
	return Created(response.MessageData{Message: constant.MsgUserRegistered}), nil
}

// Login godoc
//
//	@Summary	Exchange credentials for a bearer token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.LoginRequest	true	"credentials"
//	@Success	200		{object}	response.TokenData
//	@Failure	400		{object}	response.ErrorData
//	@Failure	404		{object}	response.ErrorData
//	@Failure	500		{object}	response.ErrorData
//	@Router		/login [post]
func (h *AuthHandler) Login(c *gin.Context) (Result, error) {
	req := validation.Body[model.LoginRequest](c)
	token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		metrics.ObserveAuth("login", outcome(err))
		return Result{}, err
	}
	metrics.ObserveAuth("login", "success")
	return OK(response.TokenData{Token: token}), nil
}

func outcome(err error) string {
	return apperr.From(err).Kind.String()
}

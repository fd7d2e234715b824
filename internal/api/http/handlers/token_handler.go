package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// TokenHandler exposes the login endpoint.
type TokenHandler struct {
	accounts *service.AccountService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(accountService *service.AccountService) *TokenHandler {
	return &TokenHandler{accounts: accountService}
}

// GetToken POST /get-token/. Accepts form-encoded username and password.
func (h *TokenHandler) GetToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.accounts.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// BidsHandler exposes the read-only bid listing.
type BidsHandler struct {
	accounts *service.AccountService
}

// NewBidsHandler constructs handler.
func NewBidsHandler(accountService *service.AccountService) *BidsHandler {
	return &BidsHandler{accounts: accountService}
}

// ListBids GET /users/:id/bids.
func (h *BidsHandler) ListBids(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	bids, err := h.accounts.ListBids(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]dto.BidResponse, 0, len(bids))
	for i := range bids {
		items = append(items, dto.NewBidResponse(&bids[i]))
	}
	return c.JSON(fiber.Map{"items": items})
}

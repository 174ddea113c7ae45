package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/service"
)

// AuditHandler lists recorded domain events.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /audit/events?key=&limit=.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	entries, err := h.audit.List(requestContext(c), domain.AuditFilter{
		Key:   c.Query("key"),
		Limit: c.QueryInt("limit"),
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewAuditListResponse(entries))
}

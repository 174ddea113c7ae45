package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/service"
)

// CreaturesHandler exposes creature CRUD.
type CreaturesHandler struct {
	creatures *service.CreatureService
}

// NewCreaturesHandler constructs handler.
func NewCreaturesHandler(creatures *service.CreatureService) *CreaturesHandler {
	return &CreaturesHandler{creatures: creatures}
}

// Create handles POST /creatures.
func (h *CreaturesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	creature, err := h.creatures.Create(requestContext(c), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewCreatureResponse(creature))
}

// List handles GET /creatures.
func (h *CreaturesHandler) List(c *fiber.Ctx) error {
	creatures, err := h.creatures.List(requestContext(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewCreatureListResponse(creatures))
}

// Get handles GET /creatures/:name.
func (h *CreaturesHandler) Get(c *fiber.Ctx) error {
	creature, err := h.creatures.Get(requestContext(c), c.Params("name"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewCreatureResponse(creature))
}

// Replace handles PUT /creatures/:name.
func (h *CreaturesHandler) Replace(c *fiber.Ctx) error {
	var req dto.CreatureRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	creature, err := h.creatures.Replace(requestContext(c), c.Params("name"), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewCreatureResponse(creature))
}

// Modify handles PATCH /creatures/:name.
func (h *CreaturesHandler) Modify(c *fiber.Ctx) error {
	var req dto.CreaturePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	creature, err := h.creatures.Modify(requestContext(c), c.Params("name"), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewCreatureResponse(creature))
}

// Delete handles DELETE /creatures/:name.
func (h *CreaturesHandler) Delete(c *fiber.Ctx) error {
	if err := h.creatures.Delete(requestContext(c), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

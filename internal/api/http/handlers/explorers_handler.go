package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/service"
)

// ExplorersHandler exposes explorer CRUD.
type ExplorersHandler struct {
	explorers *service.ExplorerService
}

// NewExplorersHandler constructs handler.
func NewExplorersHandler(explorers *service.ExplorerService) *ExplorersHandler {
	return &ExplorersHandler{explorers: explorers}
}

// Create handles POST /explorer.
func (h *ExplorersHandler) Create(c *fiber.Ctx) error {
	var req dto.ExplorerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	explorer, err := h.explorers.Create(requestContext(c), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewExplorerResponse(explorer))
}

// List handles GET /explorer.
func (h *ExplorersHandler) List(c *fiber.Ctx) error {
	explorers, err := h.explorers.List(requestContext(c))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewExplorerListResponse(explorers))
}

// Get handles GET /explorer/:name.
func (h *ExplorersHandler) Get(c *fiber.Ctx) error {
	explorer, err := h.explorers.Get(requestContext(c), c.Params("name"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewExplorerResponse(explorer))
}

// Replace handles PUT /explorer/:name.
func (h *ExplorersHandler) Replace(c *fiber.Ctx) error {
	var req dto.ExplorerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	explorer, err := h.explorers.Replace(requestContext(c), c.Params("name"), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewExplorerResponse(explorer))
}

// Modify handles PATCH /explorer/:name.
func (h *ExplorersHandler) Modify(c *fiber.Ctx) error {
	var req dto.ExplorerPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	explorer, err := h.explorers.Modify(requestContext(c), c.Params("name"), req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewExplorerResponse(explorer))
}

// Delete handles DELETE /explorer/:name.
func (h *ExplorersHandler) Delete(c *fiber.Ctx) error {
	if err := h.explorers.Delete(requestContext(c), c.Params("name")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

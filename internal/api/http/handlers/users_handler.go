package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/api/dto"
	"github.com/spec-kit/cryptid/internal/service"
)

// UsersHandler exposes account management. Routes under /users/me act on the caller.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(requestContext(c), service.SignUpInput{
		Name:     req.Name,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewUserResponse(user))
}

// List handles GET /users?deleted=bool.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(requestContext(c), c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserListResponse(users))
}

// Get handles GET /users/:id?deleted=bool.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(requestContext(c), c.Params("id"), c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserResponse(user))
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	id, err := currentSubject(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(requestContext(c), id, false)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserResponse(user))
}

// Replace handles PUT /users/:id.
func (h *UsersHandler) Replace(c *fiber.Ctx) error {
	return h.replace(c, c.Params("id"))
}

// ReplaceMe handles PUT /users/me.
func (h *UsersHandler) ReplaceMe(c *fiber.Ctx) error {
	id, err := currentSubject(c)
	if err != nil {
		return err
	}
	return h.replace(c, id)
}

func (h *UsersHandler) replace(c *fiber.Ctx, id string) error {
	var req dto.UserReplaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Replace(requestContext(c), id, req.Name, req.Roles)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserResponse(user))
}

// Modify handles PATCH /users/:id.
func (h *UsersHandler) Modify(c *fiber.Ctx) error {
	return h.modify(c, c.Params("id"))
}

// ModifyMe handles PATCH /users/me.
func (h *UsersHandler) ModifyMe(c *fiber.Ctx) error {
	id, err := currentSubject(c)
	if err != nil {
		return err
	}
	return h.modify(c, id)
}

func (h *UsersHandler) modify(c *fiber.Ctx, id string) error {
	var req dto.UserPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Modify(requestContext(c), id, req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserResponse(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	return h.delete(c, c.Params("id"))
}

// DeleteMe handles DELETE /users/me.
func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	id, err := currentSubject(c)
	if err != nil {
		return err
	}
	return h.delete(c, id)
}

func (h *UsersHandler) delete(c *fiber.Ctx, id string) error {
	if err := h.users.Delete(requestContext(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

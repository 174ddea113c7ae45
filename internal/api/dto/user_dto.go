package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/cryptid/internal/domain"
)

// SignUpRequest is the body of POST /users.
type SignUpRequest struct {
	Name     string   `json:"name" validate:"required,ne=me"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles" validate:"omitempty,dive,required"`
}

// Normalize trims the name and password.
func (r *SignUpRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Password = strings.TrimSpace(r.Password)
}

// UserReplaceRequest is the body of PUT on users. Omitted roles reset to the default.
type UserReplaceRequest struct {
	Name  string   `json:"name" validate:"required,ne=me"`
	Roles []string `json:"roles" validate:"omitempty,dive,required"`
}

// Normalize trims the name.
func (r *UserReplaceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UserPatchRequest is the body of PATCH on users.
type UserPatchRequest struct {
	Name  *string  `json:"name" validate:"omitnil,min=1,ne=me"`
	Roles []string `json:"roles" validate:"omitempty,dive,required"`
}

// Normalize trims the name when present.
func (r *UserPatchRequest) Normalize() {
	trimPtr(r.Name)
}

// ToDomain converts the request.
func (r UserPatchRequest) ToDomain() domain.UserPatch {
	return domain.UserPatch{Name: r.Name, Roles: r.Roles}
}

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(u *domain.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

// NewUserListResponse maps a slice of users.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

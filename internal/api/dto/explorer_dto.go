package dto

import (
	"strings"

	"github.com/spec-kit/cryptid/internal/domain"
)

// ExplorerRequest is the body of POST and PUT on explorers.
type ExplorerRequest struct {
	Name        string `json:"name" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Description string `json:"description"`
}

// Normalize trims the name.
func (r *ExplorerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// ToDomain converts the request.
func (r ExplorerRequest) ToDomain() *domain.Explorer {
	return &domain.Explorer{Name: r.Name, Country: r.Country, Description: r.Description}
}

// ExplorerPatchRequest is the body of PATCH on explorers.
type ExplorerPatchRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Country     *string `json:"country"`
	Description *string `json:"description"`
}

// Normalize trims the name when present.
func (r *ExplorerPatchRequest) Normalize() {
	trimPtr(r.Name)
}

// ToDomain converts the request.
func (r ExplorerPatchRequest) ToDomain() domain.ExplorerPatch {
	return domain.ExplorerPatch{Name: r.Name, Country: r.Country, Description: r.Description}
}

// ExplorerResponse renders an explorer.
type ExplorerResponse struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

// NewExplorerResponse maps the domain model.
func NewExplorerResponse(e *domain.Explorer) ExplorerResponse {
	return ExplorerResponse{Name: e.Name, Country: e.Country, Description: e.Description}
}

// NewExplorerListResponse maps a slice of explorers.
func NewExplorerListResponse(explorers []domain.Explorer) []ExplorerResponse {
	out := make([]ExplorerResponse, 0, len(explorers))
	for i := range explorers {
		out = append(out, NewExplorerResponse(&explorers[i]))
	}
	return out
}

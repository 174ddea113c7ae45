package dto

import "github.com/spec-kit/cryptid/internal/domain"

// CreatureRequest is the body of POST and PUT on creatures.
type CreatureRequest struct {
	Name        string `json:"name" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Area        string `json:"area" validate:"required"`
	Description string `json:"description"`
	AKA         string `json:"aka"`
}

// ToDomain converts the request.
func (r CreatureRequest) ToDomain() *domain.Creature {
	return &domain.Creature{
		Name:        r.Name,
		Country:     r.Country,
		Area:        r.Area,
		Description: r.Description,
		AKA:         r.AKA,
	}
}

// CreaturePatchRequest is the body of PATCH on creatures. Absent fields are left unchanged.
type CreaturePatchRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Country     *string `json:"country"`
	Area        *string `json:"area"`
	Description *string `json:"description"`
	AKA         *string `json:"aka"`
}

// ToDomain converts the request.
func (r CreaturePatchRequest) ToDomain() domain.CreaturePatch {
	return domain.CreaturePatch{
		Name:        r.Name,
		Country:     r.Country,
		Area:        r.Area,
		Description: r.Description,
		AKA:         r.AKA,
	}
}

// CreatureResponse renders a creature.
type CreatureResponse struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Area        string `json:"area"`
	Description string `json:"description"`
	AKA         string `json:"aka"`
}

// NewCreatureResponse maps the domain model.
func NewCreatureResponse(c *domain.Creature) CreatureResponse {
	return CreatureResponse{
		Name:        c.Name,
		Country:     c.Country,
		Area:        c.Area,
		Description: c.Description,
		AKA:         c.AKA,
	}
}

// NewCreatureListResponse maps a slice of creatures.
func NewCreatureListResponse(creatures []domain.Creature) []CreatureResponse {
	out := make([]CreatureResponse, 0, len(creatures))
	for i := range creatures {
		out = append(out, NewCreatureResponse(&creatures[i]))
	}
	return out
}

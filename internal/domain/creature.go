package domain

// Creature is a cryptid sighted somewhere in the world, keyed by name.
type Creature struct {
	Name        string
	Country     string
	Area        string
	Description string
	AKA         string
}

// CreaturePatch holds the optional fields of a partial creature update.
type CreaturePatch struct {
	Name        *string
	Country     *string
	Area        *string
	Description *string
	AKA         *string
}

// Apply returns a copy of c with the set fields of p applied.
func (p CreaturePatch) Apply(c Creature) Creature {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.Area != nil {
		c.Area = *p.Area
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.AKA != nil {
		c.AKA = *p.AKA
	}
	return c
}

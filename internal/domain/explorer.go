package domain

// Explorer hunts creatures, keyed by name.
type Explorer struct {
	Name        string
	Country     string
	Description string
}

// ExplorerPatch holds the optional fields of a partial explorer update.
type ExplorerPatch struct {
	Name        *string
	Country     *string
	Description *string
}

// Apply returns a copy of e with the set fields of p applied.
func (p ExplorerPatch) Apply(e Explorer) Explorer {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Country != nil {
		e.Country = *p.Country
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e
}

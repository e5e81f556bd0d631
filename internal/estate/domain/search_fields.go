package domain

// Searchable text of each entity, as matched by the list screens.

func (p Property) SearchFields() []string { return []string{p.Name, p.City} }

func (u Unit) SearchFields() []string { return []string{u.UnitNumber, string(u.Type)} }

func (t Ticket) SearchFields() []string { return []string{t.Category, string(t.Status)} }

func (p Payment) SearchFields() []string { return []string{p.Type, p.Method} }

func (g GuestRequest) SearchFields() []string {
	return []string{g.GuestEmail, g.GuestPhone, g.RequestType}
}

func (u User) SearchFields() []string { return []string{u.Name, u.Email, string(u.Role)} }

package player

// Player is one roster entry keyed by the provider's stable player id.
// Position and Team are empty when the loaded store never had those columns.
type Player struct {
	ID       string
	Name     string
	Position string
	Team     string
}

// SearchFilter narrows a roster search. Empty fields are ignored; filters on
// columns the store does not have are dropped by the repository.
type SearchFilter struct {
	NameQuery string
	Team      string
	Position  string
	Limit     int
}

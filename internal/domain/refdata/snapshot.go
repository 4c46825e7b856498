package refdata

// TeamMeta is nflverse team branding metadata served alongside team stats.
type TeamMeta struct {
	Abbr           string
	Name           string
	PrimaryColor   string
	SecondaryColor string
	LogoURL        string
}

// Snapshot is an immutable view of reference data fetched once at startup.
// A nil *Snapshot is valid and reports nothing found, so callers never need
// to branch on whether the startup fetch succeeded.
type Snapshot struct {
	teams     map[string]TeamMeta
	headshots map[string]string
}

// NewSnapshot copies the given maps so later mutation by the caller cannot
// leak into served responses.
func NewSnapshot(teams map[string]TeamMeta, headshots map[string]string) *Snapshot {
	s := &Snapshot{
		teams:     make(map[string]TeamMeta, len(teams)),
		headshots: make(map[string]string, len(headshots)),
	}
	for abbr, meta := range teams {
		s.teams[abbr] = meta
	}
	for id, url := range headshots {
		if url == "" {
			continue
		}
		s.headshots[id] = url
	}
	return s
}

// Team looks up branding metadata by team abbreviation.
func (s *Snapshot) Team(abbr string) (TeamMeta, bool) {
	if s == nil {
		return TeamMeta{}, false
	}
	meta, ok := s.teams[abbr]
	return meta, ok
}

// Headshot looks up a player's headshot URL by player id.
func (s *Snapshot) Headshot(playerID string) (string, bool) {
	if s == nil {
		return "", false
	}
	url, ok := s.headshots[playerID]
	return url, ok
}

package board

// Settings are the fixed parameters the engine depends on.
type Settings struct {
	DailyUnlockLimit      int
	GridCols              int
	GridRows              int
	DefaultImageURL       string
	DefaultOverlayOpacity float64
}

const defaultImageURL = "https://www.rollingstone.co.uk/wp-content/uploads/sites/2/2024/09/sh05_Group_RollingStoneUK_StrayKids-4272-e1726578700988.jpg"

// DefaultSettings is a 120x84 grid with ten unlocks a day.
func DefaultSettings() Settings {
	return Settings{
		DailyUnlockLimit:      10,
		GridCols:              120,
		GridRows:              84,
		DefaultImageURL:       defaultImageURL,
		DefaultOverlayOpacity: 0.8,
	}
}

// TotalBlocks is the number of cells on the grid.
func (s Settings) TotalBlocks() int {
	return s.GridCols * s.GridRows
}

// withDefaults fills zero or negative fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DailyUnlockLimit <= 0 {
		s.DailyUnlockLimit = d.DailyUnlockLimit
	}
	if s.GridCols <= 0 || s.GridRows <= 0 {
		s.GridCols, s.GridRows = d.GridCols, d.GridRows
	}
	if s.DefaultImageURL == "" {
		s.DefaultImageURL = d.DefaultImageURL
	}
	if s.DefaultOverlayOpacity < 0 || s.DefaultOverlayOpacity > 1 {
		s.DefaultOverlayOpacity = d.DefaultOverlayOpacity
	}
	return s
}

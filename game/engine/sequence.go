package engine

import "time"

// Color is one clickable cell in the memory game's palette: a board position
// plus the hex color code shown there. Colors are comparable values.
type Color struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Code string `json:"code"` // hex color, e.g. "#ff0000"
}

// SequenceTurn is one player's attempt to extend the shared color sequence.
// Turns form an append-only log per game, numbered sequentially from 1.
type SequenceTurn struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	PlayerID   string    `json:"player_id"`
	TurnNumber int       `json:"turn_number"`
	Input      []Color   `json:"input"`
	Correct    bool      `json:"correct"`
	Finished   bool      `json:"finished"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchesPrefix reports whether submitted extends accepted by exactly one
// element: same length plus one, and an element-for-element match on the
// accepted prefix (x, y and color code all equal). Any other shape forfeits
// the game to the opponent.
func MatchesPrefix(accepted, submitted []Color) bool {
	if len(submitted) != len(accepted)+1 {
		return false
	}
	for i, c := range accepted {
		if submitted[i] != c {
			return false
		}
	}
	return true
}

// PaletteContains reports whether c is one of the room's configured colors.
func PaletteContains(palette []Color, c Color) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}

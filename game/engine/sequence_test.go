package engine

import "testing"

func colors(codes ...string) []Color {
	out := make([]Color, len(codes))
	for i, code := range codes {
		out[i] = Color{X: i % 3, Y: i / 3, Code: code}
	}
	return out
}

func TestMatchesPrefixAcceptsOneNewElement(t *testing.T) {
	accepted := colors("#f00", "#0f0")
	submitted := append(append([]Color{}, accepted...), Color{X: 2, Y: 0, Code: "#00f"})

	if !MatchesPrefix(accepted, submitted) {
		t.Error("a submission extending the accepted sequence by one must be valid")
	}
}

func TestMatchesPrefixFirstTurn(t *testing.T) {
	if !MatchesPrefix(nil, colors("#f00")) {
		t.Error("the game's first turn extends the empty sequence")
	}
	if MatchesPrefix(nil, nil) {
		t.Error("an empty submission never matches")
	}
}

func TestMatchesPrefixRejectsWrongLength(t *testing.T) {
	accepted := colors("#f00", "#0f0")

	if MatchesPrefix(accepted, accepted) {
		t.Error("same-length submission must be rejected")
	}
	tooLong := append(append([]Color{}, accepted...), colors("#00f", "#ff0")...)
	if MatchesPrefix(accepted, tooLong) {
		t.Error("submission two elements longer must be rejected")
	}
}

func TestMatchesPrefixRejectsMismatchedElement(t *testing.T) {
	accepted := colors("#f00", "#0f0")
	submitted := append([]Color{}, accepted...)
	submitted[1].Code = "#00f" // corrupt the prefix
	submitted = append(submitted, Color{X: 2, Y: 0, Code: "#ff0"})

	if MatchesPrefix(accepted, submitted) {
		t.Error("a corrupted prefix element must forfeit the turn")
	}

	// Position matters as much as the color code.
	shifted := append([]Color{}, accepted...)
	shifted[0].X++
	shifted = append(shifted, Color{X: 2, Y: 0, Code: "#ff0"})
	if MatchesPrefix(accepted, shifted) {
		t.Error("a moved prefix element must forfeit the turn")
	}
}

func TestPaletteContains(t *testing.T) {
	palette := colors("#f00", "#0f0", "#00f")

	if !PaletteContains(palette, palette[1]) {
		t.Error("palette member not found")
	}
	if PaletteContains(palette, Color{X: 9, Y: 9, Code: "#f00"}) {
		t.Error("same code at a different position is not a palette member")
	}
	if PaletteContains(nil, palette[0]) {
		t.Error("empty palette contains nothing")
	}
}

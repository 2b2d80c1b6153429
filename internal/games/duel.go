package games

import (
	"fmt"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// DuelTurnScore produces one participant's round score for the given
// duel mode. Slots: 15 for a triple seven, 10 for any other triple,
// uniform 4-7 for a pair, uniform 1-5 otherwise. Roulette and coin
// modes score a binary outcome from an independent guess-vs-draw.
func DuelTurnScore(mode models.DuelMode, rng RNG) (int, string) {
	switch mode {
	case models.DuelModeRoulette:
		choice := pick(rng, "red", "black")
		outcome := pick(rng, "red", "black")
		score := 0
		if choice == outcome {
			score = 2
		}
		return score, fmt.Sprintf("picked %s, drawn %s", choice, outcome)
	case models.DuelModeCoin:
		choice := pick(rng, "heads", "tails")
		outcome := pick(rng, "heads", "tails")
		score := 0
		if choice == outcome {
			score = 1
		}
		return score, fmt.Sprintf("called %s, landed %s", choice, outcome)
	default:
		return duelSlotsScore(rng)
	}
}

func duelSlotsScore(rng RNG) (int, string) {
	faces := [3]Symbol{}
	for i := range faces {
		faces[i] = SlotSymbols[rng.Intn(len(SlotSymbols))]
	}

	var score int
	switch {
	case faces[0] == faces[1] && faces[1] == faces[2]:
		if faces[0] == symbolSeven {
			score = 15
		} else {
			score = 10
		}
	case faces[0] == faces[1] || faces[1] == faces[2] || faces[0] == faces[2]:
		score = rng.Intn(4) + 4
	default:
		score = rng.Intn(5) + 1
	}
	return score, formatFaces(faces)
}

func pick(rng RNG, a, b string) string {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

package brackets

import (
	"sort"

	"github.com/ringside/fightcard/models"
)

// Pairing is one opening-round matchup by registration id.
type Pairing struct {
	RedCornerID  int
	BlueCornerID int
}

// PairSeeds builds the opening-round matchups for a seeded roster: the top
// seed faces the bottom seed, the second seed the second-from-bottom, and so
// on. With an odd roster the middle seed sits out the round.
func PairSeeds(seeds []models.BracketSeed) []Pairing {
	ordered := make([]models.BracketSeed, len(seeds))
	copy(ordered, seeds)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seed < ordered[j].Seed })

	pairings := make([]Pairing, 0, len(ordered)/2)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		pairings = append(pairings, Pairing{
			RedCornerID:  ordered[i].RegistrationID,
			BlueCornerID: ordered[j].RegistrationID,
		})
	}
	return pairings
}

package mission

import (
	"context"

	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

// Map ids reachable for goToPlace, nearest first.
var travelDestinations = map[Difficulty][]int{
	Easy:   {1, 2, 3, 4},
	Medium: {5, 6, 7, 8},
	Hard:   {9, 10, 11, 12},
}

// goToPlace: reach a destination map drawn at assignment, never the current map.
type goToPlace struct {
	Default
}

func (goToPlace) GenerateRandomVariant(d Difficulty, p Player, rnd random.Source) Variant {
	pool, ok := travelDestinations[d]
	if !ok {
		pool = travelDestinations[Easy]
	}
	candidates := make([]int, 0, len(pool))
	for _, id := range pool {
		if id != p.MapID {
			candidates = append(candidates, id)
		}
	}
	mapID, _ := random.Pick(rnd, candidates)
	return Variant(mapID)
}

func (goToPlace) AreParamsMatchingVariantAndSave(variant Variant, params Params, _ SaveBlob) bool {
	mapID, ok := params.Int("mapId")
	return ok && Variant(mapID) == variant
}

// reachLevel progress is the player's level itself.
type reachLevel struct {
	Default
}

func (reachLevel) InitialNumberDone(_ context.Context, p Player, _ Lookup) (int, error) {
	return p.Level, nil
}

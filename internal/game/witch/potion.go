// Package witch implements the witch encounter: each action the player can pick has
// fixed outcome odds and may brew a potion.
package witch

import (
	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

type Nature string

const (
	NatureHealth  Nature = "health"
	NatureSpeed   Nature = "speed"
	NatureAttack  Nature = "attack"
	NatureDefense Nature = "defense"
	NatureTime    Nature = "time"
	NatureMoney   Nature = "money"
)

const (
	RarityCommon = iota + 1
	RarityUncommon
	RarityExotic
	RarityRare
	RaritySpecial
	RarityEpic
	RarityLegendary
	RarityMythical
)

// rarityWeights are the relative odds of each rarity, index 0 being common.
var rarityWeights = []int{4375, 2500, 1700, 1000, 300, 100, 20, 5}

type Potion struct {
	Nature Nature
	Power  int
	Rarity int
}

func (p *Potion) Packet() *packet.Potion {
	if p == nil {
		return nil
	}
	return &packet.Potion{Nature: string(p.Nature), Power: p.Power, Rarity: p.Rarity}
}

// GenerateRandomPotion brews a potion of the given nature with a rarity drawn from
// the rarity table restricted to [minRarity, maxRarity]. Power scales with rarity.
func GenerateRandomPotion(rnd random.Source, nature Nature, minRarity, maxRarity int) *Potion {
	minRarity = min(max(minRarity, RarityCommon), RarityMythical)
	maxRarity = min(max(maxRarity, RarityCommon), RarityMythical)
	if maxRarity < minRarity {
		maxRarity = minRarity
	}
	weights := rarityWeights[minRarity-1 : maxRarity]
	idx, ok := random.Weighted(rnd, weights)
	if !ok {
		idx = 0
	}
	rarity := minRarity + idx
	return &Potion{Nature: nature, Rarity: rarity, Power: potionPower(nature, rarity)}
}

func potionPower(nature Nature, rarity int) int {
	switch nature {
	case NatureHealth:
		return 10 * rarity
	case NatureTime:
		// Minutes removed from the player's wait time.
		return 30 * rarity
	case NatureMoney:
		return 25 * rarity
	default:
		return 2 * rarity
	}
}

package mission

import "github.com/Crownicles/Crownicles-sub006/internal/random"

// atLeast matches events whose param is greater than or equal to the variant.
type atLeast struct {
	Default
	param   string
	variant func(Difficulty, random.Source) Variant
}

func (m atLeast) GenerateRandomVariant(d Difficulty, _ Player, rnd random.Source) Variant {
	return m.variant(d, rnd)
}

func (m atLeast) AreParamsMatchingVariantAndSave(variant Variant, params Params, _ SaveBlob) bool {
	v, ok := params.Int(m.param)
	return ok && Variant(v) >= variant
}

// fixedByDifficulty maps each difficulty to a constant; unspecified uses def.
func fixedByDifficulty(easy, medium, hard, def Variant) func(Difficulty, random.Source) Variant {
	return func(d Difficulty, _ random.Source) Variant {
		switch d {
		case Easy:
			return easy
		case Medium:
			return medium
		case Hard:
			return hard
		default:
			return def
		}
	}
}

type span struct{ min, max int }

// rangeByDifficulty draws uniformly inside the difficulty's span; unspecified uses easy.
func rangeByDifficulty(easy, medium, hard span) func(Difficulty, random.Source) Variant {
	return func(d Difficulty, rnd random.Source) Variant {
		s := easy
		switch d {
		case Medium:
			s = medium
		case Hard:
			s = hard
		}
		return Variant(random.IntBetween(rnd, s.min, s.max))
	}
}

// fightMinTurns: win a fight lasting at least N turns.
func fightMinTurns() Mission {
	return atLeast{param: "turns", variant: fixedByDifficulty(20, 26, 30, 20)}
}

// drinkPotionRarity: drink a potion of at least the given rarity.
func drinkPotionRarity() Mission {
	return atLeast{param: "rarity", variant: rangeByDifficulty(span{1, 3}, span{3, 5}, span{5, 7})}
}

func sellItemWithGivenCost() Mission {
	return atLeast{param: "itemCost", variant: fixedByDifficulty(100, 500, 1000, 100)}
}

func chooseClassTier() Mission {
	return atLeast{param: "tier", variant: fixedByDifficulty(1, 2, 3, 1)}
}

func tamePetOfRarity() Mission {
	return atLeast{param: "rarity", variant: rangeByDifficulty(span{1, 2}, span{3, 4}, span{5, 6})}
}

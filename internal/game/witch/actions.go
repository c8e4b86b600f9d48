package witch

import (
	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
)

type Outcome string

const (
	OutcomePotion  Outcome = "potion"
	OutcomeNothing Outcome = "nothing"
	OutcomeBad     Outcome = "bad"
)

// Action is one choice offered by the witch.
type Action interface {
	Outcome(rnd random.Source) Outcome
	// GeneratePotion brews the potion for a potion outcome; nil when the action never yields one.
	GeneratePotion(rnd random.Source) *Potion
}

// brew is an action with fixed odds; the remainder of potion+bad is "nothing".
type brew struct {
	potionChance float64
	badChance    float64
	nature       Nature
	minRarity    int
	maxRarity    int
}

func (b brew) Outcome(rnd random.Source) Outcome {
	roll := rnd.Float64()
	switch {
	case roll < b.potionChance:
		return OutcomePotion
	case roll < b.potionChance+b.badChance:
		return OutcomeBad
	default:
		return OutcomeNothing
	}
}

func (b brew) GeneratePotion(rnd random.Source) *Potion {
	if b.potionChance <= 0 {
		return nil
	}
	return GenerateRandomPotion(rnd, b.nature, b.minRarity, b.maxRarity)
}

const (
	Rest     = "rest"
	Herbs    = "herbs"
	Mushroom = "mushroom"
	Book     = "book"
	Cauldron = "cauldron"
)

// BadOutcomeHealthLoss is the health lost when an action turns bad.
const BadOutcomeHealthLoss = 10

func NewRegistry() *game.Registry[Action] {
	r := game.NewRegistry[Action]("witch action")
	r.Register(Rest, brew{potionChance: 0, badChance: 0})
	r.Register(Herbs, brew{potionChance: 0.6, badChance: 0.1, nature: NatureHealth, minRarity: RarityCommon, maxRarity: RarityRare})
	r.Register(Mushroom, brew{potionChance: 0.4, badChance: 0.35, nature: NatureAttack, minRarity: RarityUncommon, maxRarity: RarityEpic})
	r.Register(Book, brew{potionChance: 0.5, badChance: 0.05, nature: NatureTime, minRarity: RarityCommon, maxRarity: RaritySpecial})
	r.Register(Cauldron, brew{potionChance: 0.3, badChance: 0.5, nature: NatureMoney, minRarity: RarityRare, maxRarity: RarityMythical})
	return r.Seal()
}

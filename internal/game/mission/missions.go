package mission

import "github.com/Crownicles/Crownicles-sub006/internal/game"

const (
	FightMinTurns               = "fightMinTurns"
	DrinkPotionRarity           = "drinkPotionRarity"
	WinBossWithDifferentClasses = "winBossWithDifferentClasses"
	MeetDifferentPlayers        = "meetDifferentPlayers"
	ExploreDifferentPlaces      = "exploreDifferentPlaces"
	GoToPlace                   = "goToPlace"
	SellItemWithGivenCost       = "sellItemWithGivenCost"
	ChooseClassTier             = "chooseClassTier"
	TamePetOfRarity             = "tamePetOfRarity"
	ReachLevel                  = "reachLevel"
	OwnDifferentPetTypes        = "ownDifferentPetTypes"
	WinFight                    = "winFight"
	EarnMoney                   = "earnMoney"
	GainXP                      = "gainXP"
	DoReports                   = "doReports"
	Hospitalize                 = "hospitalize"
)

// NewRegistry returns the sealed registry of every mission the game knows.
// Default is registered under game.DefaultID as the explicit fallback.
func NewRegistry() *game.Registry[Mission] {
	r := game.NewRegistry[Mission]("mission")
	r.Register(game.DefaultID, Default{})

	r.Register(FightMinTurns, fightMinTurns())
	r.Register(DrinkPotionRarity, drinkPotionRarity())
	r.Register(WinBossWithDifferentClasses, winBossWithDifferentClasses())
	r.Register(MeetDifferentPlayers, meetDifferentPlayers())
	r.Register(ExploreDifferentPlaces, exploreDifferentPlaces())
	r.Register(GoToPlace, goToPlace{})
	r.Register(SellItemWithGivenCost, sellItemWithGivenCost())
	r.Register(ChooseClassTier, chooseClassTier())
	r.Register(TamePetOfRarity, tamePetOfRarity())
	r.Register(ReachLevel, reachLevel{})
	r.Register(OwnDifferentPetTypes, ownDifferentPetTypes{distinct{param: "petTypeId"}})

	// Plain counters.
	for _, id := range []string{WinFight, EarnMoney, GainXP, DoReports, Hospitalize} {
		r.Register(id, Default{})
	}
	return r.Seal()
}

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type translation struct {
	en, fr string
}

// Every message takes the objective first and the variant second, always by explicit index.
var missionMessages = map[string]translation{
	"fightMinTurns": {
		en: "Win %[1]d fights lasting at least %[2]d turns",
		fr: "Gagner %[1]d combats d'au moins %[2]d tours",
	},
	"drinkPotionRarity": {
		en: "Drink %[1]d potions of rarity %[2]d or higher",
		fr: "Boire %[1]d potions de rareté %[2]d ou plus",
	},
	"winBossWithDifferentClasses": {
		en: "Defeat a boss with %[1]d different classes",
		fr: "Vaincre un boss avec %[1]d classes différentes",
	},
	"meetDifferentPlayers": {
		en: "Meet %[1]d different players",
		fr: "Rencontrer %[1]d joueurs différents",
	},
	"exploreDifferentPlaces": {
		en: "Explore %[1]d different places",
		fr: "Explorer %[1]d lieux différents",
	},
	"goToPlace": {
		en: "Travel %[1]d times to place #%[2]d",
		fr: "Voyager %[1]d fois jusqu'au lieu n°%[2]d",
	},
	"sellItemWithGivenCost": {
		en: "Sell %[1]d items worth at least %[2]d coins",
		fr: "Vendre %[1]d objets valant au moins %[2]d pièces",
	},
	"chooseClassTier": {
		en: "Choose a class of tier %[2]d or higher (%[1]d times)",
		fr: "Choisir une classe de rang %[2]d ou plus (%[1]d fois)",
	},
	"tamePetOfRarity": {
		en: "Tame %[1]d pets of rarity %[2]d or higher",
		fr: "Apprivoiser %[1]d familiers de rareté %[2]d ou plus",
	},
	"reachLevel": {
		en: "Reach level %[1]d",
		fr: "Atteindre le niveau %[1]d",
	},
	"ownDifferentPetTypes": {
		en: "Own %[1]d different kinds of pets",
		fr: "Posséder %[1]d espèces de familiers différentes",
	},
	"winFight": {
		en: "Win %[1]d fights",
		fr: "Gagner %[1]d combats",
	},
	"earnMoney": {
		en: "Earn %[1]d coins",
		fr: "Gagner %[1]d pièces",
	},
	"gainXP": {
		en: "Gain %[1]d experience points",
		fr: "Gagner %[1]d points d'expérience",
	},
	"doReports": {
		en: "Do %[1]d reports",
		fr: "Faire %[1]d rapports",
	},
	"hospitalize": {
		en: "Spend %[1]d hours in the hospital",
		fr: "Passer %[1]d heures à l'hôpital",
	},
}

func init() {
	en, fr := language.English, language.French
	message.SetString(en, "mission.generic", "Complete mission %s (%d times)")
	message.SetString(fr, "mission.generic", "Accomplir la mission %s (%d fois)")
	for id, t := range missionMessages {
		message.SetString(en, MissionKey(id), t.en)
		message.SetString(fr, MissionKey(id), t.fr)
	}
}

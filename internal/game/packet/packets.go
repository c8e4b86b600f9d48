package packet

// Mission packets.

type MissionProgress struct {
	SlotID     int64  `json:"slot_id"`
	MissionID  string `json:"mission_id"`
	NumberDone int    `json:"number_done"`
	Objective  int    `json:"objective"`
}

func (MissionProgress) PacketName() string { return "missionProgress" }

type MissionCompleted struct {
	SlotID    int64  `json:"slot_id"`
	MissionID string `json:"mission_id"`
	Money     int64  `json:"money"`
	XP        int64  `json:"xp"`
}

func (MissionCompleted) PacketName() string { return "missionCompleted" }

type MissionAssigned struct {
	SlotID      int64  `json:"slot_id"`
	MissionID   string `json:"mission_id"`
	Variant     int    `json:"variant"`
	Difficulty  string `json:"difficulty"`
	NumberDone  int    `json:"number_done"`
	Objective   int    `json:"objective"`
	Description string `json:"description"`
}

func (MissionAssigned) PacketName() string { return "missionAssigned" }

// Small event packets.

type SmallEventDoNothing struct{}

func (SmallEventDoNothing) PacketName() string { return "smallEventDoNothing" }

type SmallEventFindMoney struct {
	Amount int64 `json:"amount"`
}

func (SmallEventFindMoney) PacketName() string { return "smallEventFindMoney" }

type SmallEventWinHealth struct {
	Amount int64 `json:"amount"`
}

func (SmallEventWinHealth) PacketName() string { return "smallEventWinHealth" }

type SmallEventWinPersonalXP struct {
	Amount int64 `json:"amount"`
}

func (SmallEventWinPersonalXP) PacketName() string { return "smallEventWinPersonalXP" }

type SmallEventSmallBad struct {
	// Kind is one of "health", "money" or "time".
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
}

func (SmallEventSmallBad) PacketName() string { return "smallEventSmallBad" }

type SmallEventFindPet struct {
	PetTypeID int  `json:"pet_type_id"`
	Feminine  bool `json:"feminine"`
	Rarity    int  `json:"rarity"`
	Adopted   bool `json:"adopted"`
}

func (SmallEventFindPet) PacketName() string { return "smallEventFindPet" }

type SmallEventWitchChoices struct {
	Actions []string `json:"actions"`
}

func (SmallEventWitchChoices) PacketName() string { return "smallEventWitchChoices" }

type SmallEventWitchResult struct {
	Action  string  `json:"action"`
	Outcome string  `json:"outcome"`
	Potion  *Potion `json:"potion,omitempty"`
	// HealthLost is set when the outcome is bad.
	HealthLost int64 `json:"health_lost,omitempty"`
}

func (SmallEventWitchResult) PacketName() string { return "smallEventWitchResult" }

// Potion is the wire view of a generated potion.
type Potion struct {
	Nature string `json:"nature"`
	Power  int    `json:"power"`
	Rarity int    `json:"rarity"`
}

type SmallEventFightPetStart struct {
	EncounterID string   `json:"encounter_id"`
	PetTypeID   int      `json:"pet_type_id"`
	Feminine    bool     `json:"feminine"`
	Rarity      int      `json:"rarity"`
	Actions     []string `json:"actions"`
	MaxRounds   int      `json:"max_rounds"`
}

func (SmallEventFightPetStart) PacketName() string { return "smallEventFightPetStart" }

type FightPetActionResult struct {
	EncounterID string `json:"encounter_id"`
	Action      string `json:"action"`
	Success     bool   `json:"success"`
	Round       int    `json:"round"`
	Rage        int    `json:"rage"`
}

func (FightPetActionResult) PacketName() string { return "fightPetActionResult" }

type FightPetEnd struct {
	EncounterID string `json:"encounter_id"`
	Won         bool   `json:"won"`
	PetAdopted  bool   `json:"pet_adopted,omitempty"`
	Money       int64  `json:"money,omitempty"`
	HealthLost  int64  `json:"health_lost,omitempty"`
}

func (FightPetEnd) PacketName() string { return "fightPetEnd" }

// ErrorPacket reports a request that could not be handled.
type ErrorPacket struct {
	Error string `json:"error"`
}

func (ErrorPacket) PacketName() string { return "error" }

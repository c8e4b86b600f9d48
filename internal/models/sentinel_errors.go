package models

import "errors"

var (
	ErrInvalidJSON            = errors.New("invalid json")
	ErrUsernameTaken          = errors.New("username taken")
	ErrInvalidLanguage        = errors.New("invalid language")
	ErrMissionSlotsFull       = errors.New("mission slots full")
	ErrMissionAlreadyAssigned = errors.New("mission already assigned")
	ErrUnknownMission         = errors.New("unknown mission")
	ErrNoEligibleSmallEvent   = errors.New("no eligible small event")
	ErrUnknownSmallEvent      = errors.New("unknown small event")
	ErrSmallEventNotEligible  = errors.New("small event not eligible")
	ErrNoEncounter            = errors.New("no fight in progress")
	ErrEncounterInProgress    = errors.New("fight already in progress")
	ErrUnknownAction          = errors.New("unknown action")
	ErrNoWitchChoice          = errors.New("no witch choice pending")
	ErrPlayerNotFound         = errors.New("player not found")
)

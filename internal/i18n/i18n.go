// Package i18n formats player-facing text with golang.org/x/text message catalogs.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedTags = []language.Tag{
	language.English,
	language.French,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag picks the best supported tag for a lang value or Accept-Language header.
// Unknown or empty input resolves to fallback.
func ResolveTag(value string, fallback language.Tag) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedTags[idx]
}

// MissionKey is the catalog key describing a mission.
func MissionKey(missionID string) string {
	return "mission." + missionID
}

// DescribeMission renders the mission description for tag. Missions without a
// dedicated message use the generic one.
func DescribeMission(tag language.Tag, missionID string, variant, objective int) string {
	p := Printer(tag)
	key := MissionKey(missionID)
	if _, ok := missionMessages[missionID]; !ok {
		return p.Sprintf("mission.generic", missionID, objective)
	}
	return p.Sprintf(key, objective, variant)
}

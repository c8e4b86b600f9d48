package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestDescribeMissionUsesVariant(t *testing.T) {
	got := DescribeMission(language.English, "fightMinTurns", 26, 3)
	want := "Win 3 fights lasting at least 26 turns"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDescribeMissionFrench(t *testing.T) {
	got := DescribeMission(language.French, "reachLevel", 0, 20)
	want := "Atteindre le niveau 20"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDescribeMissionGenericFallback(t *testing.T) {
	got := DescribeMission(language.English, "unknownMission", 0, 2)
	want := "Complete mission unknownMission (2 times)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveTag(t *testing.T) {
	cases := []struct {
		in   string
		want language.Tag
	}{
		{"", language.English},
		{"fr", language.French},
		{"fr-CA,fr;q=0.9", language.French},
		{"not a tag!!", language.English},
	}
	for _, tc := range cases {
		if got := ResolveTag(tc.in, language.English); got != tc.want {
			t.Fatalf("ResolveTag(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

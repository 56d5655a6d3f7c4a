package pricing

import (
	"testing"

	"gc.dev/game-prices/pkg/pricing/sources"
)

func TestFingerprint(t *testing.T) {
	base := sources.Query{
		Title:        "Bloodborne",
		PlatformName: "PlayStation 4",
		PlatformSlug: "ps4",
	}

	if Fingerprint(base) != Fingerprint(base) {
		t.Fatal("identical queries must have identical fingerprints")
	}

	variations := map[string]sources.Query{
		"title":         {Title: "Bloodborne GOTY", PlatformName: base.PlatformName, PlatformSlug: base.PlatformSlug},
		"platform name": {Title: base.Title, PlatformName: "PlayStation 5", PlatformSlug: base.PlatformSlug},
		"platform slug": {Title: base.Title, PlatformName: base.PlatformName, PlatformSlug: "ps5"},
		"steam app id":  {Title: base.Title, PlatformName: base.PlatformName, PlatformSlug: base.PlatformSlug, SteamAppID: "1888930"},
	}

	for field, q := range variations {
		if Fingerprint(q) == Fingerprint(base) {
			t.Errorf("changing %s must change the fingerprint", field)
		}
	}
}

func TestFingerprint_NoFieldBleed(t *testing.T) {
	// Length-prefixing must keep adjacent fields from merging.
	a := sources.Query{Title: "ab", PlatformName: "c"}
	b := sources.Query{Title: "a", PlatformName: "bc"}
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("field boundaries must be part of the fingerprint")
	}
}

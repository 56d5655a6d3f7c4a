package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Witcher 3: Wild Hunt", "witcher3wildhunt"},
		{"A Hat in Time", "hatintime"},
		{"Dragon Ball Z", "dragonballz"},
		{"GRAND THEFT AUTO V", "grandtheftautov"},
		{"Ōkami HD", "kamihd"},
		{"  Halo  ", "halo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("abc", "abc"); got != 100 {
		t.Errorf("identical strings: got %v, want 100", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Errorf("empty strings: got %v, want 0", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Errorf("disjoint strings: got %v, want 0", got)
	}

	// Symmetric.
	a, b := "dragonballz", "dragonballzkakarot"
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("similarity must be symmetric")
	}
	// 11 shared chars over 29 total ~ 75.9, below the threshold.
	if got := Similarity(a, b); got >= Threshold {
		t.Errorf("base vs re-release similarity = %v, expected below %v", got, Threshold)
	}
}

func TestBestIndex(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		target     string
		want       int
	}{
		{
			name:       "base title must not match expanded re-release",
			candidates: []string{"Dragon Ball Z Kakarot"},
			target:     "Dragon Ball Z",
			want:       -1,
		},
		{
			name:       "subtitle stripped listing matches",
			candidates: []string{"The Witcher 3: Wild Hunt"},
			target:     "Witcher 3",
			want:       0,
		},
		{
			name:       "exact normalized equality short-circuits",
			candidates: []string{"Hollow Knight (Nintendo Switch)", "HOLLOW KNIGHT"},
			target:     "Hollow Knight",
			want:       1,
		},
		{
			name:       "best of several candidates wins",
			candidates: []string{"Elden Ring Shadow of the Erdtree", "Elden Ring"},
			target:     "Elden Ring",
			want:       1,
		},
		{
			name:       "nothing acceptable",
			candidates: []string{"FIFA 21", "Gran Turismo 7"},
			target:     "Bloodborne",
			want:       -1,
		},
		{
			name:       "empty candidate list",
			candidates: nil,
			target:     "Bloodborne",
			want:       -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestIndex(tt.candidates, tt.target); got != tt.want {
				t.Errorf("BestIndex(%v, %q) = %d, want %d", tt.candidates, tt.target, got, tt.want)
			}
		})
	}
}

package dedup

import "testing"

func TestComparisonText(t *testing.T) {
	tests := []struct {
		title       string
		description string
		want        string
	}{
		{"Pothole on Main St", "Large pothole near the intersection", "pothole on main st large pothole near the intersection"},
		{"  Broken  Streetlight ", "  flickers\tall night\n", "broken streetlight flickers all night"},
		{"NOISE", "LOUD construction at 6AM", "noise loud construction at 6am"},
	}

	for _, tc := range tests {
		got := comparisonText(tc.title, tc.description)
		if got != tc.want {
			t.Fatalf("comparisonText(%q, %q) = %q, want %q", tc.title, tc.description, got, tc.want)
		}
	}
}

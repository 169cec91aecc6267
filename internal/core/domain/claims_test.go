package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClaimsDeduplicatedKeepsFirstSpelling(t *testing.T) {
	claims := Claims{
		Name:     "Jane Doe",
		Skills:   []string{"React", "Go", "react", "GO ", "Python"},
		Projects: []Project{{Name: "Questfi", Description: "first"}, {Name: "questfi", Description: "second"}, {Name: "Data Roots"}},
	}

	got := claims.Deduplicated()

	want := Claims{
		Name:     "Jane Doe",
		Skills:   []string{"React", "Go", "Python"},
		Projects: []Project{{Name: "Questfi", Description: "first"}, {Name: "Data Roots"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Deduplicated() mismatch (-want +got):\n%s", diff)
	}
	if len(claims.Skills) != 5 {
		t.Fatalf("Deduplicated() mutated the receiver: %v", claims.Skills)
	}
}

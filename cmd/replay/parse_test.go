package main

import (
	"strings"
	"testing"

	"github.com/rl1809/stock-tally/internal/core/domain"
)

func TestReadSubmissions(t *testing.T) {
	input := `# restock
apples,5

bolts, 120
nuts, bolts and washers,3
,4
`
	subs, err := readSubmissions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Submission{
		{Product: "apples", Quantity: "5"},
		{Product: "bolts", Quantity: "120"},
		{Product: "nuts, bolts and washers", Quantity: "3"},
		{Product: "", Quantity: "4"},
	}
	if len(subs) != len(want) {
		t.Fatalf("expected %d submissions, got %d: %+v", len(want), len(subs), subs)
	}
	for i := range want {
		if subs[i] != want[i] {
			t.Errorf("line %d: expected %+v, got %+v", i, want[i], subs[i])
		}
	}
}

func TestReadSubmissions_MissingComma(t *testing.T) {
	_, err := readSubmissions(strings.NewReader("apples,5\napples 5\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got: %v", err)
	}
}

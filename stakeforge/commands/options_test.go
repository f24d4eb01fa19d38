package commands

import (
	"errors"
	"testing"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
)

func names(actions []catalog.ActionType) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Name
	}
	return out
}

func TestMatchActions(t *testing.T) {
	snap := catalog.DefaultSnapshot()

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "EmptyListsByID", query: "", limit: 3, want: []string{"forage", "scout", "craft"}},
		{name: "Fuzzy", query: "sc", limit: 25, want: []string{"scout"}},
		{name: "Subsequence", query: "frg", limit: 25, want: []string{"forage"}},
		{name: "NoMatch", query: "zzz", limit: 25, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(matchActions(snap, tt.query, tt.limit))
			if len(got) != len(tt.want) {
				t.Fatalf("matchActions(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("matchActions(%q) = %v, want %v", tt.query, got, tt.want)
					break
				}
			}
		})
	}
}

func TestMatchActions_Limit(t *testing.T) {
	got := matchActions(catalog.DefaultSnapshot(), "", 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestResolveAction(t *testing.T) {
	snap := catalog.DefaultSnapshot()

	tests := []struct {
		in     string
		wantID catalog.ActionID
		ok     bool
	}{
		{in: "4", wantID: 4, ok: true},
		{in: "Raid", wantID: 5, ok: true},
		{in: " scout ", wantID: 2, ok: true},
		{in: "42", ok: false},
		{in: "teleport", ok: false},
	}

	for _, tt := range tests {
		got, err := resolveAction(snap, tt.in)
		if !tt.ok {
			if !errors.Is(err, engine.ErrUnknownAction) {
				t.Errorf("resolveAction(%q) error = %v, want ErrUnknownAction", tt.in, err)
			}
			continue
		}
		if err != nil || got.ID != tt.wantID {
			t.Errorf("resolveAction(%q) = %d, %v, want %d", tt.in, got.ID, err, tt.wantID)
		}
	}
}

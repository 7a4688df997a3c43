package blockfall

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/tui-blockfall/internal/core"
)

func TestEncodeSnapshotLayout(t *testing.T) {
	g := newTestGame(ModeRush, 3)
	in := core.NewInputFrame()
	in.Set(core.ActionHardDrop)
	g.Step(in)

	data, err := EncodeSnapshot(ModeRush, g.Snapshot())
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	text := string(data)

	for _, want := range []string{"version: 2", "mode: rush", "field:", "piece:", "bag:", "drop_interval: 1s"} {
		if !strings.Contains(text, want) {
			t.Errorf("save is missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "- __________") {
		t.Error("empty rows should be stored as underscores")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame(ModeMarathon, 21)
	autoplay(g, 400)
	g.Engine().AwardAchievement(500)
	in := core.NewInputFrame()
	in.Set(core.ActionHold2)
	g.Step(in)

	want := g.Snapshot()
	data, err := EncodeSnapshot(ModeMarathon, want)
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	mode, got, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if mode != ModeMarathon {
		t.Errorf("mode = %q, expected marathon", mode)
	}

	// Derived fields are recomputed by the engine, not stored.
	got.Next = want.Next
	got.GhostY = want.GhostY
	got.Rank = want.Rank
	got.RankProgress = want.RankProgress

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSnapshotRejects(t *testing.T) {
	data, err := EncodeSnapshot(ModeMarathon, newTestGame(ModeMarathon, 1).Snapshot())
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	good := string(data)

	tests := []struct {
		name    string
		corrupt func(string) string
	}{
		{"not yaml", func(string) string { return "field: [" }},
		{"version", func(s string) string { return strings.Replace(s, "version: 2", "version: 7", 1) }},
		{"short row", func(s string) string { return strings.Replace(s, "- __________", "- _________", 1) }},
		{"bad cell", func(s string) string { return strings.Replace(s, "- __________", "- _____X____", 1) }},
		{"bad piece kind", func(s string) string { return strings.Replace(s, "kind: ", "kind: Q", 1) }},
		{"bad rng", func(s string) string { return strings.Replace(s, "rng: ", "rng: zz", 1) }},
		{"bad pick rng", func(s string) string { return strings.Replace(s, "pick_rng: ", "pick_rng: zz", 1) }},
		{"bad queue", func(s string) string { return strings.Replace(s, "queue: ", "queue: Q", 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupted := tt.corrupt(good)
			if corrupted == good {
				t.Fatal("corruption did not change the save")
			}
			if _, _, err := DecodeSnapshot([]byte(corrupted)); err == nil {
				t.Error("DecodeSnapshot() should fail")
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"I", "O", "T", "S", "Z", "J", "L"} {
		k, ok := parseKind(s)
		if !ok || k.String() != s {
			t.Errorf("parseKind(%q) = %v, %v", s, k, ok)
		}
	}
	if _, ok := parseKind("X"); ok {
		t.Error("parseKind(X) should fail")
	}
}

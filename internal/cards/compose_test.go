package cards

import (
	"strings"
	"testing"
)

func TestComposeBothWithVolume(t *testing.T) {
	cs, err := Compose(FlowBoth, Defaults{}, 2.75, []string{"ERG=1.0"}, indexedLattice())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	assertLines(t, cs, []string{
		"F4:N ( 101 < 50[3 4 0] < 1 )",
		"SD4 2.75  $ Volume of Cell 101 in cm3",
		"SDEF CEL=d1 ERG=1.0",
		"SI1 L ( 101 < 50[3 4 0] < 1 )",
		"SP1 1",
	})
}

func TestComposeTallyWithoutVolumeGivesAdvice(t *testing.T) {
	cs, err := Compose(FlowTally, Defaults{Tally: 14, Particle: "p"}, 0, nil, indexedLattice())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	assertLines(t, cs, []string{"F14:P ( 101 < 50[3 4 0] < 1 )"})
	if len(cs.Advice) == 0 {
		t.Fatal("expected SD advice when the volume is unknown")
	}
	joined := strings.Join(cs.Advice, "\n")
	if !strings.Contains(joined, "SD14") {
		t.Errorf("advice does not mention SD14:\n%s", joined)
	}
}

func TestComposeSourceIgnoresVolume(t *testing.T) {
	cs, err := Compose(FlowSource, Defaults{Distribution: 2}, 99, nil, simpleChain())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	assertLines(t, cs, []string{
		"SDEF CEL=d2",
		"SI2 L ( 5 < 2 < 1 )",
		"SP2 1",
	})
}

func TestComposeUnionCarriesNote(t *testing.T) {
	cs, err := Compose(FlowTally, Defaults{}, 1.5, nil, unionLattice())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(cs.Paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(cs.Paths))
	}
	if len(cs.Notes) == 0 || !strings.Contains(cs.Notes[0], "unions 2 element paths") {
		t.Errorf("notes = %v, want a non-contiguous note", cs.Notes)
	}
}

func TestComposeRejectsUnknownMode(t *testing.T) {
	if _, err := Compose("deck", Defaults{}, 0, nil, simpleChain()); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

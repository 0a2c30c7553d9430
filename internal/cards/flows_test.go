package cards

import (
	"strings"
	"testing"

	"mcnpath/internal/wizard"
)

func resolveFlow(t *testing.T, id string) Flow {
	t.Helper()
	flow, err := DefaultRegistry().Resolve(id, Defaults{})
	if err != nil {
		t.Fatalf("resolve %s: %v", id, err)
	}
	return flow
}

func TestTallyFlowWithKnownVolume(t *testing.T) {
	script := wizard.NewScript(
		"4", "n", // tally number, particle
		"y", "2.75", // volume known
	)
	cs, err := resolveFlow(t, FlowTally).Collect(script, indexedLattice())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{
		"F4:N ( 101 < 50[3 4 0] < 1 )",
		"SD4 2.75  $ Volume of Cell 101 in cm3",
	}
	assertLines(t, cs, want)
	if len(cs.Advice) == 0 || !strings.Contains(cs.Advice[0], "2.75 cm3") {
		t.Fatalf("expected volume advice, got %v", cs.Advice)
	}
}

func TestTallyFlowUnknownVolumeGivesAdvice(t *testing.T) {
	script := wizard.NewScript("4", "n", "n")
	cs, err := resolveFlow(t, FlowTally).Collect(script, indexedLattice())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(cs.Cards) != 1 {
		t.Fatalf("expected only the tally card, got %v", cs.Lines())
	}
	joined := strings.Join(cs.Advice, "\n")
	if !strings.Contains(joined, "SD4 <volume of cell 101 in cm3>") {
		t.Fatalf("advice should show the SD format, got %q", joined)
	}
	if !strings.Contains(joined, "SD4 2.75  $ Volume of Cell 101 in cm3") {
		t.Fatalf("advice should show a worked example, got %q", joined)
	}
}

func TestTallyFlowSkipsVolumeQuestionsWithoutLattice(t *testing.T) {
	script := wizard.NewScript("4", "n")
	cs, err := resolveFlow(t, FlowTally).Collect(script, simpleChain())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	assertLines(t, cs, []string{"F4:N ( 5 < 2 < 1 )"})
	if script.Remaining() != 0 {
		t.Fatalf("%d answers left over", script.Remaining())
	}
}

func TestTallyFlowEmptyParticleKeepsDefault(t *testing.T) {
	script := wizard.NewScript("7", " ")
	cs, err := resolveFlow(t, FlowTally).Collect(script, simpleChain())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if cs.Cards[0].Line != "F7:N ( 5 < 2 < 1 )" {
		t.Fatalf("got %q", cs.Cards[0].Line)
	}
}

func TestSourceFlowCollectsExtrasVerbatim(t *testing.T) {
	script := wizard.NewScript(
		"1",                    // distribution
		"y", "10.0", "0.0", "5.0", // POS
		"y", "1.0", // ERG
	)
	cs, err := resolveFlow(t, FlowSource).Collect(script, simpleChain())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{
		"SDEF CEL=d1 POS=10.0 0.0 5.0 ERG=1.0",
		"SI1 L ( 5 < 2 < 1 )",
		"SP1 1",
	}
	assertLines(t, cs, want)
	if len(cs.Notes) == 0 || !strings.Contains(cs.Notes[0], "local frame") {
		t.Fatalf("expected the local-frame note, got %v", cs.Notes)
	}
}

func TestSourceFlowWithoutExtras(t *testing.T) {
	script := wizard.NewScript("1", "n", "n")
	cs, err := resolveFlow(t, FlowSource).Collect(script, simpleChain())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if cs.Cards[0].Line != "SDEF CEL=d1" {
		t.Fatalf("got %q", cs.Cards[0].Line)
	}
}

func TestSourceFlowReasksUnparsableNumber(t *testing.T) {
	script := wizard.NewScript("1", "n", "y", "abc", "1.0")
	cs, err := resolveFlow(t, FlowSource).Collect(script, simpleChain())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if cs.Cards[0].Line != "SDEF CEL=d1 ERG=1.0" {
		t.Fatalf("got %q", cs.Cards[0].Line)
	}
}

func TestBothFlowSharesOneStack(t *testing.T) {
	script := wizard.NewScript(
		"4", "n", "n", // tally questions, volume unknown
		"1", "n", "y", "1.0", // source questions
	)
	cs, err := resolveFlow(t, FlowBoth).Collect(script, indexedLattice())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{
		"F4:N ( 101 < 50[3 4 0] < 1 )",
		"SDEF CEL=d1 ERG=1.0",
		"SI1 L ( 101 < 50[3 4 0] < 1 )",
		"SP1 1",
	}
	assertLines(t, cs, want)
	if script.Remaining() != 0 {
		t.Fatalf("%d answers left over", script.Remaining())
	}
}

func TestRegistryListsBuiltinFlows(t *testing.T) {
	reg := DefaultRegistry()
	ids := reg.IDs()
	want := []string{FlowBoth, FlowSource, FlowTally} // sorted
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestRegistryRejectsDuplicateAndUnknown(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.Register(FlowTally, func(Defaults) (Flow, error) { return tallyFlow{}, nil })
	if err == nil {
		t.Fatalf("duplicate registration accepted")
	}
	if _, err := reg.Resolve("nope", Defaults{}); err == nil {
		t.Fatalf("unknown flow resolved")
	}
}

func TestDefaultsNormalization(t *testing.T) {
	d := Defaults{}.normalized()
	if d.Tally != 4 || d.Particle != "n" || d.Distribution != 1 {
		t.Fatalf("unexpected defaults %+v", d)
	}
	d = Defaults{Tally: 14, Particle: "p", Distribution: 3}.normalized()
	if d.Tally != 14 || d.Particle != "p" || d.Distribution != 3 {
		t.Fatalf("explicit defaults clobbered: %+v", d)
	}
}

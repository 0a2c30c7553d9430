package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// resetFlags points the package flag globals at a throwaway project and
// restores them afterwards, so tests can call the run helpers directly.
func resetFlags(t *testing.T) {
	t.Helper()
	projectDir = t.TempDir()
	noColor = true
	t.Cleanup(func() {
		projectDir = "."
		noColor = false
		renderPreset, renderVerify, renderOut, renderStdout, renderSet = "", false, "", false, nil
		verifyPreset = ""
		guidePlain = false
		wizardAnswers, wizardVerify = "", false
	})
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestRenderStdoutPrintsCards(t *testing.T) {
	resetFlags(t)
	renderPreset = "fuel-pin-element"
	renderStdout = true
	renderVerify = true

	cmd, buf := newTestCmd()
	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"F4:N ( 101 < 50[3 4 0] < 1 )",
		"SD4 2.75  $ Volume of Cell 101 in cm3",
		"SDEF CEL=d1 ERG=1.0",
		"SI1 L ( 101 < 50[3 4 0] < 1 )",
		"SP1 1",
		"NPS 50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSetOverridesDefaults(t *testing.T) {
	resetFlags(t)
	renderPreset = "fuel-pin-element"
	renderStdout = true
	renderSet = []string{"tally=14", "particle=p", "mode=tally"}

	cmd, buf := newTestCmd()
	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "F14:P ( 101 < 50[3 4 0] < 1 )") {
		t.Errorf("overrides not applied:\n%s", out)
	}
	if !strings.Contains(out, "SD14 2.75") {
		t.Errorf("SD card should follow the overridden tally number:\n%s", out)
	}
	if strings.Contains(out, "SDEF") {
		t.Errorf("mode=tally should drop the source cards:\n%s", out)
	}
}

func TestRenderRejectsBadSetPairs(t *testing.T) {
	resetFlags(t)
	renderPreset = "fuel-pin-element"
	renderStdout = true

	renderSet = []string{"nonsense"}
	cmd, _ := newTestCmd()
	if err := runRender(cmd, nil); err == nil || !strings.Contains(err.Error(), "not key=value") {
		t.Errorf("want key=value error, got %v", err)
	}

	renderSet = []string{"color=red"}
	cmd, _ = newTestCmd()
	if err := runRender(cmd, nil); err == nil || !strings.Contains(err.Error(), "unknown --set key") {
		t.Errorf("want unknown key error, got %v", err)
	}

	renderSet = []string{"tally=soon"}
	cmd, _ = newTestCmd()
	if err := runRender(cmd, nil); err == nil || !strings.Contains(err.Error(), "not a whole number") {
		t.Errorf("want number error, got %v", err)
	}
}

func TestRenderWritesArtifacts(t *testing.T) {
	resetFlags(t)
	renderPreset = "simple-nest"
	renderOut = filepath.Join(t.TempDir(), "out")
	renderVerify = true

	cmd, buf := newTestCmd()
	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !strings.Contains(buf.String(), "Saved ") {
		t.Errorf("expected saved paths in output:\n%s", buf.String())
	}

	cardsBody, err := os.ReadFile(filepath.Join(renderOut, "cards.txt"))
	if err != nil {
		t.Fatalf("read cards.txt: %v", err)
	}
	if !strings.Contains(string(cardsBody), "F4:N ( 5 < 2 < 1 )") {
		t.Errorf("cards.txt missing tally line:\n%s", cardsBody)
	}

	deck, err := os.ReadFile(filepath.Join(renderOut, "verify.inp"))
	if err != nil {
		t.Fatalf("read verify.inp: %v", err)
	}
	if !strings.HasPrefix(string(deck), "C --- ") {
		t.Errorf("deck should start with its title card:\n%s", deck)
	}

	summary, err := os.ReadFile(filepath.Join(renderOut, "summary.txt"))
	if err != nil {
		t.Fatalf("read summary.txt: %v", err)
	}
	if !strings.Contains(string(summary), "Cell 5") {
		t.Errorf("summary.txt missing target cell:\n%s", summary)
	}
}

func TestRenderSkipsDeckWithoutVerify(t *testing.T) {
	resetFlags(t)
	renderPreset = "simple-nest"
	renderOut = filepath.Join(t.TempDir(), "out")

	cmd, _ := newTestCmd()
	if err := runRender(cmd, nil); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if _, err := os.Stat(filepath.Join(renderOut, "verify.inp")); !os.IsNotExist(err) {
		t.Errorf("verify.inp should not exist without --verify, stat err %v", err)
	}
}

func TestPresetsListShowsBuiltins(t *testing.T) {
	resetFlags(t)
	cmd, buf := newTestCmd()
	if err := runPresetsList(cmd, nil); err != nil {
		t.Fatalf("runPresetsList: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fuel-pin-element") {
		t.Errorf("listing missing builtin id:\n%s", out)
	}
	if !strings.Contains(out, "Fuel pin inside an assembly lattice element") {
		t.Errorf("listing missing title:\n%s", out)
	}
}

func TestPresetsShowPrintsDefinitionAndPath(t *testing.T) {
	resetFlags(t)
	cmd, buf := newTestCmd()
	if err := runPresetsShow(cmd, []string{"simple-nest"}); err != nil {
		t.Fatalf("runPresetsShow: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# builtin:simple-nest",
		"id: simple-nest",
		"# path: ( 5 < 2 < 1 )",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestPresetsLintCleanOnFreshProject(t *testing.T) {
	resetFlags(t)
	cmd, buf := newTestCmd()
	if err := runPresetsLint(cmd, nil); err != nil {
		t.Fatalf("runPresetsLint: %v", err)
	}
	if !strings.Contains(buf.String(), "preset(s) clean") {
		t.Errorf("expected clean report:\n%s", buf.String())
	}
}

func TestPresetsLintReportsExpectMismatch(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := `id: bad-expect
mode: tally
tally: 4
stack:
  - cell: 5
    universe: 10
  - cell: 1
expect:
  path: "( 9 < 9 )"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, buf := newTestCmd()
	err := runPresetsLint(cmd, []string{path})
	if err == nil || !strings.Contains(err.Error(), "problem(s)") {
		t.Fatalf("want lint failure, got %v", err)
	}
	if !strings.Contains(buf.String(), "does not match expected") {
		t.Errorf("findings missing expect mismatch:\n%s", buf.String())
	}
}

func TestPresetsLintTreatsUnloadableFileAsFinding(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("id: [not valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, buf := newTestCmd()
	err := runPresetsLint(cmd, []string{path})
	if err == nil {
		t.Fatal("want lint failure for unloadable file")
	}
	if !strings.Contains(buf.String(), "broken.yaml") {
		t.Errorf("finding should name the file:\n%s", buf.String())
	}
}

func TestVerifyPrintsUnionDeck(t *testing.T) {
	resetFlags(t)
	verifyPreset = "union-corners"

	cmd, buf := newTestCmd()
	if err := runVerify(cmd, nil); err != nil {
		t.Fatalf("runVerify: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SI1 L ( ( 101 < 50[0 0 0] < 1 ) ( 101 < 50[9 9 0] < 1 ) )") {
		t.Errorf("deck missing wrapped union:\n%s", out)
	}
	if !strings.Contains(out, "NPS 50") || !strings.Contains(out, "PRINT 110") {
		t.Errorf("deck missing smoke-test cards:\n%s", out)
	}
}

func TestGuidePlainOutput(t *testing.T) {
	resetFlags(t)
	guidePlain = true

	cmd, buf := newTestCmd()
	if err := runGuide(cmd, nil); err != nil {
		t.Fatalf("runGuide: %v", err)
	}
	if !strings.Contains(buf.String(), "MCNP") {
		t.Errorf("guide output looks empty:\n%s", buf.String())
	}
}

const latticeAnswers = `# tally over one element of a rectangular lattice
1      # mode: tally cards
101    # target cell
y      # inside a universe
5      # universe id
50     # cell filling universe 5
y      # it is a lattice
1      # rectangular
2      # fully specified FILL
y      # single element
3 4 0  # the element index
n      # cell 50 sits in the global universe
4      # tally number
n      # particle: neutrons
n      # volume not known
`

func TestWizardScriptedAnswerFile(t *testing.T) {
	resetFlags(t)
	wizardAnswers = filepath.Join(projectDir, "answers.txt")
	wizardVerify = true
	if err := os.WriteFile(wizardAnswers, []byte(latticeAnswers), 0o644); err != nil {
		t.Fatalf("write answers: %v", err)
	}

	cmd, buf := newTestCmd()
	if err := runWizard(cmd, nil); err != nil {
		t.Fatalf("runWizard: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"F4:N ( 101 < 50[3 4 0] )",
		"SD4 <volume of cell 101 in cm3>",
		"NPS 50",
		"Cell 101",
		"<- target",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWizardScriptedRejectsUnknownMode(t *testing.T) {
	resetFlags(t)
	cmd, _ := newTestCmd()
	err := runScripted(cmd, strings.NewReader("9\n"))
	if err == nil || !strings.Contains(err.Error(), "not one of") {
		t.Fatalf("err = %v, want a mode complaint", err)
	}
}

func TestWizardScriptedRejectsLeftoverAnswers(t *testing.T) {
	resetFlags(t)
	cmd, buf := newTestCmd()
	err := runScripted(cmd, strings.NewReader(latticeAnswers+"999\n"))
	if err == nil || !strings.Contains(err.Error(), "left over") {
		t.Fatalf("err = %v, want a leftover complaint", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should print on a misaligned answer file, got:\n%s", buf.String())
	}
}

func TestWizardScriptedReportsMissingAnswerFile(t *testing.T) {
	resetFlags(t)
	wizardAnswers = filepath.Join(projectDir, "no-such.txt")
	cmd, _ := newTestCmd()
	if err := runWizard(cmd, nil); err == nil {
		t.Fatal("expected an error for a missing answer file")
	}
}

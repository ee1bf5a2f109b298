package cmd

import (
	"errors"
	"flag"
	"testing"

	"github.com/etnz/fairval"
)

// parseArgs runs the shared assumption flags against a command line.
func parseArgs(t *testing.T, args ...string) (fairval.Assumptions, error) {
	t.Helper()
	var af assumptionsFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	af.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) unexpected error = %v", args, err)
	}
	return af.parse()
}

func TestAssumptionsFlagsDefaults(t *testing.T) {
	a, err := parseArgs(t)
	if err != nil {
		t.Fatalf("parse() unexpected error = %v", err)
	}
	def := fairval.DefaultAssumptions()
	if a.Years != def.Years || a.DiscountRate != def.DiscountRate || a.TerminalGrowth != def.TerminalGrowth {
		t.Errorf("parse() = %+v, want the defaults %+v", a, def)
	}
	if g, ok := a.Growth.(fairval.FlatGrowth); !ok || g != def.Growth.(fairval.FlatGrowth) {
		t.Errorf("parse() growth = %v, want default flat growth", a.Growth)
	}
}

func TestAssumptionsFlags(t *testing.T) {
	a, err := parseArgs(t, "-y", "7", "-g", "0.04", "-d", "0.12", "-tg", "0.01")
	if err != nil {
		t.Fatalf("parse() unexpected error = %v", err)
	}
	if a.Years != 7 || a.DiscountRate != 0.12 || a.TerminalGrowth != 0.01 {
		t.Errorf("parse() = %+v", a)
	}
	if g := a.Growth.(fairval.FlatGrowth); g != 0.04 {
		t.Errorf("parse() growth = %v, want 0.04", g)
	}
}

func TestAssumptionsFlagsStages(t *testing.T) {
	a, err := parseArgs(t, "-stages", "0.08, 0.06,0.04")
	if err != nil {
		t.Fatalf("parse() unexpected error = %v", err)
	}
	staged, ok := a.Growth.(fairval.StagedGrowth)
	if !ok {
		t.Fatalf("parse() growth = %T, want StagedGrowth", a.Growth)
	}
	want := fairval.StagedGrowth{0.08, 0.06, 0.04}
	if len(staged) != len(want) {
		t.Fatalf("parse() stages = %v, want %v", staged, want)
	}
	for i := range want {
		if staged[i] != want[i] {
			t.Errorf("parse() stage %d = %v, want %v", i, staged[i], want[i])
		}
	}
}

func TestAssumptionsFlagsErrors(t *testing.T) {
	if _, err := parseArgs(t, "-stages", "0.08,zero"); err == nil {
		t.Error("parse() with a non-numeric stage should fail")
	}
	if _, err := parseArgs(t, "-d", "0.01", "-tg", "0.02"); !errors.Is(err, fairval.ErrInvalidAssumptions) {
		t.Errorf("parse() error = %v, want ErrInvalidAssumptions", err)
	}
}

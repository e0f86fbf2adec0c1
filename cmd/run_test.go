package cmd

import (
	"testing"
)

func TestRunCommand_Flags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"run"})
	if err != nil {
		t.Fatalf("run command not found: %v", err)
	}

	for _, name := range []string{"name", "minutes", "seconds", "no-agenda", "out"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("run command should have --%s", name)
		}
	}

	if def := cmd.Flags().Lookup("minutes").DefValue; def != "10" {
		t.Errorf("--minutes default = %s, want 10", def)
	}
}

func TestRunCommand_RejectsArgs(t *testing.T) {
	if _, err := execute(t, "", "run", "extra"); err == nil {
		t.Error("run should reject positional arguments")
	}
}

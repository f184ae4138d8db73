package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir changes the working directory for the duration of the test,
// matching the behavior of t.Chdir (added in Go 1.24, unavailable here).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore wd: %v", err)
		}
	})
}

func TestRunVersion(t *testing.T) {
	if err := Run(context.Background(), []string{"version"}); err != nil {
		t.Errorf("version: got %v, want nil", err)
	}
}

func TestRunHelp(t *testing.T) {
	if err := Run(context.Background(), []string{"-h"}); err != nil {
		t.Errorf("help: got %v, want nil", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := Run(context.Background(), []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unknown command: got %v, want unknown command error", err)
	}
}

func TestDoctorMissingSlotIsHealthy(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	args := []string{
		"-store", filepath.Join(dir, "tasks.json"),
		"-log-dir", dir,
		"doctor",
	}
	if err := Run(context.Background(), args); err != nil {
		t.Errorf("doctor: got %v, want nil (missing slot is first run, not damage)", err)
	}
}

func TestDoctorCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	slot := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(slot, []byte("{{{"), 0644); err != nil {
		t.Fatalf("write slot: %v", err)
	}

	args := []string{"-store", slot, "-log-dir", dir, "doctor"}
	err := Run(context.Background(), args)
	if err == nil || !strings.Contains(err.Error(), "doctor found problems") {
		t.Errorf("doctor on corrupt slot: got %v, want problems error", err)
	}
}

func TestConfigInit(t *testing.T) {
	chdir(t, t.TempDir())

	if err := Run(context.Background(), []string{"config", "-init"}); err != nil {
		t.Fatalf("config -init: got %v, want nil", err)
	}
	if _, err := os.Stat("taskpad.toml"); err != nil {
		t.Fatalf("taskpad.toml not written: %v", err)
	}

	// A second init must refuse to overwrite.
	err := Run(context.Background(), []string{"config", "-init"})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init: got %v, want already exists error", err)
	}
}

func TestConfigShow(t *testing.T) {
	chdir(t, t.TempDir())
	if err := Run(context.Background(), []string{"config"}); err != nil {
		t.Errorf("config: got %v, want nil", err)
	}
}

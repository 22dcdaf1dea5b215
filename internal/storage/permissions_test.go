package storage

import (
	"testing"
	"time"
)

func TestConnectorLevelDefault(t *testing.T) {
	s := setupStore(t)

	level, err := s.ConnectorLevel("u1", "gmail")
	if err != nil {
		t.Fatalf("ConnectorLevel: %v", err)
	}
	if level != 0 {
		t.Errorf("Level = %d, want default 0", level)
	}
}

func TestSetConnectorLevel(t *testing.T) {
	s := setupStore(t)

	if err := s.SetConnectorLevel("u1", "xero", 2); err != nil {
		t.Fatalf("SetConnectorLevel: %v", err)
	}
	level, _ := s.ConnectorLevel("u1", "xero")
	if level != 2 {
		t.Errorf("Level = %d, want 2", level)
	}

	// Upsert replaces.
	if err := s.SetConnectorLevel("u1", "xero", 3); err != nil {
		t.Fatalf("SetConnectorLevel (again): %v", err)
	}
	level, _ = s.ConnectorLevel("u1", "xero")
	if level != 3 {
		t.Errorf("Level = %d, want 3", level)
	}

	// Other users unaffected.
	level, _ = s.ConnectorLevel("u2", "xero")
	if level != 0 {
		t.Errorf("Other user's level = %d, want 0", level)
	}
}

func TestSetConnectorLevelRange(t *testing.T) {
	s := setupStore(t)

	if err := s.SetConnectorLevel("u1", "xero", 4); err == nil {
		t.Error("Expected error for level 4")
	}
	if err := s.SetConnectorLevel("u1", "xero", -1); err == nil {
		t.Error("Expected error for level -1")
	}
}

func TestLegacyGlobalLevelFallback(t *testing.T) {
	s := setupStore(t)

	if err := s.SetConnectorLevel("u1", LegacyConnector, 1); err != nil {
		t.Fatalf("SetConnectorLevel: %v", err)
	}

	// No gmail record: falls through to the legacy global level.
	level, err := s.ConnectorLevel("u1", "gmail")
	if err != nil {
		t.Fatalf("ConnectorLevel: %v", err)
	}
	if level != 1 {
		t.Errorf("Level = %d, want legacy 1", level)
	}

	// A per-connector record wins over the legacy level.
	s.SetConnectorLevel("u1", "gmail", 3)
	level, _ = s.ConnectorLevel("u1", "gmail")
	if level != 3 {
		t.Errorf("Level = %d, want 3", level)
	}
}

func TestVacationWindow(t *testing.T) {
	s := setupStore(t)

	until, err := s.VacationUntil("u1")
	if err != nil {
		t.Fatalf("VacationUntil: %v", err)
	}
	if until != nil {
		t.Errorf("Expected no vacation window, got %v", until)
	}

	end := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	if err := s.SetVacationUntil("u1", &end); err != nil {
		t.Fatalf("SetVacationUntil: %v", err)
	}

	until, err = s.VacationUntil("u1")
	if err != nil {
		t.Fatalf("VacationUntil: %v", err)
	}
	if until == nil || !until.Equal(end) {
		t.Errorf("Window = %v, want %v", until, end)
	}

	// Clearing.
	if err := s.SetVacationUntil("u1", nil); err != nil {
		t.Fatalf("SetVacationUntil (clear): %v", err)
	}
	until, _ = s.VacationUntil("u1")
	if until != nil {
		t.Errorf("Expected cleared window, got %v", until)
	}
}

package policy

import (
	"testing"
	"time"
)

// fakePerms is an in-memory PermissionReader for gate tests.
type fakePerms struct {
	levels   map[string]int // key: userID + "/" + connector
	vacation map[string]time.Time
}

func newFakePerms() *fakePerms {
	return &fakePerms{
		levels:   make(map[string]int),
		vacation: make(map[string]time.Time),
	}
}

func (f *fakePerms) ConnectorLevel(userID, connector string) (int, error) {
	if level, ok := f.levels[userID+"/"+connector]; ok {
		return level, nil
	}
	if level, ok := f.levels[userID+"/*"]; ok {
		return level, nil
	}
	return 0, nil
}

func (f *fakePerms) VacationUntil(userID string) (*time.Time, error) {
	if until, ok := f.vacation[userID]; ok {
		return &until, nil
	}
	return nil, nil
}

func testGate(perms *fakePerms) *Gate {
	g := NewGate(perms)
	g.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestNonConnectorToolAlwaysAllowed(t *testing.T) {
	g := testGate(newFakePerms())

	d, err := g.CheckToolPermission("u1", "read_graph")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if !d.Allowed {
		t.Error("Expected non-connector tool to be allowed")
	}
	if d.Connector != "" || d.Reason != "" {
		t.Errorf("Expected empty decision details, got %+v", d)
	}
}

func TestDefaultLevelReadOnly(t *testing.T) {
	g := testGate(newFakePerms())

	// Level-0 tool allowed with no stored record.
	d, err := g.CheckToolPermission("u1", "gmail_list_messages")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if !d.Allowed {
		t.Errorf("Expected level-0 tool allowed, got %+v", d)
	}

	// Level-1 tool denied with explicit levels in the decision.
	d, err = g.CheckToolPermission("u1", "gmail_create_draft")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if d.Allowed {
		t.Error("Expected level-1 tool denied at default level")
	}
	if d.RequiredLevel == nil || *d.RequiredLevel != LevelCreate {
		t.Errorf("RequiredLevel = %v, want 1", d.RequiredLevel)
	}
	if d.CurrentLevel == nil || *d.CurrentLevel != LevelRead {
		t.Errorf("CurrentLevel = %v, want 0", d.CurrentLevel)
	}
	if d.Reason == "" {
		t.Error("Expected a user-facing reason")
	}
	if d.Connector != ConnectorGmail {
		t.Errorf("Connector = %q, want gmail", d.Connector)
	}
}

func TestSufficientLevelAllowed(t *testing.T) {
	perms := newFakePerms()
	perms.levels["u1/xero"] = 2
	g := testGate(perms)

	for tool, want := range map[string]bool{
		"xero_list_invoices":  true,
		"xero_create_invoice": true,
		"xero_update_invoice": true,
		"xero_void_invoice":   false,
	} {
		d, err := g.CheckToolPermission("u1", tool)
		if err != nil {
			t.Fatalf("CheckToolPermission(%s): %v", tool, err)
		}
		if d.Allowed != want {
			t.Errorf("%s: allowed = %v, want %v", tool, d.Allowed, want)
		}
	}
}

func TestVacationModeOverridesLevel(t *testing.T) {
	perms := newFakePerms()
	perms.levels["u1/xero"] = 3
	perms.vacation["u1"] = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	g := testGate(perms)

	// Level > 0 denied despite the stored level 3.
	d, err := g.CheckToolPermission("u1", "xero_create_invoice")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if d.Allowed {
		t.Error("Expected denial during vacation")
	}
	if !d.VacationMode {
		t.Error("Expected VacationMode flag")
	}

	// Level-0 tools still work.
	d, err = g.CheckToolPermission("u1", "xero_list_invoices")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if !d.Allowed {
		t.Error("Expected read-only tool allowed during vacation")
	}
}

func TestExpiredVacationIgnored(t *testing.T) {
	perms := newFakePerms()
	perms.levels["u1/xero"] = 1
	perms.vacation["u1"] = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	g := testGate(perms)

	d, err := g.CheckToolPermission("u1", "xero_create_invoice")
	if err != nil {
		t.Fatalf("CheckToolPermission: %v", err)
	}
	if !d.Allowed {
		t.Errorf("Expected expired vacation window to be ignored, got %+v", d)
	}
}

func TestVisibleTools(t *testing.T) {
	perms := newFakePerms()
	perms.levels["u1/gmail"] = 1
	g := testGate(perms)

	allowed, err := g.VisibleTools("u1", []string{
		"gmail_list_messages",
		"gmail_create_draft",
		"gmail_send_message",
		"read_graph",
	})
	if err != nil {
		t.Fatalf("VisibleTools: %v", err)
	}

	want := []string{"gmail_list_messages", "gmail_create_draft", "read_graph"}
	if len(allowed) != len(want) {
		t.Fatalf("Allowed = %v, want %v", allowed, want)
	}
	for i := range want {
		if allowed[i] != want[i] {
			t.Errorf("Allowed[%d] = %q, want %q", i, allowed[i], want[i])
		}
	}
}

package policy

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	r, ok := Lookup("xero_void_invoice")
	if !ok {
		t.Fatal("Expected xero_void_invoice in the table")
	}
	if r.Connector != ConnectorXero || r.Level != LevelDestructive {
		t.Errorf("Rule = %+v, want xero destructive", r)
	}

	if _, ok := Lookup("read_graph"); ok {
		t.Error("Memory tools must not appear in the connector table")
	}
}

func TestValidate(t *testing.T) {
	routable := append(ConnectorTools(), "read_graph", "set_scope")

	if err := Validate(routable, []string{"read_graph", "set_scope"}); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsUnmappedTool(t *testing.T) {
	err := Validate([]string{"slack_post_message"}, nil)
	if err == nil {
		t.Fatal("Expected configuration error for unmapped tool")
	}
	if !strings.Contains(err.Error(), "slack_post_message") {
		t.Errorf("Error should name the offending tool: %v", err)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelRead:        "read-only",
		LevelCreate:      "create",
		LevelUpdate:      "update",
		LevelDestructive: "destructive",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

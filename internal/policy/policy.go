// Package policy maps connector-backed tools to required permission levels
// and decides whether a given user may run a given tool.
package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Connector identifies an external integration whose tools are
// permission-gated. The set is closed: a tool naming any other connector is
// a configuration error, caught by Validate at startup.
type Connector string

const (
	ConnectorXero   Connector = "xero"
	ConnectorGmail  Connector = "gmail"
	ConnectorSheets Connector = "sheets"
)

// Level is an ordered permission tier. The tool table encodes which tools
// sit at which tier; the gate only compares levels numerically.
type Level int

const (
	LevelRead        Level = 0 // read-only
	LevelCreate      Level = 1 // create new records
	LevelUpdate      Level = 2 // update or approve existing records
	LevelDestructive Level = 3 // destructive or irreversible actions
)

// String returns the human-readable tier name used in denial reasons.
func (l Level) String() string {
	switch l {
	case LevelRead:
		return "read-only"
	case LevelCreate:
		return "create"
	case LevelUpdate:
		return "update"
	case LevelDestructive:
		return "destructive"
	default:
		return fmt.Sprintf("level %d", int(l))
	}
}

// Rule is one tool-table entry: which connector a tool belongs to and the
// minimum level required to run it.
type Rule struct {
	Connector Connector
	Level     Level
}

// toolTable is the static mapping from connector tool name to its rule.
// Tools absent from this table are not connector tools and are always
// permitted by the gate.
var toolTable = map[string]Rule{
	// Xero (accounting)
	"xero_list_invoices":  {ConnectorXero, LevelRead},
	"xero_get_invoice":    {ConnectorXero, LevelRead},
	"xero_list_contacts":  {ConnectorXero, LevelRead},
	"xero_create_invoice": {ConnectorXero, LevelCreate},
	"xero_create_contact": {ConnectorXero, LevelCreate},
	"xero_update_invoice": {ConnectorXero, LevelUpdate},
	"xero_approve_quote":  {ConnectorXero, LevelUpdate},
	"xero_void_invoice":   {ConnectorXero, LevelDestructive},
	"xero_delete_contact": {ConnectorXero, LevelDestructive},

	// Gmail (email)
	"gmail_list_messages": {ConnectorGmail, LevelRead},
	"gmail_read_message":  {ConnectorGmail, LevelRead},
	"gmail_create_draft":  {ConnectorGmail, LevelCreate},
	"gmail_send_message":  {ConnectorGmail, LevelUpdate},
	"gmail_delete_thread": {ConnectorGmail, LevelDestructive},

	// Sheets (spreadsheets)
	"sheets_read_range":   {ConnectorSheets, LevelRead},
	"sheets_append_rows":  {ConnectorSheets, LevelCreate},
	"sheets_update_range": {ConnectorSheets, LevelUpdate},
	"sheets_delete_sheet": {ConnectorSheets, LevelDestructive},
}

// Lookup returns the rule for a tool name, or ok=false for tools that are
// not connector-backed (memory operations, meta-discovery, and so on).
func Lookup(tool string) (Rule, bool) {
	r, ok := toolTable[tool]
	return r, ok
}

// ConnectorTools returns all table entries, sorted by tool name.
func ConnectorTools() []string {
	names := make([]string, 0, len(toolTable))
	for name := range toolTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks at startup that every tool the dispatcher can route is
// either in the tool table or explicitly declared ungated. An unmapped tool
// is a configuration error, never a silent allow-by-default.
func Validate(routable []string, ungated []string) error {
	ok := make(map[string]bool, len(ungated))
	for _, name := range ungated {
		ok[name] = true
	}

	var missing []string
	for _, name := range routable {
		if _, mapped := toolTable[name]; !mapped && !ok[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("tools neither mapped to a connector nor marked ungated: %s", strings.Join(missing, ", "))
	}
	return nil
}

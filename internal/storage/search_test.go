package storage

import (
	"testing"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

func TestSearchScoringMonotonicity(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	// Three entities matching "acme" only via name, observation, and type.
	s.CreateEntities(scope, []EntityInput{
		{Name: "Supplier One", EntityType: "organization", Observations: []string{"Main vendor is acme industrial"}},
		{Name: "Acme Corp", EntityType: "organization"},
		{Name: "Widget Co", EntityType: "acme reseller"},
	}, false)

	results, err := s.SearchNodes(scope, "acme", 0)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Name != "Acme Corp" {
		t.Errorf("Top result = %q, want name match first", results[0].Name)
	}
	if results[1].Name != "Supplier One" {
		t.Errorf("Second result = %q, want observation match", results[1].Name)
	}
	if results[2].Name != "Widget Co" {
		t.Errorf("Third result = %q, want type match", results[2].Name)
	}
}

func TestSearchExcludesZeroScores(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	s.CreateEntities(scope, []EntityInput{
		{Name: "Acme Corp", EntityType: "organization"},
		{Name: "Unrelated", EntityType: "concept", Observations: []string{"nothing to see"}},
	}, false)

	results, err := s.SearchNodes(scope, "acme", 0)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Name != "Acme Corp" {
		t.Errorf("Result = %q, want %q", results[0].Name, "Acme Corp")
	}
}

func TestSearchTokenScoring(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	// Neither entity contains the full query "acme invoices", but both match
	// individual tokens; the one matching via name should rank higher.
	s.CreateEntities(scope, []EntityInput{
		{Name: "Invoices Pipeline", EntityType: "project"},
		{Name: "Billing", EntityType: "concept", Observations: []string{"handles invoices monthly"}},
	}, false)

	results, err := s.SearchNodes(scope, "acme invoices", 0)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Name != "Invoices Pipeline" {
		t.Errorf("Top result = %q, want name-token match first", results[0].Name)
	}
}

func TestSearchLimitAndTies(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	s.CreateEntities(scope, []EntityInput{
		{Name: "Acme One", EntityType: "organization"},
		{Name: "Acme Two", EntityType: "organization"},
		{Name: "Acme Three", EntityType: "organization"},
	}, false)

	results, err := s.SearchNodes(scope, "acme", 2)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected limit of 2, got %d", len(results))
	}
	// Equal scores keep insertion order.
	if results[0].Name != "Acme One" || results[1].Name != "Acme Two" {
		t.Errorf("Tie order = [%s, %s], want insertion order", results[0].Name, results[1].Name)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := setupStore(t)
	scope := models.Scope{UserID: "u1"}

	s.CreateEntities(scope, []EntityInput{{Name: "Anything", EntityType: "concept"}}, false)

	results, err := s.SearchNodes(scope, "   ", 0)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results for empty query, got %d", len(results))
	}
}

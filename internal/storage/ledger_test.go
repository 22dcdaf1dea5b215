package storage

import "testing"

func TestUserEditLedger(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	// One inferred fact, two explicitly requested ones.
	s.CreateEntities(scope, []EntityInput{
		{Name: "Alice", EntityType: "person", Observations: []string{"probably likes jazz"}},
	}, false)
	s.AddObservations(scope, []ObservationAdd{
		{EntityName: "Alice", Contents: []string{"birthday is March 3"}},
	}, true)
	s.CreateEntities(scope, []EntityInput{
		{Name: "Acme Corp", EntityType: "organization", Observations: []string{"invoice them quarterly"}},
	}, true)

	edits, err := s.ListUserEdits(scope)
	if err != nil {
		t.Fatalf("ListUserEdits: %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("Expected 2 user edits, got %d", len(edits))
	}
	// Newest first.
	if edits[0].EntityName != "Acme Corp" {
		t.Errorf("First edit entity = %q, want newest", edits[0].EntityName)
	}

	n, err := s.CountUserEdits(scope)
	if err != nil {
		t.Fatalf("CountUserEdits: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestDeleteUserEdit(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	s.CreateEntities(scope, []EntityInput{
		{Name: "Alice", EntityType: "person", Observations: []string{"likes jazz"}},
	}, true)

	// Case-insensitive exact match on both entity name and content.
	removed, err := s.DeleteUserEdit(scope, "alice", "LIKES JAZZ")
	if err != nil {
		t.Fatalf("DeleteUserEdit: %v", err)
	}
	if !removed {
		t.Error("Expected the edit to be removed")
	}

	removed, err = s.DeleteUserEdit(scope, "alice", "likes jazz")
	if err != nil {
		t.Fatalf("DeleteUserEdit (again): %v", err)
	}
	if removed {
		t.Error("Expected nothing left to remove")
	}

	removed, _ = s.DeleteUserEdit(scope, "Nobody", "anything")
	if removed {
		t.Error("Expected unknown entity to report false")
	}
}

func TestDeleteUserEditLeavesInferred(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	s.CreateEntities(scope, []EntityInput{
		{Name: "Alice", EntityType: "person", Observations: []string{"inferred fact"}},
	}, false)

	// The ledger must not delete inferred facts even on exact match.
	removed, err := s.DeleteUserEdit(scope, "Alice", "inferred fact")
	if err != nil {
		t.Fatalf("DeleteUserEdit: %v", err)
	}
	if removed {
		t.Error("Expected inferred fact to be untouchable via the ledger")
	}

	graph, _ := s.ReadGraph(scope)
	if len(graph.Entities[0].Observations) != 1 {
		t.Error("Expected inferred fact to survive")
	}
}

func TestClearUserEdits(t *testing.T) {
	s := setupStore(t)
	scope := testScope()
	other := scope
	other.ProjectID = "p1"

	s.CreateEntities(scope, []EntityInput{
		{Name: "Alice", EntityType: "person", Observations: []string{"fact one", "fact two"}},
	}, true)
	s.CreateEntities(other, []EntityInput{
		{Name: "Alice", EntityType: "person", Observations: []string{"project fact"}},
	}, true)

	n, err := s.ClearUserEdits(scope)
	if err != nil {
		t.Fatalf("ClearUserEdits: %v", err)
	}
	if n != 2 {
		t.Errorf("Cleared = %d, want 2", n)
	}

	// Other scope untouched.
	count, _ := s.CountUserEdits(other)
	if count != 1 {
		t.Errorf("Other scope count = %d, want 1", count)
	}
}

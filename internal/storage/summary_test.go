package storage

import "testing"

func TestSummaryLifecycle(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	// No summary yet: stale by definition.
	stale, err := s.IsSummaryStale(scope)
	if err != nil {
		t.Fatalf("IsSummaryStale: %v", err)
	}
	if !stale {
		t.Error("Expected missing summary to be stale")
	}

	s.CreateEntities(scope, []EntityInput{
		{Name: "A", EntityType: "concept", Observations: []string{"one", "two"}},
		{Name: "B", EntityType: "concept", Observations: []string{"three"}},
	}, false)

	if err := s.SaveSummary(scope, "Two concepts, three facts."); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	sum, err := s.GetSummary(scope)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum == nil {
		t.Fatal("Expected summary, got nil")
	}
	if sum.EntityCount != 2 || sum.ObservationCount != 3 {
		t.Errorf("Counts = (%d, %d), want (2, 3)", sum.EntityCount, sum.ObservationCount)
	}

	stale, _ = s.IsSummaryStale(scope)
	if stale {
		t.Error("Expected fresh summary after save")
	}

	// Adding an entity drifts the counts.
	s.CreateEntities(scope, []EntityInput{{Name: "C", EntityType: "concept"}}, false)
	stale, _ = s.IsSummaryStale(scope)
	if !stale {
		t.Error("Expected stale summary after graph change")
	}

	// Re-saving resets staleness.
	if err := s.SaveSummary(scope, "Three concepts now."); err != nil {
		t.Fatalf("SaveSummary (again): %v", err)
	}
	stale, _ = s.IsSummaryStale(scope)
	if stale {
		t.Error("Expected fresh summary after re-save")
	}
	sum, _ = s.GetSummary(scope)
	if sum.Content != "Three concepts now." {
		t.Errorf("Content = %q, want upserted text", sum.Content)
	}
}

func TestSummaryScoped(t *testing.T) {
	s := setupStore(t)
	general := testScope()
	project := general
	project.ProjectID = "p1"

	if err := s.SaveSummary(general, "general digest"); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	sum, err := s.GetSummary(project)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum != nil {
		t.Error("Expected no summary in project scope")
	}
}

func TestDeleteSummary(t *testing.T) {
	s := setupStore(t)
	scope := testScope()

	existed, err := s.DeleteSummary(scope)
	if err != nil {
		t.Fatalf("DeleteSummary: %v", err)
	}
	if existed {
		t.Error("Expected no summary to delete")
	}

	s.SaveSummary(scope, "digest")
	existed, err = s.DeleteSummary(scope)
	if err != nil {
		t.Fatalf("DeleteSummary: %v", err)
	}
	if !existed {
		t.Error("Expected summary to exist")
	}

	sum, _ := s.GetSummary(scope)
	if sum != nil {
		t.Error("Expected summary gone after delete")
	}
}

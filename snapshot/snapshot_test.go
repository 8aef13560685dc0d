package snapshot

import "testing"

func TestCurrentIsNilBeforePublish(t *testing.T) {
	s := NewStore()
	if s.Current() != nil {
		t.Fatal("expected nil snapshot before first publish")
	}
}

func TestPublishThenCurrentReturnsLatest(t *testing.T) {
	s := NewStore()
	s.Publish(&Snapshot{Tick: 1})
	s.Publish(&Snapshot{Tick: 2})

	got := s.Current()
	if got == nil || got.Tick != 2 {
		t.Fatalf("expected latest published snapshot (tick 2), got %+v", got)
	}
}

func TestMarshalJSONRoundTrips(t *testing.T) {
	snap := &Snapshot{Tick: 5, PopulationBySpecies: map[string]int{"rabbit": 3}}
	data, err := snap.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}

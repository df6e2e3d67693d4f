package recommend

import "testing"

func TestParsePayload_ValidLanes(t *testing.T) {
	raw := `{
		"movies": [{"title": "Slow Burns", "reason": "You like thrillers", "items": [100, 200]}],
		"tv": [{"title": "Long Hauls", "reason": "Serialized drama", "items": [300]}],
		"documentaries": [{"title": "True Stories", "reason": "Doc habit", "items": [400]}]
	}`

	payload := ParsePayload(raw)

	if len(payload.Movies) != 1 {
		t.Fatalf("Movies = %d categories, want 1", len(payload.Movies))
	}
	if payload.Movies[0].Title != "Slow Burns" {
		t.Errorf("Movies[0].Title = %q, want %q", payload.Movies[0].Title, "Slow Burns")
	}
	if len(payload.Movies[0].Items) != 2 || payload.Movies[0].Items[0] != 100 {
		t.Errorf("Movies[0].Items = %v, want [100 200]", payload.Movies[0].Items)
	}
	if len(payload.TV) != 1 || len(payload.Documentaries) != 1 {
		t.Errorf("TV = %d, Documentaries = %d categories, want 1 each", len(payload.TV), len(payload.Documentaries))
	}
}

func TestParsePayload_InvalidJSON(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2,3]", "{", "null"} {
		payload := ParsePayload(raw)
		if payload.Movies == nil || payload.TV == nil || payload.Documentaries == nil {
			t.Errorf("ParsePayload(%q) returned nil lane, want empty slices", raw)
		}
		if len(payload.Movies)+len(payload.TV)+len(payload.Documentaries) != 0 {
			t.Errorf("ParsePayload(%q) returned non-empty payload", raw)
		}
	}
}

func TestParsePayload_EmptyObject(t *testing.T) {
	payload := ParsePayload("{}")
	if len(payload.Movies)+len(payload.TV)+len(payload.Documentaries) != 0 {
		t.Errorf("ParsePayload({}) returned non-empty payload: %+v", payload)
	}
}

func TestParsePayload_NonIntegerItemsDropped(t *testing.T) {
	raw := `{"movies": [{"title": "Mixed", "reason": "r", "items": [1, "two", 3.5, null, 4]}]}`

	payload := ParsePayload(raw)

	if len(payload.Movies) != 1 {
		t.Fatalf("Movies = %d categories, want 1", len(payload.Movies))
	}
	items := payload.Movies[0].Items
	if len(items) != 2 || items[0] != 1 || items[1] != 4 {
		t.Errorf("Items = %v, want [1 4]", items)
	}
}

func TestParsePayload_LaneNotAList(t *testing.T) {
	raw := `{"movies": {"title": "oops"}, "tv": [{"title": "ok", "reason": "", "items": [5]}]}`

	payload := ParsePayload(raw)

	if len(payload.Movies) != 0 {
		t.Errorf("Movies = %d categories, want 0 for non-list lane", len(payload.Movies))
	}
	if len(payload.TV) != 1 {
		t.Errorf("TV = %d categories, want 1", len(payload.TV))
	}
}

func TestParsePayload_LegacyCategories(t *testing.T) {
	raw := `{"categories": [{"title": "Old Format", "reason": "legacy", "items": [7]}]}`

	payload := ParsePayload(raw)

	if len(payload.Movies) != 1 || payload.Movies[0].Title != "Old Format" {
		t.Fatalf("legacy categories not mapped to movies lane: %+v", payload.Movies)
	}
	if len(payload.TV) != 0 || len(payload.Documentaries) != 0 {
		t.Errorf("legacy mapping touched other lanes: tv=%d docs=%d", len(payload.TV), len(payload.Documentaries))
	}
}

func TestParsePayload_LegacyIgnoredWhenLanesPresent(t *testing.T) {
	raw := `{
		"movies": [{"title": "New", "reason": "", "items": [1]}],
		"categories": [{"title": "Old", "reason": "", "items": [2]}]
	}`

	payload := ParsePayload(raw)

	if len(payload.Movies) != 1 || payload.Movies[0].Title != "New" {
		t.Errorf("Movies = %+v, want the explicit movies lane only", payload.Movies)
	}
}

package recommend

import "encoding/json"

// ParsePayload normalizes raw model output into a Payload. The model
// owns none of its output contract, so parsing is strict-or-empty: any
// JSON failure yields empty lanes, never an error. Lanes default to
// empty when absent or not a list, and a legacy flat "categories" array
// is treated as the movies lane when both movies and tv are empty.
func ParsePayload(raw string) Payload {
	payload := EmptyPayload()

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return payload
	}

	payload.Movies = parseLane(parsed["movies"])
	payload.TV = parseLane(parsed["tv"])
	payload.Documentaries = parseLane(parsed["documentaries"])

	// Older model outputs used a single flat category list.
	if len(payload.Movies) == 0 && len(payload.TV) == 0 {
		if legacy := parseLane(parsed["categories"]); len(legacy) > 0 {
			payload.Movies = legacy
		}
	}

	return payload
}

// rawCategory tolerates loosely-typed category objects: items may mix
// integers with junk entries, which are dropped.
type rawCategory struct {
	Title  string            `json:"title"`
	Reason string            `json:"reason"`
	Items  []json.RawMessage `json:"items"`
}

func parseLane(raw json.RawMessage) []Category {
	if len(raw) == 0 {
		return []Category{}
	}

	var cats []rawCategory
	if err := json.Unmarshal(raw, &cats); err != nil {
		return []Category{}
	}

	result := make([]Category, 0, len(cats))
	for _, cat := range cats {
		items := make([]int64, 0, len(cat.Items))
		for _, item := range cat.Items {
			var id int64
			if err := json.Unmarshal(item, &id); err != nil {
				continue // Non-integer entries are dropped silently
			}
			items = append(items, id)
		}
		result = append(result, Category{
			Title:  cat.Title,
			Reason: cat.Reason,
			Items:  items,
		})
	}
	return result
}

package recommend

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/metadata/tmdb"
)

// documentaryGenreID is TMDB's genre id for documentaries.
const documentaryGenreID = 99

// MetadataProvider resolves bare identifiers to display metadata.
type MetadataProvider interface {
	GetDetails(ctx context.Context, ids []int64, kind string) ([]tmdb.Details, error)
	GetImageURL(posterPath string) string
}

// enricher applies metadata resolution and the exclusion rules to one
// payload. It holds no mutable state: enriching the same payload with
// the same exclusion and watched sets twice yields identical output.
type enricher struct {
	metadata MetadataProvider
	logger   zerolog.Logger
}

// Enrich resolves and filters all three lanes independently.
func (e *enricher) Enrich(ctx context.Context, payload Payload, excluded map[int64]struct{}, watched map[string]struct{}) Response {
	return Response{
		Movies:        e.enrichLane(ctx, payload.Movies, tmdb.KindMovie, false, excluded, watched),
		TV:            e.enrichLane(ctx, payload.TV, tmdb.KindTV, false, excluded, watched),
		Documentaries: e.enrichLane(ctx, payload.Documentaries, tmdb.KindMovie, true, excluded, watched),
	}
}

func (e *enricher) enrichLane(
	ctx context.Context,
	categories []Category,
	kind string,
	documentaryLane bool,
	excluded map[int64]struct{},
	watched map[string]struct{},
) []EnrichedCategory {
	// Collect every identifier in the lane for one batched resolution.
	idSet := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, cat := range categories {
		for _, id := range cat.Items {
			if _, ok := idSet[id]; ok {
				continue
			}
			idSet[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	// Resolution failures for the whole call degrade to bare
	// identifiers; they never abort the lane.
	detailsByID := make(map[int64]tmdb.Details)
	if len(ids) > 0 {
		details, err := e.metadata.GetDetails(ctx, ids, kind)
		if err != nil {
			e.logger.Debug().Err(err).Str("kind", kind).Msg("Metadata unavailable, serving bare identifiers")
		} else {
			for _, d := range details {
				detailsByID[d.ID] = d
			}
		}
	}

	result := make([]EnrichedCategory, 0, len(categories))
	for _, cat := range categories {
		items := make([]EnrichedItem, 0, len(cat.Items))
		for _, id := range cat.Items {
			if _, rated := excluded[id]; rated {
				continue
			}

			item := EnrichedItem{TmdbID: id, MediaType: kind}

			details, resolved := detailsByID[id]
			if resolved {
				if details.Adult {
					continue
				}
				if documentaryLane && !isDocumentary(details) {
					continue
				}

				title := details.DisplayTitle()
				if _, seen := watched[NormalizeTitle(title)]; seen && title != "" {
					continue
				}

				item.Title = title
				item.Overview = details.Overview
				item.PosterURL = e.metadata.GetImageURL(details.PosterPath)
			}

			items = append(items, item)
		}

		// Categories with no surviving items are omitted entirely.
		if len(items) == 0 {
			continue
		}

		result = append(result, EnrichedCategory{
			Title:  cat.Title,
			Reason: cat.Reason,
			Items:  items,
		})
	}

	return result
}

// isDocumentary reports whether resolved genre data confirms a
// documentary classification.
func isDocumentary(details tmdb.Details) bool {
	for _, genre := range details.Genres {
		if genre.ID == documentaryGenreID || strings.EqualFold(genre.Name, "documentary") {
			return true
		}
	}
	for _, id := range details.GenreIDs {
		if id == documentaryGenreID {
			return true
		}
	}
	return false
}

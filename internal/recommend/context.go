package recommend

import (
	"sort"
	"strings"

	"github.com/HansKDev/sagarr/internal/preferences"
	"github.com/HansKDev/sagarr/internal/safety"
	"github.com/HansKDev/sagarr/internal/tautulli"
)

const (
	historyLimit = 300

	topMoviesCount    = 20
	recentMoviesCount = 20
	topTVCount        = 10
	recentTVCount     = 20

	seriesTitlesMax  = 10
	documentariesMax = 10
)

// laneContext is one media kind's history slices as serialized into the
// generation prompt.
type laneContext struct {
	Top          []tautulli.HistoryRecord `json:"top"`
	Recent       []tautulli.HistoryRecord `json:"recent"`
	SeriesTitles []string                 `json:"series_titles,omitempty"`
}

type documentaryContext struct {
	Sample []tautulli.HistoryRecord `json:"sample"`
}

// itemRef identifies a rated item in the prompt context.
type itemRef struct {
	TmdbID    int64  `json:"tmdb_id"`
	MediaType string `json:"media_type"`
}

// UserContext is the ephemeral signal bundle built per generation call
// and serialized into the prompt. It is never persisted.
type UserContext struct {
	Movies        laneContext        `json:"movies"`
	TV            laneContext        `json:"tv"`
	Documentaries documentaryContext `json:"documentaries"`
	Likes         []itemRef          `json:"likes"`
	Dislikes      []itemRef          `json:"dislikes"`
	WatchedTitles []string           `json:"watched_titles"`
	RatedTmdbIDs  []int64            `json:"rated_tmdb_ids"`
}

// recordIsAdult applies the safety filter to one history record.
func recordIsAdult(record tautulli.HistoryRecord) bool {
	return safety.ContainsAdultKeyword(
		record.Genres,
		record.SectionName,
		record.LibraryName,
		record.Title,
		record.GrandparentTitle,
		record.Tagline,
	)
}

// FilterAdult drops history records matching the safety filter before
// they ever enter the generation context.
func FilterAdult(history []tautulli.HistoryRecord) []tautulli.HistoryRecord {
	filtered := make([]tautulli.HistoryRecord, 0, len(history))
	for _, record := range history {
		if recordIsAdult(record) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// recordName returns the episodic parent title when present, else the
// item title.
func recordName(record tautulli.HistoryRecord) string {
	if record.GrandparentTitle != "" {
		return record.GrandparentTitle
	}
	return record.Title
}

// NormalizeTitle trims and lower-cases a title for exact-match
// comparison against the watched-title set.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// WatchedTitles derives the normalized set of all series/movie titles
// in the (already safety-filtered) history. Empty titles never enter
// the set.
func WatchedTitles(history []tautulli.HistoryRecord) map[string]struct{} {
	watched := make(map[string]struct{})
	for _, record := range history {
		name := NormalizeTitle(recordName(record))
		if name == "" {
			continue
		}
		watched[name] = struct{}{}
	}
	return watched
}

// BuildUserContext shapes safety-filtered history and explicit feedback
// into the compact signal bundle the prompt serializes.
func BuildUserContext(
	history []tautulli.HistoryRecord,
	likes, dislikes []preferences.Preference,
	ratedIDs map[int64]struct{},
) *UserContext {
	var movies, tv []tautulli.HistoryRecord
	for _, record := range history {
		switch record.MediaType {
		case "movie":
			movies = append(movies, record)
		case "show", "episode", "season":
			tv = append(tv, record)
		}
	}

	// Ordered, de-duplicated series names in first-seen order.
	seriesTitles := make([]string, 0, seriesTitlesMax)
	seenSeries := make(map[string]struct{})
	for _, record := range tv {
		name := recordName(record)
		if name == "" {
			continue
		}
		if _, ok := seenSeries[name]; ok {
			continue
		}
		seenSeries[name] = struct{}{}
		seriesTitles = append(seriesTitles, name)
		if len(seriesTitles) >= seriesTitlesMax {
			break
		}
	}

	// Best-effort documentary signal from genre or library naming.
	documentaries := make([]tautulli.HistoryRecord, 0, documentariesMax)
	for _, record := range history {
		genres := strings.ToLower(record.Genres)
		section := strings.ToLower(record.SectionName)
		if section == "" {
			section = strings.ToLower(record.LibraryName)
		}
		if strings.Contains(genres, "documentary") || strings.Contains(section, "documentary") {
			documentaries = append(documentaries, record)
			if len(documentaries) >= documentariesMax {
				break
			}
		}
	}

	watched := WatchedTitles(history)
	watchedSorted := make([]string, 0, len(watched))
	for title := range watched {
		watchedSorted = append(watchedSorted, title)
	}
	sort.Strings(watchedSorted)

	rated := make([]int64, 0, len(ratedIDs))
	for id := range ratedIDs {
		rated = append(rated, id)
	}
	sort.Slice(rated, func(i, j int) bool { return rated[i] < rated[j] })

	return &UserContext{
		Movies: laneContext{
			Top:    firstN(movies, topMoviesCount),
			Recent: firstN(movies, recentMoviesCount),
		},
		TV: laneContext{
			Top:          firstN(tv, topTVCount),
			Recent:       firstN(tv, recentTVCount),
			SeriesTitles: seriesTitles,
		},
		Documentaries: documentaryContext{Sample: documentaries},
		Likes:         toItemRefs(likes),
		Dislikes:      toItemRefs(dislikes),
		WatchedTitles: watchedSorted,
		RatedTmdbIDs:  rated,
	}
}

func firstN(records []tautulli.HistoryRecord, n int) []tautulli.HistoryRecord {
	if len(records) > n {
		records = records[:n]
	}
	// Copy so the prompt context does not alias the caller's slice.
	out := make([]tautulli.HistoryRecord, len(records))
	copy(out, records)
	return out
}

func toItemRefs(prefs []preferences.Preference) []itemRef {
	refs := make([]itemRef, 0, len(prefs))
	for _, p := range prefs {
		refs = append(refs, itemRef{TmdbID: p.TmdbID, MediaType: p.MediaType})
	}
	return refs
}

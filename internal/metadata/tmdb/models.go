package tmdb

// Genre is a structured genre entry on a TMDB details response.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details is the subset of a TMDB movie or TV details response the
// enrichment layer consumes. Movies carry Title, series carry Name.
type Details struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Name       string  `json:"name"`
	Overview   string  `json:"overview"`
	PosterPath string  `json:"poster_path"`
	Adult      bool    `json:"adult"`
	Genres     []Genre `json:"genres"`
	GenreIDs   []int64 `json:"genre_ids"`
}

// DisplayTitle returns the movie title or series name, whichever is set.
func (d Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

package tautulli

import "encoding/json"

// HistoryRecord is one playback event from the Tautulli history API.
// Records are sourced externally and never persisted.
type HistoryRecord struct {
	MediaType        string `json:"media_type"`
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparent_title"`
	Genres           string `json:"genres"`
	SectionName      string `json:"section_name"`
	LibraryName      string `json:"library_name"`
	Tagline          string `json:"tagline"`
}

// User is a Tautulli user row, used for mapping Sagarr accounts.
type User struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FriendlyName string `json:"friendly_name"`
	Email        string `json:"email"`
}

// apiResponse is the Tautulli API v2 envelope.
type apiResponse struct {
	Response struct {
		Result  string          `json:"result"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"response"`
}

// historyData is the payload of a get_history call.
type historyData struct {
	Data []HistoryRecord `json:"data"`
}

// usersData covers the nested get_users payload shape.
type usersData struct {
	Users []User `json:"users"`
}

package settings

// Setting keys for external service credentials. Values live in the
// settings table so admins can change them at runtime; the service
// clients re-read them on every call.
const (
	KeyTautulliURL    = "tautulli_url"
	KeyTautulliAPIKey = "tautulli_api_key"

	KeyOverseerrURL    = "overseerr_url"
	KeyOverseerrAPIKey = "overseerr_api_key"

	KeyTMDBAPIKey = "tmdb_api_key"

	KeyAIProvider        = "ai_provider"
	KeyAIAPIKey          = "ai_api_key"
	KeyAIBaseURL         = "ai_base_url"
	KeyAIModel           = "ai_model"
	KeyAIFallbackKind    = "ai_fallback_kind"
	KeyAIFallbackAPIKey  = "ai_fallback_api_key"
	KeyAIFallbackBaseURL = "ai_fallback_base_url"
	KeyAIFallbackModel   = "ai_fallback_model"

	KeyPlexClientID = "plex_client_id"
)

// ProviderKindOpenAI and ProviderKindCompat are the supported AI backend kinds.
const (
	ProviderKindOpenAI = "openai"
	ProviderKindCompat = "compat"
)

// Tautulli holds the history provider connection settings.
type Tautulli struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
}

// Overseerr holds the request provider connection settings.
type Overseerr struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
}

// AI holds the generative-text backend settings. The fallback fields
// describe an optional secondary backend; empty fallback credential or
// model inherit the primary values at chain construction time.
type AI struct {
	Provider        string `json:"provider"`
	APIKey          string `json:"apiKey"`
	BaseURL         string `json:"baseUrl"`
	Model           string `json:"model"`
	FallbackKind    string `json:"fallbackKind"`
	FallbackAPIKey  string `json:"fallbackApiKey"`
	FallbackBaseURL string `json:"fallbackBaseUrl"`
	FallbackModel   string `json:"fallbackModel"`
}

// Snapshot is the admin view of all service settings with secrets masked.
type Snapshot struct {
	TautulliURL    string `json:"tautulliUrl"`
	TautulliAPIKey string `json:"tautulliApiKey"`

	OverseerrURL    string `json:"overseerrUrl"`
	OverseerrAPIKey string `json:"overseerrApiKey"`

	TMDBAPIKey string `json:"tmdbApiKey"`

	AIProvider        string `json:"aiProvider"`
	AIAPIKey          string `json:"aiApiKey"`
	AIBaseURL         string `json:"aiBaseUrl"`
	AIModel           string `json:"aiModel"`
	AIFallbackKind    string `json:"aiFallbackKind"`
	AIFallbackAPIKey  string `json:"aiFallbackApiKey"`
	AIFallbackBaseURL string `json:"aiFallbackBaseUrl"`
	AIFallbackModel   string `json:"aiFallbackModel"`
}

// UpdateInput carries admin settings changes. Masked secret values
// ("***") and empty strings leave the stored value untouched.
type UpdateInput struct {
	TautulliURL    *string `json:"tautulliUrl"`
	TautulliAPIKey *string `json:"tautulliApiKey"`

	OverseerrURL    *string `json:"overseerrUrl"`
	OverseerrAPIKey *string `json:"overseerrApiKey"`

	TMDBAPIKey *string `json:"tmdbApiKey"`

	AIProvider        *string `json:"aiProvider"`
	AIAPIKey          *string `json:"aiApiKey"`
	AIBaseURL         *string `json:"aiBaseUrl"`
	AIModel           *string `json:"aiModel"`
	AIFallbackKind    *string `json:"aiFallbackKind"`
	AIFallbackAPIKey  *string `json:"aiFallbackApiKey"`
	AIFallbackBaseURL *string `json:"aiFallbackBaseUrl"`
	AIFallbackModel   *string `json:"aiFallbackModel"`
}

package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"codetrack/internal/model"
)

// HackerRank fetches an activity signal from the public HackerRank profile
// API. The provider exposes no solved-count field, so the badge count is
// used as an approximate signal instead.
type HackerRank struct {
	baseURL string
	client  *http.Client
}

// NewHackerRank creates a HackerRank adapter targeting the given base URL.
func NewHackerRank(baseURL string, client *http.Client) *HackerRank {
	return &HackerRank{baseURL: baseURL, client: client}
}

// Platform returns the platform this adapter serves.
func (h *HackerRank) Platform() model.Platform {
	return model.PlatformHackerRank
}

type hackerrankResponse struct {
	Badges []json.RawMessage `json:"badges"`
}

// Fetch retrieves the badge count for a username.
func (h *HackerRank) Fetch(ctx context.Context, username string) FetchResult {
	endpoint := h.baseURL + "/rest/hackers/" + url.PathEscape(username)

	var parsed hackerrankResponse
	if err := getJSON(ctx, h.client, endpoint, &parsed); err != nil {
		return Failure(err)
	}

	return Success(len(parsed.Badges))
}

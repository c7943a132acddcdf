package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"codetrack/internal/model"
)

// CodeChef fetches solved counts from the community CodeChef stats API.
type CodeChef struct {
	baseURL string
	client  *http.Client
}

// NewCodeChef creates a CodeChef adapter targeting the given base URL.
func NewCodeChef(baseURL string, client *http.Client) *CodeChef {
	return &CodeChef{baseURL: baseURL, client: client}
}

// Platform returns the platform this adapter serves.
func (c *CodeChef) Platform() model.Platform {
	return model.PlatformCodeChef
}

type codechefResponse struct {
	TotalSolved int `json:"totalSolved"`
}

// Fetch retrieves the total solved count for a username. Any non-2xx status
// or non-JSON body (the API returns plain-text error pages under load) is a
// failed fetch.
func (c *CodeChef) Fetch(ctx context.Context, username string) FetchResult {
	var parsed codechefResponse
	endpoint := c.baseURL + "/" + url.PathEscape(username)
	if err := getJSON(ctx, c.client, endpoint, &parsed); err != nil {
		return Failure(err)
	}

	if parsed.TotalSolved < 0 {
		return Failure(fmt.Errorf("negative solved count %d", parsed.TotalSolved))
	}

	return Success(parsed.TotalSolved)
}

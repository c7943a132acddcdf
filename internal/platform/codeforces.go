package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"codetrack/internal/model"
)

// Codeforces fetches solved counts from the Codeforces submissions API.
type Codeforces struct {
	baseURL string
	client  *http.Client
}

// NewCodeforces creates a Codeforces adapter targeting the given base URL.
func NewCodeforces(baseURL string, client *http.Client) *Codeforces {
	return &Codeforces{baseURL: baseURL, client: client}
}

// Platform returns the platform this adapter serves.
func (c *Codeforces) Platform() model.Platform {
	return model.PlatformCodeforces
}

type codeforcesResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		Problem struct {
			ContestID int    `json:"contestId"`
			Index     string `json:"index"`
		} `json:"problem"`
		Verdict string `json:"verdict"`
	} `json:"result"`
}

// Fetch counts the distinct problems a user has an accepted (verdict "OK")
// submission for. Repeated accepted submissions of the same problem are
// deduplicated by (contest, problem index), which is the solved-count
// semantics the submissions endpoint supports.
func (c *Codeforces) Fetch(ctx context.Context, username string) FetchResult {
	endpoint := fmt.Sprintf("%s/api/user.status?handle=%s", c.baseURL, url.QueryEscape(username))

	var parsed codeforcesResponse
	if err := getJSON(ctx, c.client, endpoint, &parsed); err != nil {
		return Failure(err)
	}

	if parsed.Status != "OK" {
		return Failure(fmt.Errorf("api status %q: %s", parsed.Status, parsed.Comment))
	}

	solved := make(map[string]struct{})
	for _, submission := range parsed.Result {
		if submission.Verdict != "OK" {
			continue
		}
		key := fmt.Sprintf("%d-%s", submission.Problem.ContestID, submission.Problem.Index)
		solved[key] = struct{}{}
	}

	return Success(len(solved))
}

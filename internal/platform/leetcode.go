package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"codetrack/internal/model"
)

// leetcodeQuery asks for the accepted-submission buckets of one user.
// The "All" difficulty bucket carries the total solved count.
const leetcodeQuery = `
query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    submitStats: submitStatsGlobal {
      acSubmissionNum {
        difficulty
        count
        submissions
      }
    }
  }
}`

// LeetCode fetches solved counts from the LeetCode GraphQL API.
type LeetCode struct {
	url    string
	client *http.Client
}

// NewLeetCode creates a LeetCode adapter targeting the given GraphQL endpoint.
func NewLeetCode(url string, client *http.Client) *LeetCode {
	return &LeetCode{url: url, client: client}
}

// Platform returns the platform this adapter serves.
func (l *LeetCode) Platform() model.Platform {
	return model.PlatformLeetCode
}

type leetcodeRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type leetcodeResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Data struct {
		MatchedUser *struct {
			SubmitStats struct {
				AcSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// Fetch retrieves the total accepted problem count for a username.
func (l *LeetCode) Fetch(ctx context.Context, username string) FetchResult {
	body, err := json.Marshal(leetcodeRequest{
		Query:     leetcodeQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return Failure(fmt.Errorf("marshal query: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		return Failure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Failure(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed leetcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Failure(fmt.Errorf("decode response: %w", err))
	}

	// An API-reported error list counts as a failed fetch.
	if len(parsed.Errors) > 0 {
		return Failure(fmt.Errorf("api error: %s", parsed.Errors[0].Message))
	}

	if parsed.Data.MatchedUser == nil {
		return Failure(fmt.Errorf("user %q not found", username))
	}

	for _, bucket := range parsed.Data.MatchedUser.SubmitStats.AcSubmissionNum {
		if bucket.Difficulty == "All" {
			return Success(bucket.Count)
		}
	}

	return Failure(fmt.Errorf("missing All difficulty bucket"))
}

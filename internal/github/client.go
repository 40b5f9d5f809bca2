package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"orgclone/internal/color"
	"orgclone/internal/counter"
	logger "orgclone/internal/log"
)

const (
	defaultBaseURL = "https://api.github.com"
	pageSize       = 100
)

// RepoRecord is the subset of the GitHub repository payload this tool needs.
type RepoRecord struct {
	Name        string `json:"name"`
	CloneURL    string `json:"clone_url"`
	SSHURL      string `json:"ssh_url"`
	Archived    bool   `json:"archived"`
	Description string `json:"description"`
}

func (r RepoRecord) validate() error {
	if r.Name == "" {
		return fmt.Errorf("repository entry is missing a name")
	}
	if r.CloneURL == "" || r.SSHURL == "" {
		return fmt.Errorf("repository %s is missing clone URLs", r.Name)
	}
	return nil
}

// APIClient manages access to the GitHub API. It is the boundary to
// external data; all methods are synchronous, channels and fan-out are
// handled by the callers.
type APIClient struct {
	baseURL      string
	organization string
	client       *http.Client
	pageCounter  *counter.Counter
	sleep        func(time.Duration)
}

// NewAPIClient creates a client for one organization. baseURL is used for
// testing; pass empty string to use the real GitHub API. An empty token
// yields an unauthenticated client (low rate limits, public repos only).
func NewAPIClient(token, organization, baseURL string, pageCounter *counter.Counter) *APIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(token)})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = 60 * time.Second

	return &APIClient{
		baseURL:      baseURL,
		organization: organization,
		client:       httpClient,
		pageCounter:  pageCounter,
		sleep:        time.Sleep,
	}
}

// ListRepositories fetches every repository of the organization, walking
// pages in ascending name order until an empty page. Archived entries are
// dropped unless includeArchived is set. Rate limiting is retried in place;
// any other API failure aborts the listing.
func (api *APIClient) ListRepositories(includeArchived bool) ([]RepoRecord, error) {
	var repos []RepoRecord
	for page := 1; ; page++ {
		records, err := api.fetchPage(page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return repos, nil
		}
		api.pageCounter.Add(1)
		for _, record := range records {
			if err := record.validate(); err != nil {
				return nil, err
			}
			if record.Archived && !includeArchived {
				continue
			}
			repos = append(repos, record)
		}
	}
}

// fetchPage retries the same page for as long as GitHub keeps rate limiting
// it; rate limits always eventually clear.
func (api *APIClient) fetchPage(page int) ([]RepoRecord, error) {
	url := fmt.Sprintf("%s/orgs/%s/repos?per_page=%d&page=%d&type=all&sort=full_name&direction=asc",
		api.baseURL, api.organization, pageSize, page)
	for {
		records, wait, err := api.get(url)
		if err != nil {
			return nil, err
		}
		if wait == 0 {
			return records, nil
		}
		logger.Log.Warnf("Hit GitHub rate limit on page %s, sleeping %s",
			color.FgMagenta(fmt.Sprintf("%d", page)), wait)
		api.sleep(wait)
	}
}

func (api *APIClient) get(url string) ([]RepoRecord, time.Duration, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := api.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Log.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "rate limit") {
		return nil, rateLimitWait(resp.Header.Get("X-RateLimit-Reset")), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("GitHub API request on %s failed with status %s: %s", url, resp.Status, snippet(body))
	}

	var records []RepoRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, 0, fmt.Errorf("unexpected GitHub API response on %s: %s", url, snippet(body))
	}
	return records, 0, nil
}

// rateLimitWait turns the X-RateLimit-Reset header (unix seconds) into a
// sleep duration. Unparsable headers fall back to a minute.
func rateLimitWait(reset string) time.Duration {
	ts, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return time.Minute
	}
	wait := time.Until(time.Unix(ts, 0))
	if wait < time.Second {
		return time.Second
	}
	return wait
}

func snippet(body []byte) string {
	const limit = 400
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

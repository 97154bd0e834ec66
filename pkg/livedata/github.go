package livedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Snapshot is a small, current view of the owner's public activity used to
// enrich technical answers. It is best-effort: callers must tolerate a nil
// snapshot and degrade to corpus-only answers.
type Snapshot struct {
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	LastPushed  string    `json:"last_pushed"` // repo name of the most recent push
	FetchedAt   time.Time `json:"fetched_at"`
}

// SnapshotFetcher fetches live enrichment data for the profile owner.
type SnapshotFetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// GitHubFetcher pulls a snapshot from the GitHub REST API.
type GitHubFetcher struct {
	Username string
	BaseURL  string
	Client   *http.Client
}

func NewGitHubFetcher(username string) *GitHubFetcher {
	return &GitHubFetcher{
		Username: username,
		BaseURL:  "https://api.github.com",
		Client: &http.Client{
			Timeout: 4 * time.Second,
		},
	}
}

type githubUserResponse struct {
	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
}

type githubRepoResponse struct {
	Name     string `json:"name"`
	PushedAt string `json:"pushed_at"`
}

func (f *GitHubFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	user, err := f.fetchUser(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		FetchedAt:   time.Now(),
	}

	// Last pushed repo is nice-to-have, ignore failure
	if repo, err := f.fetchLatestRepo(ctx); err == nil && repo != nil {
		snapshot.LastPushed = repo.Name
	}

	return snapshot, nil
}

func (f *GitHubFetcher) fetchUser(ctx context.Context) (*githubUserResponse, error) {
	url := fmt.Sprintf("%s/users/%s", f.BaseURL, f.Username)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var user githubUserResponse
	if err := json.Unmarshal(bodyBytes, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &user, nil
}

func (f *GitHubFetcher) fetchLatestRepo(ctx context.Context) (*githubRepoResponse, error) {
	url := fmt.Sprintf("%s/users/%s/repos?sort=pushed&per_page=1", f.BaseURL, f.Username)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github repos error: status %d", resp.StatusCode)
	}

	var repos []githubRepoResponse
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, nil
	}
	return &repos[0], nil
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a minimal GitHub REST client covering user search, user detail
// and repository listing for candidate sourcing.
type Client struct {
	token string
	base  string
	http  *http.Client
}

func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		token: token,
		base:  "https://api.github.com",
		http:  &http.Client{Timeout: timeout},
	}
}

type User struct {
	Login string `json:"login"`
}

type UserDetail struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	Bio         string `json:"bio"`
	Company     string `json:"company"`
	Blog        string `json:"blog"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

type Repo struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

type searchUsersResponse struct {
	TotalCount int    `json:"total_count"`
	Items      []User `json:"items"`
}

func (c *Client) do(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("github authentication failed, check the access token")
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("github rate limit exceeded, try again later")
	case resp.StatusCode >= 400:
		return fmt.Errorf("github api error: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}

// SearchUsers searches developer profiles sorted by follower count.
func (c *Client) SearchUsers(ctx context.Context, query string, perPage int) ([]User, error) {
	path := fmt.Sprintf("/search/users?q=%s&per_page=%d&sort=followers&order=desc",
		url.QueryEscape(query), perPage)
	var res searchUsersResponse
	if err := c.do(ctx, path, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// UserDetail fetches the full public profile for a login.
func (c *Client) UserDetail(ctx context.Context, login string) (*UserDetail, error) {
	var u UserDetail
	if err := c.do(ctx, "/users/"+url.PathEscape(login), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserRepos lists the most recently updated repositories for a login.
func (c *Client) UserRepos(ctx context.Context, login string, perPage int) ([]Repo, error) {
	path := fmt.Sprintf("/users/%s/repos?per_page=%d&sort=updated&direction=desc",
		url.PathEscape(login), perPage)
	var repos []Repo
	if err := c.do(ctx, path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

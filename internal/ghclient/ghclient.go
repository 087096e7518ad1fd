// Package ghclient wraps the GitHub REST and GraphQL APIs used to build
// OSSP metadata and to collect code scanning alerts.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v32/github"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const perPage = 100

// Repository is the subset of repository metadata the toolkit records.
type Repository struct {
	HTMLURL       string
	Description   string
	Language      string
	Topics        []string
	License       string
	DefaultBranch string
}

// Release is a published release of a repository.
type Release struct {
	TagName     string
	PublishedAt time.Time
	Draft       bool
}

// Issue is a tracking issue.
type Issue struct {
	HTMLURL string
}

// Alert is a code scanning alert.
type Alert struct {
	Number    int       `json:"number"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	HTMLURL   string    `json:"html_url"`
	Rule      struct {
		ID          string `json:"id"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"rule"`
	Tool struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"tool"`
}

// Client talks to GitHub.
type Client struct {
	rest  *github.Client
	graph *githubv4.Client
}

// New creates a client for api.github.com. An empty token gives an
// unauthenticated client.
func New(ctx context.Context, token string) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		httpClient.Timeout = 30 * time.Second
	}
	return &Client{
		rest:  github.NewClient(httpClient),
		graph: githubv4.NewClient(httpClient),
	}
}

// NewEnterprise creates a client for a GitHub Enterprise style endpoint.
// REST calls go to baseURL, GraphQL calls to baseURL/graphql.
func NewEnterprise(httpClient *http.Client, baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base URL %q", baseURL)
	}
	rest := github.NewClient(httpClient)
	rest.BaseURL = u
	return &Client{
		rest:  rest,
		graph: githubv4.NewEnterpriseClient(baseURL+"graphql", httpClient),
	}, nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ge *github.ErrorResponse
	return errors.As(err, &ge) && ge.Response != nil && ge.Response.StatusCode == http.StatusNotFound
}

// Repository fetches repository metadata.
func (c *Client) Repository(ctx context.Context, owner, name string) (*Repository, error) {
	r, _, err := c.rest.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, errors.Wrapf(err, "get repository %s/%s", owner, name)
	}
	repo := &Repository{
		HTMLURL:       r.GetHTMLURL(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
		DefaultBranch: r.GetDefaultBranch(),
	}
	if l := r.GetLicense(); l != nil {
		repo.License = l.GetSPDXID()
	}
	return repo, nil
}

// Languages returns the repository languages, largest first.
func (c *Client) Languages(ctx context.Context, owner, name string) ([]string, error) {
	var q struct {
		Repository struct {
			Languages struct {
				Nodes []struct {
					Name githubv4.String
				}
			} `graphql:"languages(first: 20, orderBy: {field: SIZE, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := c.graph.Query(ctx, &q, vars); err != nil {
		return nil, errors.Wrapf(err, "query languages of %s/%s", owner, name)
	}
	langs := make([]string, 0, len(q.Repository.Languages.Nodes))
	for _, n := range q.Repository.Languages.Nodes {
		langs = append(langs, string(n.Name))
	}
	return langs, nil
}

// Releases lists all releases, newest first.
func (c *Client) Releases(ctx context.Context, owner, name string) ([]Release, error) {
	var all []Release
	opts := &github.ListOptions{PerPage: perPage}
	for {
		rels, resp, err := c.rest.Repositories.ListReleases(ctx, owner, name, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "list releases of %s/%s", owner, name)
		}
		for _, r := range rels {
			all = append(all, Release{
				TagName:     r.GetTagName(),
				PublishedAt: r.GetPublishedAt().Time,
				Draft:       r.GetDraft(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// Issue fetches a single issue.
func (c *Client) Issue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	i, _, err := c.rest.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, errors.Wrapf(err, "get issue %s/%s#%d", owner, repo, number)
	}
	return &Issue{HTMLURL: i.GetHTMLURL()}, nil
}

// CodeScanningAlerts lists the code scanning alerts for ref.
func (c *Client) CodeScanningAlerts(ctx context.Context, owner, name, ref string) ([]Alert, error) {
	var all []Alert
	page := 1
	for {
		u := fmt.Sprintf("repos/%s/%s/code-scanning/alerts?ref=%s&per_page=%d&page=%d",
			owner, name, url.QueryEscape(ref), perPage, page)
		req, err := c.rest.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build code scanning request")
		}
		var alerts []Alert
		resp, err := c.rest.Do(ctx, req, &alerts)
		if err != nil {
			return nil, errors.Wrapf(err, "list code scanning alerts of %s/%s at %s", owner, name, ref)
		}
		all = append(all, alerts...)
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}
	return all, nil
}

package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewEnterprise(srv.Client(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/Be-Secure/fastjson", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "fastjson",
			"full_name": "Be-Secure/fastjson",
			"html_url": "https://github.com/Be-Secure/fastjson",
			"description": "A fast JSON parser",
			"language": "Java",
			"topics": ["json", "parser"],
			"default_branch": "master",
			"created_at": "2021-05-01T10:00:00Z",
			"license": {"spdx_id": "Apache-2.0"}
		}`)
	})
	c := newTestClient(t, mux)

	repo, err := c.Repository(context.Background(), "Be-Secure", "fastjson")
	if err != nil {
		t.Fatalf("Repository: %v", err)
	}
	if repo.HTMLURL != "https://github.com/Be-Secure/fastjson" || repo.License != "Apache-2.0" ||
		repo.DefaultBranch != "master" || len(repo.Topics) != 2 {
		t.Errorf("unexpected repository %+v", repo)
	}

	_, err = c.Repository(context.Background(), "Be-Secure", "missing")
	if !IsNotFound(err) {
		t.Errorf("Repository(missing): got %v, want not found", err)
	}
}

func TestReleasesPaginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/releases", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"tag_name": "v1.0.0", "published_at": "2022-01-01T00:00:00Z"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/releases?page=2>; rel="next"`, srvURL))
		fmt.Fprint(w, `[{"tag_name": "v2.0.0", "published_at": "2023-01-01T00:00:00Z"},
			{"tag_name": "v2.0.0-rc1", "draft": true}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c, err := NewEnterprise(srv.Client(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	rels, err := c.Releases(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("Releases: %v", err)
	}
	if len(rels) != 3 {
		t.Fatalf("got %d releases, want 3: %+v", len(rels), rels)
	}
	if rels[0].TagName != "v2.0.0" || !rels[1].Draft || rels[2].TagName != "v1.0.0" {
		t.Errorf("unexpected releases %+v", rels)
	}
}

func TestLanguages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"repository": {"languages": {"nodes": [{"name": "Go"}, {"name": "Shell"}]}}}}`)
	})
	c := newTestClient(t, mux)

	langs, err := c.Languages(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if len(langs) != 2 || langs[0] != "Go" || langs[1] != "Shell" {
		t.Errorf("Languages() = %v", langs)
	}
}

func TestIssueAndAlerts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/Be-Secure/Be-Secure/issues/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 42, "title": "fastjson", "html_url": "https://github.com/Be-Secure/Be-Secure/issues/42"}`)
	})
	mux.HandleFunc("/repos/o/r/code-scanning/alerts", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ref"); got != "refs/tags/v1.0.0" {
			t.Errorf("ref = %q", got)
		}
		fmt.Fprint(w, `[{"number": 1, "state": "open", "rule": {"id": "go/sql-injection", "severity": "error"},
			"tool": {"name": "CodeQL", "version": "2.15.0"}}]`)
	})
	c := newTestClient(t, mux)

	issue, err := c.Issue(context.Background(), "Be-Secure", "Be-Secure", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issue.HTMLURL != "https://github.com/Be-Secure/Be-Secure/issues/42" {
		t.Errorf("unexpected issue %+v", issue)
	}

	alerts, err := c.CodeScanningAlerts(context.Background(), "o", "r", "refs/tags/v1.0.0")
	if err != nil {
		t.Fatalf("CodeScanningAlerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Rule.ID != "go/sql-injection" || alerts[0].Tool.Name != "CodeQL" {
		t.Errorf("unexpected alerts %+v", alerts)
	}
}

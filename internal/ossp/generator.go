// Package ossp maintains the OSSP datastore: the master registry of
// tracked projects and the per-project version details files.
package ossp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/envconfig"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/fileutil"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/ghclient"
	"github.com/Be-Secure/besecure-developer-toolkit/internal/tui"
)

// TrackerRepo is the repository in the GitHub organisation whose issues
// track OSSP onboarding.
const TrackerRepo = "Be-Secure"

const dateLayout = "2006-01-02"

// RepoSource provides the GitHub data a Generator needs.
type RepoSource interface {
	Repository(ctx context.Context, owner, name string) (*ghclient.Repository, error)
	Languages(ctx context.Context, owner, name string) ([]string, error)
	Releases(ctx context.Context, owner, name string) ([]ghclient.Release, error)
	Issue(ctx context.Context, owner, repo string, number int) (*ghclient.Issue, error)
}

// Generator creates or updates the master entry and version details of
// one project.
type Generator struct {
	issueID int
	name    string
	env     envconfig.Env
	src     RepoSource
	out     io.Writer
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewGenerator creates a Generator for project name tracked by issueID.
func NewGenerator(issueID int, name string, env envconfig.Env, src RepoSource, out io.Writer, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{
		issueID: issueID,
		name:    name,
		env:     env,
		src:     src,
		out:     out,
		log:     log.With("issue_id", issueID, "name", name),
		now:     time.Now,
	}
}

// UpdateMaster adds the project to OSSP-Master.json. An existing entry is
// only replaced when overwrite is set.
func (g *Generator) UpdateMaster(ctx context.Context, overwrite bool) error {
	if err := fileutil.CheckPathElement("name", g.name); err != nil {
		return err
	}
	path := MasterPath(g.env.OSSPOIDir)
	entries, err := LoadMaster(path)
	if err != nil {
		return err
	}

	idx := -1
	for i, e := range entries {
		if e.ID == g.issueID {
			idx = i
			break
		}
	}
	if idx >= 0 && !overwrite {
		tui.Info(g.out, "OSSP %d (%s) already exists in %s, use --overwrite to replace it",
			g.issueID, g.name, path)
		return nil
	}

	entry, err := g.masterEntry(ctx)
	if err != nil {
		return err
	}
	if idx >= 0 {
		entry.CreatedAt = entries[idx].CreatedAt
		entries[idx] = entry
	} else {
		entries = append(entries, entry)
	}

	if err := SaveMaster(path, entries); err != nil {
		return err
	}
	g.log.Infow("updated OSSP master", "path", path)
	tui.Success(g.out, "Updated %s", path)
	return nil
}

func (g *Generator) masterEntry(ctx context.Context) (MasterEntry, error) {
	org := g.env.GitHubOrg
	repo, err := g.src.Repository(ctx, org, g.name)
	if ghclient.IsNotFound(err) {
		return MasterEntry{}, errors.Errorf("repository %s/%s not found", org, g.name)
	}
	if err != nil {
		return MasterEntry{}, err
	}

	langs, err := g.src.Languages(ctx, org, g.name)
	if err != nil {
		g.log.Warnw("could not fetch languages", "error", err)
		langs = nil
		if repo.Language != "" {
			langs = []string{repo.Language}
		}
	}

	issueURL := fmt.Sprintf("https://github.com/%s/%s/issues/%d", org, TrackerRepo, g.issueID)
	if issue, err := g.src.Issue(ctx, org, TrackerRepo, g.issueID); err != nil {
		g.log.Warnw("could not fetch tracking issue", "error", err)
	} else if issue.HTMLURL != "" {
		issueURL = issue.HTMLURL
	}

	now := g.now().UTC().Format(dateLayout)
	tags := repo.Topics
	if tags == nil {
		tags = []string{}
	}
	if langs == nil {
		langs = []string{}
	}
	return MasterEntry{
		ID:            g.issueID,
		BesTrackingID: g.issueID,
		IssueURL:      issueURL,
		Name:          g.name,
		URL:           repo.HTMLURL,
		Description:   repo.Description,
		Language:      langs,
		Tags:          tags,
		License:       repo.License,
		DefaultBranch: repo.DefaultBranch,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateVersion writes the version details file from the project's
// releases. An existing file is only replaced when overwrite is set;
// scores already recorded for a version are kept.
func (g *Generator) UpdateVersion(ctx context.Context, overwrite bool) error {
	if err := fileutil.CheckPathElement("name", g.name); err != nil {
		return err
	}
	vs := NewVersionStore(VersionPath(g.env.OSSPOIDir, g.issueID, g.name))
	exists, err := vs.Exists()
	if err != nil {
		return errors.Wrapf(err, "stat %s", vs.Path())
	}
	if exists && !overwrite {
		tui.Info(g.out, "%s already exists, use --overwrite to replace it", vs.Path())
		return nil
	}

	previous, err := vs.Load()
	if err != nil {
		return err
	}
	known := make(map[string]VersionEntry, len(previous))
	for _, e := range previous {
		known[e.Version] = e
	}

	entries, err := g.versionEntries(ctx)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if old, ok := known[e.Version]; ok {
			entries[i].Scorecard = old.Scorecard
			entries[i].CriticalityScore = old.CriticalityScore
		}
	}

	if err := vs.Save(entries); err != nil {
		return err
	}
	g.log.Infow("updated version details", "path", vs.Path(), "versions", len(entries))
	tui.Success(g.out, "Updated %s", vs.Path())
	return nil
}

func (g *Generator) versionEntries(ctx context.Context) ([]VersionEntry, error) {
	org := g.env.GitHubOrg
	releases, err := g.src.Releases(ctx, org, g.name)
	if err != nil {
		return nil, err
	}

	var entries []VersionEntry
	for _, r := range releases {
		if r.Draft {
			continue
		}
		date := NotAvailable
		if !r.PublishedAt.IsZero() {
			date = r.PublishedAt.UTC().Format(dateLayout)
		}
		entries = append(entries, VersionEntry{
			Version:          r.TagName,
			ReleaseDate:      date,
			Scorecard:        NotAvailable,
			CriticalityScore: NotAvailable,
		})
	}
	if len(entries) > 0 {
		return entries, nil
	}

	// No releases: track the default branch instead.
	repo, err := g.src.Repository(ctx, org, g.name)
	if err != nil {
		return nil, err
	}
	g.log.Infow("no releases found, using default branch", "branch", repo.DefaultBranch)
	return []VersionEntry{{
		Version:          repo.DefaultBranch,
		ReleaseDate:      NotAvailable,
		Scorecard:        NotAvailable,
		CriticalityScore: NotAvailable,
	}}, nil
}

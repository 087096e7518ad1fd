package ossp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/fileutil"
)

// NotAvailable is recorded for scores that have not been generated yet.
const NotAvailable = "Not Available"

// Score fields of a version record. They match the report kinds that
// produce them.
const (
	FieldScorecard        = "scorecard"
	FieldCriticalityScore = "criticality_score"
)

// MasterEntry is one project in OSSP-Master.json.
type MasterEntry struct {
	ID            int      `json:"id"`
	BesTrackingID int      `json:"bes_tracking_id"`
	IssueURL      string   `json:"issue_url"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	Language      []string `json:"language"`
	Tags          []string `json:"tags"`
	License       string   `json:"license"`
	DefaultBranch string   `json:"default_branch"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// VersionEntry is one version in a version details file.
type VersionEntry struct {
	Version          string `json:"version"`
	ReleaseDate      string `json:"release_date"`
	Scorecard        string `json:"scorecard"`
	CriticalityScore string `json:"criticality_score"`
}

// MasterPath returns the location of OSSP-Master.json in the datastore.
func MasterPath(osspoiDir string) string {
	return filepath.Join(osspoiDir, "OSSP-Master.json")
}

// VersionPath returns the location of the version details file of a project.
func VersionPath(osspoiDir string, issueID int, name string) string {
	return filepath.Join(osspoiDir, "version_details",
		fmt.Sprintf("%d-%s-Versiondetails.json", issueID, name))
}

// LoadMaster reads the master list. A missing file is an empty list.
func LoadMaster(path string) ([]MasterEntry, error) {
	var entries []MasterEntry
	if err := fileutil.ReadJSON(path, &entries); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load OSSP master")
	}
	return entries, nil
}

// SaveMaster writes the master list sorted by id.
func SaveMaster(path string, entries []MasterEntry) error {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return fileutil.WriteJSON(path, entries)
}

// VersionStore reads and updates the version details file of one project.
type VersionStore struct {
	path string
}

// NewVersionStore creates a store for the file at path.
func NewVersionStore(path string) *VersionStore {
	return &VersionStore{path: path}
}

// Path returns the file location.
func (s *VersionStore) Path() string { return s.path }

// Exists reports whether the file is present.
func (s *VersionStore) Exists() (bool, error) {
	return fileutil.PathExists(s.path)
}

// Load reads all version records. A missing file yields no records.
func (s *VersionStore) Load() ([]VersionEntry, error) {
	var entries []VersionEntry
	if err := fileutil.ReadJSON(s.path, &entries); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load version details")
	}
	return entries, nil
}

// Save replaces all version records.
func (s *VersionStore) Save(entries []VersionEntry) error {
	if entries == nil {
		entries = []VersionEntry{}
	}
	return fileutil.WriteJSON(s.path, entries)
}

// SetScore stores score in field of the record for version, adding the
// record if it does not exist.
func (s *VersionStore) SetScore(version, field, score string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i := range entries {
		if entries[i].Version == version {
			idx = i
			break
		}
	}
	if idx < 0 {
		entries = append(entries, VersionEntry{
			Version:          version,
			ReleaseDate:      NotAvailable,
			Scorecard:        NotAvailable,
			CriticalityScore: NotAvailable,
		})
		idx = len(entries) - 1
	}

	switch field {
	case FieldScorecard:
		entries[idx].Scorecard = score
	case FieldCriticalityScore:
		entries[idx].CriticalityScore = score
	default:
		return errors.Errorf("unknown score field %q", field)
	}
	return s.Save(entries)
}

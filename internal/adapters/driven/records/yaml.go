package records

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// snapshotFile is the on-disk layout of a YAML snapshot.
type snapshotFile struct {
	Accounts      []yamlRecord `yaml:"accounts"`
	Contacts      []yamlRecord `yaml:"contacts"`
	Leads         []yamlRecord `yaml:"leads"`
	Opportunities []yamlRecord `yaml:"opportunities"`
	Cases         []yamlRecord `yaml:"cases"`
}

type yamlRecord struct {
	ID        string `yaml:"id"`
	Owner     string `yaml:"owner"`
	Name      string `yaml:"name"`
	Phone     string `yaml:"phone"`
	Website   string `yaml:"website"`
	Email     string `yaml:"email"`
	AccountID string `yaml:"account_id"`
}

func (f snapshotFile) section(t domain.ObjectType) []yamlRecord {
	switch t {
	case domain.ObjectAccount:
		return f.Accounts
	case domain.ObjectContact:
		return f.Contacts
	case domain.ObjectLead:
		return f.Leads
	case domain.ObjectOpportunity:
		return f.Opportunities
	case domain.ObjectCase:
		return f.Cases
	default:
		return nil
	}
}

// YAMLSource reads records from a YAML snapshot file.
// The file is re-read on every fetch so edits are picked up between scans.
type YAMLSource struct {
	path string
}

var _ driven.RecordSource = (*YAMLSource)(nil)

// NewYAMLSource creates a source for the snapshot at path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Path returns the snapshot file path.
func (s *YAMLSource) Path() string {
	return s.path
}

// Fetch returns at most limit records of objectType with only fields populated.
func (s *YAMLSource) Fetch(
	ctx context.Context,
	objectType domain.ObjectType,
	fields domain.FieldSet,
	limit int,
) ([]domain.SourceRecord, error) {
	if !objectType.IsValid() {
		return nil, fmt.Errorf("%w: unknown object type %q", domain.ErrInvalidInput, objectType)
	}
	file, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	section := file.section(objectType)
	if limit > 0 && len(section) > limit {
		section = section[:limit]
	}
	out := make([]domain.SourceRecord, 0, len(section))
	for _, r := range section {
		out = append(out, r.toRecord(objectType).Project(fields))
	}
	return out, nil
}

// Load returns every record in the snapshot, in file order by type.
func (s *YAMLSource) Load(ctx context.Context) ([]domain.SourceRecord, error) {
	file, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.SourceRecord
	for _, t := range domain.AllObjectTypes() {
		for _, r := range file.section(t) {
			out = append(out, r.toRecord(t))
		}
	}
	return out, nil
}

func (s *YAMLSource) read(ctx context.Context) (snapshotFile, error) {
	var file snapshotFile
	if err := ctx.Err(); err != nil {
		return file, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return file, fmt.Errorf("%w: reading snapshot: %w", domain.ErrSourceUnavailable, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("%w: parsing snapshot %s: %w", domain.ErrSourceUnavailable, s.path, err)
	}
	return file, nil
}

func (r yamlRecord) toRecord(t domain.ObjectType) domain.SourceRecord {
	return domain.SourceRecord{
		ID:         r.ID,
		ObjectType: t,
		Owner:      r.Owner,
		Name:       r.Name,
		Phone:      r.Phone,
		Website:    r.Website,
		Email:      r.Email,
		ParentID:   r.AccountID,
	}
}

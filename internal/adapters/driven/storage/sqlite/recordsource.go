package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// recordTable maps an object type to its table and field columns.
type recordTable struct {
	name    string
	columns map[domain.Field]string
}

var recordTables = map[domain.ObjectType]recordTable{
	domain.ObjectAccount: {"accounts", map[domain.Field]string{
		domain.FieldOwner: "owner", domain.FieldName: "name",
		domain.FieldPhone: "phone", domain.FieldWebsite: "website",
	}},
	domain.ObjectContact: {"contacts", map[domain.Field]string{
		domain.FieldOwner: "owner", domain.FieldName: "name", domain.FieldPhone: "phone",
		domain.FieldEmail: "email", domain.FieldParent: "account_id",
	}},
	domain.ObjectLead: {"leads", map[domain.Field]string{
		domain.FieldOwner: "owner", domain.FieldName: "name",
		domain.FieldPhone: "phone", domain.FieldEmail: "email",
	}},
	domain.ObjectOpportunity: {"opportunities", map[domain.Field]string{
		domain.FieldOwner: "owner", domain.FieldName: "name", domain.FieldParent: "account_id",
	}},
	domain.ObjectCase: {"cases", map[domain.Field]string{
		domain.FieldOwner: "owner", domain.FieldName: "name", domain.FieldParent: "account_id",
	}},
}

// fieldOrder fixes the column order used in SELECT and INSERT.
var fieldOrder = []domain.Field{
	domain.FieldOwner, domain.FieldName, domain.FieldPhone,
	domain.FieldWebsite, domain.FieldEmail, domain.FieldParent,
}

// RecordSource reads business records from the store's record tables.
type RecordSource struct {
	store *Store
}

var _ driven.RecordSource = (*RecordSource)(nil)

// Fetch returns at most limit records of objectType with only fields populated.
// Fields with no column on the type's table are left empty.
func (r *RecordSource) Fetch(
	ctx context.Context,
	objectType domain.ObjectType,
	fields domain.FieldSet,
	limit int,
) ([]domain.SourceRecord, error) {
	table, ok := recordTables[objectType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown object type %q", domain.ErrInvalidInput, objectType)
	}

	cols := []string{"id"}
	var selected []domain.Field
	for _, f := range fieldOrder {
		col, ok := table.columns[f]
		if !ok || !fields.Has(f) {
			continue
		}
		cols = append(cols, col)
		selected = append(selected, f)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(cols, ", "), table.name)
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", domain.ErrSourceUnavailable, table.name, err)
	}
	defer rows.Close()

	var records []domain.SourceRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec := domain.SourceRecord{ObjectType: objectType}
		dest := []any{&rec.ID}
		for _, f := range selected {
			dest = append(dest, fieldPtr(&rec, f))
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", domain.ErrSourceUnavailable, table.name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s: %w", domain.ErrSourceUnavailable, table.name, err)
	}
	return records, nil
}

// Put inserts or replaces records, grouped by object type, in one transaction.
func (r *RecordSource) Put(ctx context.Context, records []domain.SourceRecord) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, rec := range records {
		table, ok := recordTables[rec.ObjectType]
		if !ok {
			return fmt.Errorf("%w: record %s has unknown object type %q",
				domain.ErrInvalidInput, rec.ID, rec.ObjectType)
		}
		if rec.ID == "" {
			return fmt.Errorf("%w: %s record without id", domain.ErrInvalidInput, rec.ObjectType)
		}

		cols := []string{"id"}
		args := []any{rec.ID}
		for _, f := range fieldOrder {
			col, ok := table.columns[f]
			if !ok {
				continue
			}
			cols = append(cols, col)
			args = append(args, *fieldPtr(&rec, f))
		}

		query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
			table.name, strings.Join(cols, ", "), placeholders(len(cols)))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("saving %s %s: %w", rec.ObjectType, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes a record. Deleting an unknown record is not an error.
func (r *RecordSource) Delete(ctx context.Context, objectType domain.ObjectType, id string) error {
	table, ok := recordTables[objectType]
	if !ok {
		return fmt.Errorf("%w: unknown object type %q", domain.ErrInvalidInput, objectType)
	}
	if _, err := r.store.db.ExecContext(ctx, "DELETE FROM "+table.name+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", objectType, id, err)
	}
	return nil
}

func fieldPtr(rec *domain.SourceRecord, f domain.Field) *string {
	switch f {
	case domain.FieldOwner:
		return &rec.Owner
	case domain.FieldName:
		return &rec.Name
	case domain.FieldPhone:
		return &rec.Phone
	case domain.FieldWebsite:
		return &rec.Website
	case domain.FieldEmail:
		return &rec.Email
	case domain.FieldParent:
		return &rec.ParentID
	default:
		return &rec.ID
	}
}

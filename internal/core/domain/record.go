package domain

import "fmt"

// MaxRecordsPerType caps how many records of one object type a scan reads.
const MaxRecordsPerType = 10000

// ObjectType identifies the kind of business record.
type ObjectType string

// Supported object types.
const (
	ObjectAccount     ObjectType = "Account"
	ObjectContact     ObjectType = "Contact"
	ObjectLead        ObjectType = "Lead"
	ObjectOpportunity ObjectType = "Opportunity"
	ObjectCase        ObjectType = "Case"
)

// AllObjectTypes lists every supported object type.
func AllObjectTypes() []ObjectType {
	return []ObjectType{ObjectAccount, ObjectContact, ObjectLead, ObjectOpportunity, ObjectCase}
}

// IsValid returns true if the object type is recognised.
func (t ObjectType) IsValid() bool {
	switch t {
	case ObjectAccount, ObjectContact, ObjectLead, ObjectOpportunity, ObjectCase:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ObjectType) String() string {
	return string(t)
}

// ParseObjectType converts a raw string into an ObjectType.
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown object type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Field names a SourceRecord attribute a rule may request.
type Field string

// Record fields.
const (
	FieldID      Field = "id"
	FieldOwner   Field = "owner"
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldWebsite Field = "website"
	FieldEmail   Field = "email"
	FieldParent  Field = "parent"
)

// FieldSet is the projection a rule needs from the record source.
type FieldSet []Field

// Has reports whether the set contains f.
func (fs FieldSet) Has(f Field) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

// SourceRecord is a read-only snapshot of a business record.
// Only the fields requested from the source are populated;
// ID and ObjectType are always present.
type SourceRecord struct {
	// ID is the record identifier in the external store.
	ID string

	// ObjectType is the kind of record.
	ObjectType ObjectType

	// Owner is the display name of the record owner.
	Owner string

	// Name is the Account name.
	Name string

	// Phone is the raw phone number as entered.
	Phone string

	// Website is the Account website.
	Website string

	// Email is the Contact or Lead email address.
	Email string

	// ParentID references the parent Account of a Contact, Opportunity or Case.
	ParentID string
}

// Project returns a copy holding only the fields in fs.
func (r SourceRecord) Project(fs FieldSet) SourceRecord {
	out := SourceRecord{ID: r.ID, ObjectType: r.ObjectType}
	if fs.Has(FieldOwner) {
		out.Owner = r.Owner
	}
	if fs.Has(FieldName) {
		out.Name = r.Name
	}
	if fs.Has(FieldPhone) {
		out.Phone = r.Phone
	}
	if fs.Has(FieldWebsite) {
		out.Website = r.Website
	}
	if fs.Has(FieldEmail) {
		out.Email = r.Email
	}
	if fs.Has(FieldParent) {
		out.ParentID = r.ParentID
	}
	return out
}

// SnapshotRequest declares the records a rule needs.
type SnapshotRequest struct {
	ObjectType ObjectType
	Fields     FieldSet
}

// Snapshot holds the fetched records for one rule, keyed by object type.
type Snapshot map[ObjectType][]SourceRecord

// Records returns the records of the given type, or nil.
func (s Snapshot) Records(t ObjectType) []SourceRecord {
	return s[t]
}

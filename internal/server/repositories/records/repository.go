package records

import "context"

// Repository reads fields from application records referenced by
// Value-mode entries. The store is treated as an opaque collection of
// (type, id) records with string-addressable fields.
type Repository interface {
	GetField(ctx context.Context, recordType, recordID, field string) (string, error)
	Exists(ctx context.Context, recordType, recordID string) (bool, error)
}

package models

import "time"

// AuditFields mirrors the created_at / updated_at columns present on every
// table.
type AuditFields struct {
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

package types

import (
  "time"

  "github.com/google/uuid"
)

// QuotaUsage records one successful playbook generation. The monthly quota
// gate counts these rows within UTC calendar-month boundaries.
type QuotaUsage struct {
  ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
  DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
  CreatedAt  time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (QuotaUsage) TableName() string {
  return "quota_usage"
}

package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

// Document is the generated sales playbook. Markdown is mirrored into
// Content for viewers that read the denormalized column.
type Document struct {
  ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  RunID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"run_id"`
  Run       *Run           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RunID;references:ID" json:"run,omitempty"`
  Title     string         `gorm:"column:title" json:"title"`
  Markdown  string         `gorm:"column:markdown" json:"markdown"`
  Content   string         `gorm:"column:content" json:"content"`
  Meta      datatypes.JSON `gorm:"type:jsonb;column:meta" json:"meta"`
  CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }

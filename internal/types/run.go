package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  RunStatusDraft      = "draft"
  RunStatusGenerating = "generating"
  RunStatusReady      = "ready"
  RunStatusFailed     = "failed"
)

// Run groups one Company, one Product and one ICP selection plus style
// knobs, and owns the Documents generated from it.
type Run struct {
  ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
  Company         *Company       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
  ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
  Product         *Product       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
  ICPID           *uuid.UUID     `gorm:"type:uuid;index" json:"icp_id,omitempty"`
  ICP             *ICP           `gorm:"constraint:OnDelete:SET NULL;foreignKey:ICPID;references:ID" json:"icp,omitempty"`
  Name            string         `gorm:"column:name" json:"name"`
  Tone            string         `gorm:"column:tone" json:"tone"`
  ExperienceLevel string         `gorm:"column:experience_level" json:"experience_level"`
  WordLimit       int            `gorm:"column:word_limit;not null;default:0" json:"word_limit"`
  Language        string         `gorm:"column:language" json:"language"`
  Status          string         `gorm:"column:status;not null;default:'draft';index" json:"status"` // draft|generating|ready|failed
  CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Run) TableName() string { return "run" }

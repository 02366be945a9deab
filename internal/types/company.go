package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Company struct {
  ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Name      string         `gorm:"column:name;not null" json:"name"`
  Industry  string         `gorm:"column:industry" json:"industry"`
  Size      string         `gorm:"column:size" json:"size"`
  Region    string         `gorm:"column:region" json:"region"`
  CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Company) TableName() string { return "company" }

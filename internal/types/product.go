package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Product struct {
  ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Name          string         `gorm:"column:name;not null" json:"name"`
  Summary       string         `gorm:"column:summary" json:"summary"`
  Differentiator string        `gorm:"column:differentiator" json:"differentiator"`
  PricingModel  string         `gorm:"column:pricing_model" json:"pricing_model"`
  Assets        string         `gorm:"column:assets" json:"assets"`
  Integrations  string         `gorm:"column:integrations" json:"integrations"`
  Category      string         `gorm:"column:category" json:"category"`
  ValueProps    datatypes.JSON `gorm:"type:jsonb;column:value_props" json:"value_props"`
  ProofPoints   datatypes.JSON `gorm:"type:jsonb;column:proof_points" json:"proof_points"`
  CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }

package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

// ICP is an Ideal Customer Profile: the structured description of a target
// buyer used as generation context.
type ICP struct {
  ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Name           string         `gorm:"column:name" json:"name"`
  Industry       string         `gorm:"column:industry" json:"industry"`
  CompanySize    string         `gorm:"column:company_size" json:"company_size"`
  BuyerRoles     datatypes.JSON `gorm:"type:jsonb;column:buyer_roles" json:"buyer_roles"`
  PainPoints     datatypes.JSON `gorm:"type:jsonb;column:pain_points" json:"pain_points"`
  Description    string         `gorm:"column:description" json:"description"`
  UseCases       string         `gorm:"column:use_cases" json:"use_cases"`
  DecisionMakers string         `gorm:"column:decision_makers" json:"decision_makers"`
  Influencers    string         `gorm:"column:influencers" json:"influencers"`
  Triggers       string         `gorm:"column:triggers" json:"triggers"`
  DealBreakers   string         `gorm:"column:deal_breakers" json:"deal_breakers"`
  Regions        string         `gorm:"column:regions" json:"regions"`
  Objections     string         `gorm:"column:objections" json:"objections"`
  CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ICP) TableName() string { return "icp" }

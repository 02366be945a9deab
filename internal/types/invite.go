package types

import (
  "time"

  "github.com/google/uuid"
)

// Invite is the waitlist gate: registration requires an approved invite row
// for the email.
type Invite struct {
  ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Email      string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Approved   bool       `gorm:"not null;default:false;column:approved" json:"approved"`
  ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
  CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Invite) TableName() string {
  return "invite"
}

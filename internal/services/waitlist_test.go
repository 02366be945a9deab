package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/bizzdev-ai/bizzdev-backend/internal/types"
)

type fakeInviteRepo struct {
  byEmail map[string]*types.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
  return &fakeInviteRepo{byEmail: map[string]*types.Invite{}}
}

func (f *fakeInviteRepo) Create(ctx context.Context, tx *gorm.DB, invites []*types.Invite) ([]*types.Invite, error) {
  for _, inv := range invites {
    f.byEmail[inv.Email] = inv
  }
  return invites, nil
}

func (f *fakeInviteRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Invite, error) {
  return f.byEmail[email], nil
}

func (f *fakeInviteRepo) Approve(ctx context.Context, tx *gorm.DB, email string) error {
  if inv, ok := f.byEmail[email]; ok {
    inv.Approved = true
  }
  return nil
}

func TestWaitlistJoinIsIdempotent(t *testing.T) {
  repo := newFakeInviteRepo()
  svc := NewWaitlistService(nil, newTestLogger(t), repo)

  first, err := svc.Join(context.Background(), "User@Example.com")
  if err != nil {
    t.Fatalf("join failed: %v", err)
  }
  second, err := svc.Join(context.Background(), "user@example.com")
  if err != nil {
    t.Fatalf("second join failed: %v", err)
  }
  if first.ID != second.ID {
    t.Fatalf("join must be idempotent: %v vs %v", first.ID, second.ID)
  }
  if first.Email != "user@example.com" {
    t.Fatalf("email not normalized: %q", first.Email)
  }
  if first.Approved {
    t.Fatalf("fresh invite must not be approved")
  }
}

func TestWaitlistApproveUnknownEmailCreatesApproved(t *testing.T) {
  repo := newFakeInviteRepo()
  svc := NewWaitlistService(nil, newTestLogger(t), repo)

  if err := svc.Approve(context.Background(), "new@example.com"); err != nil {
    t.Fatalf("approve failed: %v", err)
  }
  inv := repo.byEmail["new@example.com"]
  if inv == nil || !inv.Approved {
    t.Fatalf("approve of unknown email must create approved invite")
  }
  if inv.ID == uuid.Nil {
    t.Fatalf("invite id not set")
  }
}

func TestWaitlistApproveExisting(t *testing.T) {
  repo := newFakeInviteRepo()
  svc := NewWaitlistService(nil, newTestLogger(t), repo)

  if _, err := svc.Join(context.Background(), "joined@example.com"); err != nil {
    t.Fatalf("join failed: %v", err)
  }
  if err := svc.Approve(context.Background(), "joined@example.com"); err != nil {
    t.Fatalf("approve failed: %v", err)
  }
  status, err := svc.Status(context.Background(), "joined@example.com")
  if err != nil {
    t.Fatalf("status failed: %v", err)
  }
  if !status.Approved {
    t.Fatalf("invite should be approved after Approve")
  }
}

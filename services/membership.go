package services

import (
	"github.com/google/uuid"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

// Membership is the single authorization oracle: every permission decision in
// the service layer goes through it, never through ad-hoc role checks. It
// performs pure reads against the membership table and has no side effects.
type Membership struct {
	members *database.MemberRepo
}

func NewMembership(db database.Database) *Membership {
	return &Membership{members: db.MemberRepo()}
}

// IsMember reports whether a membership row exists for the pair.
func (m *Membership) IsMember(projectID, userID uuid.UUID) (bool, error) {
	member, err := m.members.Find(projectID, userID)
	if err != nil {
		return false, errs.NewDatabaseError("find membership", "project member", err)
	}
	return member != nil, nil
}

// RoleOf returns the user's role in the project, "" when not a member.
func (m *Membership) RoleOf(projectID, userID uuid.UUID) (models.Role, error) {
	role, err := m.members.RoleOf(projectID, userID)
	if err != nil {
		return "", errs.NewDatabaseError("find membership role", "project member", err)
	}
	return role, nil
}

// AssertMember fails with NotFoundOrDenied for non-members. The same error is
// produced for projects that do not exist, so a caller cannot tell an
// inaccessible project from an absent one.
func (m *Membership) AssertMember(projectID, userID uuid.UUID) error {
	ok, err := m.IsMember(projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFoundOrDenied("project")
	}
	return nil
}

// AssertEditor fails with InsufficientPermissions unless the user holds
// OWNER or ADMIN on the project.
func (m *Membership) AssertEditor(projectID, userID uuid.UUID) error {
	role, err := m.RoleOf(projectID, userID)
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return errs.InsufficientPermissions("modify this project")
	}
	return nil
}

package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type MemberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) *MemberRepo {
	return &MemberRepo{db}
}

// Find returns the membership row for (projectID, userID), or nil when the
// user is not a member.
func (r *MemberRepo) Find(projectID, userID uuid.UUID) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.db.First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RoleOf returns the user's role in the project, or "" for non-members.
func (r *MemberRepo) RoleOf(projectID, userID uuid.UUID) (models.Role, error) {
	member, err := r.Find(projectID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return member.Role, nil
}

// ListByProject returns all memberships for a project with users preloaded.
func (r *MemberRepo) ListByProject(projectID uuid.UUID) ([]*models.ProjectMember, error) {
	var members []*models.ProjectMember
	err := r.db.Preload("User").Where("project_id = ?", projectID).Order("joined_at ASC").Find(&members).Error
	return members, err
}

// ProjectIDs returns the ids of every project the user belongs to.
func (r *MemberRepo) ProjectIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error
	return ids, err
}

// Add inserts a membership row.
func (r *MemberRepo) Add(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// Remove deletes the membership row for (projectID, userID).
func (r *MemberRepo) Remove(projectID, userID uuid.UUID) error {
	return r.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

package leaverequest

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_request_repo.go -destination=mock/leave_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindAllByUser(ctx context.Context, userID int64) ([]LeaveRequest, error)
	FindByIDAndUser(ctx context.Context, id, userID int64) (*LeaveRequest, error)
	FindByID(ctx context.Context, id int64) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	Update(ctx context.Context, lr *LeaveRequest) error
	Delete(ctx context.Context, id int64) error
	HasPendingForUser(ctx context.Context, userID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx scopes the repository to a running transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindAllByUser(ctx context.Context, userID int64) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

// FindByIDAndUser resolves existence and ownership in a single predicate so a
// foreign id and a missing id are indistinguishable to the caller.
func (r *repository) FindByIDAndUser(ctx context.Context, id, userID int64) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) HasPendingForUser(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return count > 0, err
}

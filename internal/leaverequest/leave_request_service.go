package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	leaverequesterrors "leavedesk/internal/leaverequest/errors"
	"leavedesk/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const minReasonLength = 10

//go:generate mockgen -source=leave_request_service.go -destination=mock/leave_request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID int64, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetAllForUser(ctx context.Context, userID int64) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, userID, id int64) (LeaveRequestResponse, error)
	Update(ctx context.Context, userID, id int64, req UpdateLeaveRequest) (LeaveRequestResponse, error)
	Delete(ctx context.Context, userID, id int64) error
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	Approve(ctx context.Context, id int64, adminComment *string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id int64, adminComment string) (LeaveRequestResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// log prefers the request-scoped logger so entries carry the request id.
func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// inTx runs fn against a transaction-scoped repository. Serializable
// isolation keeps the check-then-act sequences (pending-exists-before-insert,
// pending-status-before-transition) race free across processes.
func (s *service) inTx(ctx context.Context, fn func(qtx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (s *service) Create(ctx context.Context, userID int64, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.log(ctx).Debug("create leave request requested",
		zap.Int64("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := validateDatesAndReason(req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.log(ctx).Warn("create leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	lr := &LeaveRequest{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	err = s.inTx(ctx, func(qtx Repository) error {
		hasPending, err := qtx.HasPendingForUser(ctx, userID)
		if err != nil {
			s.log(ctx).Error("create leave request pending check failed", zap.Error(err))
			return err
		}
		if hasPending {
			s.log(ctx).Warn("create leave request pending conflict", zap.Int64("user_id", userID))
			return leaverequesterrors.ErrPendingRequestExists
		}

		return qtx.Create(ctx, lr)
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.log(ctx).Info("leave request created",
		zap.Int64("request_id", lr.ID),
		zap.Int64("user_id", userID),
	)

	return mapToResponse(*lr), nil
}

func (s *service) GetAllForUser(ctx context.Context, userID int64) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, userID, id int64) (LeaveRequestResponse, error) {
	lr, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Update(ctx context.Context, userID, id int64, req UpdateLeaveRequest) (LeaveRequestResponse, error) {
	s.log(ctx).Debug("update leave request requested",
		zap.Int64("request_id", id),
		zap.Int64("user_id", userID),
	)

	startDate, endDate, err := validateDatesAndReason(req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.log(ctx).Warn("update leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	var lr *LeaveRequest
	err = s.inTx(ctx, func(qtx Repository) error {
		found, err := qtx.FindByIDAndUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if found.Status != StatusPending {
			return leaverequesterrors.ErrNotPending
		}

		found.StartDate = startDate
		found.EndDate = endDate
		found.Reason = req.Reason

		if err := qtx.Update(ctx, found); err != nil {
			return err
		}
		lr = found
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.log(ctx).Info("leave request updated", zap.Int64("request_id", id))

	return mapToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, userID, id int64) error {
	err := s.inTx(ctx, func(qtx Repository) error {
		found, err := qtx.FindByIDAndUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if found.Status != StatusPending {
			return leaverequesterrors.ErrNotPending
		}

		return qtx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("leave request deleted",
		zap.Int64("request_id", id),
		zap.Int64("user_id", userID),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Approve(ctx context.Context, id int64, adminComment *string) (LeaveRequestResponse, error) {
	return s.transitionStatus(ctx, id, StatusApproved, adminComment)
}

func (s *service) Reject(ctx context.Context, id int64, adminComment string) (LeaveRequestResponse, error) {
	if adminComment == "" {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAdminCommentRequired
	}
	return s.transitionStatus(ctx, id, StatusRejected, &adminComment)
}

// transitionStatus performs the only legal state transitions,
// pending -> approved and pending -> rejected. Any other starting status is
// refused so a processed request can never be overwritten.
func (s *service) transitionStatus(ctx context.Context, id int64, targetStatus string, adminComment *string) (LeaveRequestResponse, error) {
	s.log(ctx).Debug("transition leave request requested",
		zap.Int64("request_id", id),
		zap.String("target_status", targetStatus),
	)

	var lr *LeaveRequest
	err := s.inTx(ctx, func(qtx Repository) error {
		found, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrLeaveRequestNotFound
			}
			return err
		}
		if found.Status != StatusPending {
			s.log(ctx).Warn("transition leave request refused",
				zap.Int64("request_id", id),
				zap.String("from_status", found.Status),
				zap.String("to_status", targetStatus),
			)
			return leaverequesterrors.ErrAlreadyProcessed
		}

		found.Status = targetStatus
		found.AdminComment = adminComment

		if err := qtx.Update(ctx, found); err != nil {
			return err
		}
		lr = found
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.log(ctx).Info("leave request transitioned",
		zap.Int64("request_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*lr), nil
}

func validateDatesAndReason(start, end, reason string) (time.Time, time.Time, error) {
	if utf8.RuneCountInString(reason) < minReasonLength {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrReasonTooShort
	}
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	if startDate.Before(today()) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrStartDateInPast
	}
	return startDate, endDate, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC3339 timestamp. Either way the
// result is truncated to midnight UTC; time of day never participates in the
// ordering or past-date rules.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           lr.ID,
		UserID:       lr.UserID,
		StartDate:    lr.StartDate.Format("2006-01-02"),
		EndDate:      lr.EndDate.Format("2006-01-02"),
		Reason:       lr.Reason,
		Status:       lr.Status,
		AdminComment: lr.AdminComment,
		CreatedAt:    lr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    lr.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}

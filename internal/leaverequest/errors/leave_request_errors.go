package leaverequesterrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid ID format",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD or RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must be after start date",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"Start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrAdminCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Admin comment is required for rejection",
		http.StatusBadRequest,
	)
	ErrPendingRequestExists = apperror.New(
		apperror.CodeConflict,
		"You already have a pending leave request. Please wait for it to be processed or delete it before creating a new one.",
		http.StatusConflict,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be modified",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be approved or rejected",
		http.StatusConflict,
	)
)

package holidayserrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Year must be a 4-digit number between 2000 and ten years from now",
		http.StatusBadRequest,
	)
	ErrInvalidCountryCode = apperror.New(
		apperror.CodeInvalidInput,
		"Country code must be exactly 2 letters",
		http.StatusBadRequest,
	)
	ErrHolidaysNotFound = apperror.New(
		apperror.CodeNotFound,
		"No public holidays found for this country code",
		http.StatusNotFound,
	)
	ErrProviderUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Holiday provider is unavailable",
		http.StatusServiceUnavailable,
	)
)

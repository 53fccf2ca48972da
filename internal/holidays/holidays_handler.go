package holidays

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	holidayserrors "leavedesk/internal/holidays/errors"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holidays.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holidays.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("holidays request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parseYearParam(v string) (int, error) {
	if len(v) != 4 {
		return 0, holidayserrors.ErrInvalidYear
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, holidayserrors.ErrInvalidYear
	}
	if year < 2000 || year > time.Now().Year()+10 {
		return 0, holidayserrors.ErrInvalidYear
	}
	return year, nil
}

func parseCountryCodeParam(v string) (string, error) {
	if len(v) != 2 {
		return "", holidayserrors.ErrInvalidCountryCode
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return "", holidayserrors.ErrInvalidCountryCode
		}
	}
	return strings.ToUpper(v), nil
}

func (h *Handler) GetPublicHolidays(c *gin.Context) {
	year, err := parseYearParam(c.Param("year"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	countryCode, err := parseCountryCodeParam(c.Param("countryCode"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetPublicHolidays(c.Request.Context(), year, countryCode)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

package leaverequest

import (
	"net/http"
	"strconv"

	leaverequesterrors "leavedesk/internal/leaverequest/errors"
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
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeBindingError(c *gin.Context, err error) {
	h.logger.Warn("leave request binding failed", zap.Error(err))
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func requestIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, leaverequesterrors.ErrInvalidRequestID
	}
	return id, nil
}

func paginate(c *gin.Context, resp []LeaveRequestResponse) ([]LeaveRequestResponse, response.PaginationMeta) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	return resp[start:end], response.NewPaginationMeta(total, page, pageSize)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	userID := c.GetInt64("user_id")

	resp, err := h.service.GetAllForUser(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := requestIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := requestIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := requestIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := requestIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// empty body is allowed, the comment is optional on approval
	var req ApproveLeaveRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeBindingError(c, err)
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), id, req.AdminComment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := requestIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindingError(c, err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), id, req.AdminComment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

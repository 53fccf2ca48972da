package leaverequest

type CreateLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type UpdateLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ApproveLeaveRequest struct {
	AdminComment *string `json:"adminComment"`
}

type RejectLeaveRequest struct {
	AdminComment string `json:"adminComment" binding:"required"`
}

type LeaveRequestResponse struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	AdminComment *string `json:"adminComment,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

package handler

import (
	"time"

	"github.com/hitoshi/leavedesk/internal/leave"
	"github.com/hitoshi/leavedesk/internal/model"
)

// dateLayout はAPIレスポンスの日付表現。
const dateLayout = "2006-01-02"

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは決して含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	StudentID string    `json:"student_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      string(u.Role),
		Name:      u.Name,
		StudentID: u.StudentID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// applicantResponse は審査者向けの申請者プロフィールスナップショット。
type applicantResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"student_id"`
}

// leaveResponse は請假申請のAPIレスポンス。
type leaveResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	LeaveType        string             `json:"leave_type"`
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	Reason           string             `json:"reason"`
	Status           string             `json:"status"`
	EmergencyContact string             `json:"emergency_contact"`
	ReviewerNote     string             `json:"reviewer_note"`
	AttachmentURL    string             `json:"attachment_url"`
	ReviewedBy       *string            `json:"reviewed_by"`
	ReviewedAt       *time.Time         `json:"reviewed_at"`
	RejectedReason   string             `json:"rejected_reason"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Applicant        *applicantResponse `json:"applicant,omitempty"`
}

func toLeaveResponse(req *model.LeaveRequest) leaveResponse {
	resp := leaveResponse{
		ID:               req.ID.String(),
		UserID:           req.UserID.String(),
		LeaveType:        string(req.Type),
		StartDate:        req.StartDate.Format(dateLayout),
		EndDate:          req.EndDate.Format(dateLayout),
		Reason:           req.Reason,
		Status:           string(req.Status),
		EmergencyContact: req.EmergencyContact,
		ReviewerNote:     req.ReviewerNote,
		AttachmentURL:    req.AttachmentURL,
		RejectedReason:   req.RejectedReason,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
	if req.ReviewedBy != nil {
		s := req.ReviewedBy.String()
		resp.ReviewedBy = &s
	}
	if req.ReviewedAt != nil {
		t := *req.ReviewedAt
		resp.ReviewedAt = &t
	}
	return resp
}

func toLeaveDetailResponse(d *leave.Detail) leaveResponse {
	resp := toLeaveResponse(d.Request)
	if d.Applicant != nil {
		resp.Applicant = &applicantResponse{
			Name:      d.Applicant.Name,
			Email:     d.Applicant.Email,
			StudentID: d.Applicant.StudentID,
		}
	}
	return resp
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/leavedesk/internal/leave"
	"github.com/hitoshi/leavedesk/internal/middleware"
	"github.com/hitoshi/leavedesk/internal/model"
)

// LeaveServiceInterface は請假ハンドラーが必要とするサービスインターフェース。
type LeaveServiceInterface interface {
	Submit(ctx context.Context, actorID model.ID, input leave.SubmitInput) (*model.LeaveRequest, error)
	Approve(ctx context.Context, actorID model.ID, requestID, note string) (*model.LeaveRequest, error)
	Reject(ctx context.Context, actorID model.ID, requestID, reason, note string) (*model.LeaveRequest, error)
	ListMine(ctx context.Context, actorID model.ID, statusFilter string, limit int) ([]*model.LeaveRequest, error)
	ListPending(ctx context.Context, actorID model.ID) ([]*leave.Detail, error)
	GetDetail(ctx context.Context, actorID model.ID, requestID string) (*leave.Detail, error)
}

// LeaveHandler は請假申請関連のHTTPハンドラー。
type LeaveHandler struct {
	service LeaveServiceInterface
}

// NewLeaveHandler はLeaveHandlerを生成する。
func NewLeaveHandler(service LeaveServiceInterface) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// submitLeaveRequest は請假申請の提出リクエストのボディ。
type submitLeaveRequest struct {
	LeaveType        string `json:"leave_type"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Reason           string `json:"reason"`
	EmergencyContact string `json:"emergency_contact"`
	AttachmentURL    string `json:"attachment_url"`
}

// reviewRequest は承認・却下リクエストのボディ。
type reviewRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

// leaveTypeResponse は請假種別のAPIレスポンス。
type leaveTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Submit は請假申請を作成する。
// POST /api/leaves
func (h *LeaveHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req submitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	created, err := h.service.Submit(r.Context(), actorID, leave.SubmitInput{
		LeaveType:        req.LeaveType,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Reason:           req.Reason,
		EmergencyContact: req.EmergencyContact,
		AttachmentURL:    req.AttachmentURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"leave_request": toLeaveResponse(created),
	})
}

// ListTypes は選択可能な請假種別の一覧を返す。
// GET /api/leaves/types
func (h *LeaveHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := model.LeaveTypes()
	resp := make([]leaveTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, leaveTypeResponse{
			ID:          string(t.ID),
			Name:        t.Name,
			Description: t.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leave_types": resp,
	})
}

// ListMine は実行者自身の申請一覧を返す。
// GET /api/leaves?status=pending&limit=20
func (h *LeaveHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	statusFilter := r.URL.Query().Get("status")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     "INVALID_LIMIT",
				Message:  "limitパラメータが不正です。",
				Category: "validation",
				Action:   "limitには0以上の整数を指定してください。",
			})
			return
		}
		limit = parsed
	}

	reqs, err := h.service.ListMine(r.Context(), actorID, statusFilter, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]leaveResponse, 0, len(reqs))
	for _, req := range reqs {
		resp = append(resp, toLeaveResponse(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leave_requests": resp,
	})
}

// ListPending は審査待ちの申請全件を返す。審査者役割のみ。
// GET /api/leaves/pending
func (h *LeaveHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	details, err := h.service.ListPending(r.Context(), actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]leaveResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, toLeaveDetailResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leave_requests": resp,
	})
}

// Detail は申請1件の詳細を返す。
// GET /api/leaves/{id}
func (h *LeaveHandler) Detail(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	requestID := chi.URLParam(r, "id")
	detail, err := h.service.GetDetail(r.Context(), actorID, requestID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leave_request": toLeaveDetailResponse(detail),
	})
}

// Approve は審査待ちの申請を承認する。審査者役割のみ。
// POST /api/leaves/{id}/approve
func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	reviewed, err := h.service.Approve(r.Context(), actorID, requestID, req.Note)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leave_request": toLeaveResponse(reviewed),
	})
}

// Reject は審査待ちの申請を却下する。審査者役割のみ。理由は必須。
// POST /api/leaves/{id}/reject
func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	req, ok := decodeReviewRequest(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	reviewed, err := h.service.Reject(r.Context(), actorID, requestID, req.Reason, req.Note)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leave_request": toLeaveResponse(reviewed),
	})
}

// decodeReviewRequest は承認・却下のボディを解析する。
// ボディなしの承認も許容するためEOFはゼロ値として扱う。
func decodeReviewRequest(w http.ResponseWriter, r *http.Request) (reviewRequest, bool) {
	var req reviewRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return req, false
	}
	return req, true
}

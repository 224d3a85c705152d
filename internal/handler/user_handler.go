package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/leavedesk/internal/middleware"
	"github.com/hitoshi/leavedesk/internal/model"
	"github.com/hitoshi/leavedesk/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID model.ID) (*model.User, error)
	UpdateProfile(ctx context.Context, actorID, targetID model.ID, update user.ProfileUpdate) (*model.User, error)
}

// UserHandler はユーザープロフィール関連のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateProfileRequest struct {
	Name      *string `json:"name"`
	StudentID *string `json:"student_id"`
}

// GetProfile は実行者自身のプロフィールを返す。
// GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.GetProfile(r.Context(), actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserResponse(profile),
	})
}

// UpdateProfile は実行者自身のプロフィールを更新する。
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), actorID, actorID, user.ProfileUpdate{
		Name:      req.Name,
		StudentID: req.StudentID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserResponse(updated),
	})
}

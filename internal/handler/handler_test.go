package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/hitoshi/leavedesk/internal/middleware"
	"github.com/hitoshi/leavedesk/internal/model"
)

// withUserID は認証済みユーザーIDをリクエストコンテキストに注入する。
// セッションミドルウェアを経由しないハンドラー単体テスト用。
func withUserID(r *http.Request, userID model.ID) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

// decodeBody はレスポンスボディをJSONとして解析する。
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("failed to decode response body: %v\nraw: %s", err, body)
	}
	return decoded
}

// assertErrorCode はエラーレスポンスのcodeフィールドを検証する。
func assertErrorCode(t *testing.T, body []byte, wantCode string) {
	t.Helper()
	decoded := decodeBody(t, body)
	if decoded["code"] != wantCode {
		t.Errorf("error code = %v, want %q", decoded["code"], wantCode)
	}
}

func newTestUser(role model.Role) *model.User {
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	return &model.User{
		ID:        model.NewID(),
		Email:     "alice@example.com",
		Role:      role,
		Name:      "Alice",
		StudentID: "S-1001",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestLeave(userID model.ID) *model.LeaveRequest {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	return &model.LeaveRequest{
		ID:        model.NewID(),
		UserID:    userID,
		Type:      model.LeaveTypeSick,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		Reason:    "発熱のため",
		Status:    model.LeaveStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

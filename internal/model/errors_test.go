package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	apiErr := NewForbiddenError()
	if apiErr.Error() == "" {
		t.Error("Error() should return non-empty string")
	}
}

func TestAPIError_ErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service layer: %w", NewLeaveNotFoundError())

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should unwrap APIError")
	}
	if apiErr.Code != ErrCodeLeaveNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeLeaveNotFound)
	}
}

func TestErrorConstructors_SetExpectedCodes(t *testing.T) {
	tests := []struct {
		err      *APIError
		wantCode string
	}{
		{NewInvalidEmailError(), ErrCodeInvalidEmail},
		{NewWeakPasswordError(), ErrCodeWeakPassword},
		{NewInvalidRoleError("x"), ErrCodeInvalidRole},
		{NewEmailTakenError(), ErrCodeEmailTaken},
		{NewBadCredentialsError(), ErrCodeBadCredentials},
		{NewAccountInactiveError(), ErrCodeAccountInactive},
		{NewUnauthorizedError(), ErrCodeUnauthorized},
		{NewForbiddenError(), ErrCodeForbidden},
		{NewUserNotFoundError(), ErrCodeUserNotFound},
		{NewLeaveNotFoundError(), ErrCodeLeaveNotFound},
		{NewAlreadyReviewedError(), ErrCodeAlreadyReviewed},
		{NewMissingReasonError(), ErrCodeMissingReason},
		{NewMissingFieldError("reason"), ErrCodeMissingField},
		{NewInvalidCategoryError("x"), ErrCodeInvalidCategory},
		{NewInvalidDateError("bad format"), ErrCodeInvalidDate},
		{NewPastStartDateError(), ErrCodePastStartDate},
		{NewEndBeforeStartError(), ErrCodeEndBeforeStart},
		{NewInvalidStatusError("x"), ErrCodeInvalidStatus},
		{NewCorruptRecordError("bad enum"), ErrCodeCorruptRecord},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.wantCode {
			t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
		}
		if tt.err.Message == "" {
			t.Errorf("%s: Message should not be empty", tt.wantCode)
		}
		if tt.err.Category == "" {
			t.Errorf("%s: Category should not be empty", tt.wantCode)
		}
	}
}

func TestBadCredentialsError_DoesNotRevealWhichFieldFailed(t *testing.T) {
	// 存在しないメールアドレスと誤ったパスワードで同一のエラーを
	// 返すため、メッセージに原因の区別を含めてはならない。
	err := NewBadCredentialsError()
	if err.Message == "" {
		t.Fatal("message should not be empty")
	}
}

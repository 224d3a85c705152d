package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/leavedesk/internal/model"
)

// assertAPIErrorCode はエラーが指定コードのAPIErrorであることを検証する。
func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, wantCode)
	}
}

func TestParseDate_AcceptsDateOnly(t *testing.T) {
	d, err := ParseDate("2026-09-01")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.September || d.Day() != 1 {
		t.Errorf("parsed = %v, want 2026-09-01", d)
	}
}

func TestParseDate_AcceptsRFC3339AndTruncates(t *testing.T) {
	d, err := ParseDate("2026-09-01T15:04:05+09:00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("time part should be truncated, got %v", d)
	}
	if d.Day() != 1 {
		t.Errorf("day = %d, want 1", d.Day())
	}
}

func TestParseDate_RejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2026/09/01", "01-09-2026"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) should fail", input)
		}
	}
}

func TestDateRange(t *testing.T) {
	today := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    string
		end      string
		wantCode string // 空文字列は成功を期待
	}{
		{"今日から明日まで", "2026-08-29", "2026-08-30", ""},
		{"開始日と終了日が同日", "2026-09-01", "2026-09-01", ""},
		{"未来の期間", "2026-09-10", "2026-09-15", ""},
		{"昨日開始は拒否", "2026-08-28", "2026-08-30", model.ErrCodePastStartDate},
		{"終了日が開始日より前", "2026-09-02", "2026-09-01", model.ErrCodeEndBeforeStart},
		{"開始日が不正な形式", "not-a-date", "2026-09-01", model.ErrCodeInvalidDate},
		{"終了日が不正な形式", "2026-09-01", "not-a-date", model.ErrCodeInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := DateRange(tt.start, tt.end, today)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if end.Before(start) {
					t.Errorf("end %v should not be before start %v", end, start)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			assertAPIErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestDateRange_ReferenceTimeOfDayIsIgnored(t *testing.T) {
	// 基準時刻が深夜23時でも、当日開始の申請は受理される
	lateToday := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	if _, _, err := DateRange("2026-08-29", "2026-08-29", lateToday); err != nil {
		t.Errorf("same-day range should be accepted regardless of time of day, got %v", err)
	}
}

func TestCategory(t *testing.T) {
	for _, valid := range []string{"sick", "personal", "family", "funeral", "maternity", "emergency"} {
		lt, err := Category(valid)
		if err != nil {
			t.Errorf("Category(%q) returned error: %v", valid, err)
		}
		if string(lt) != valid {
			t.Errorf("Category(%q) = %q", valid, lt)
		}
	}

	_, err := Category("vacation")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidCategory)

	_, err = Category("")
	assertAPIErrorCode(t, err, model.ErrCodeMissingField)

	_, err = Category("   ")
	assertAPIErrorCode(t, err, model.ErrCodeMissingField)
}

func TestRequired(t *testing.T) {
	if err := Required("reason", "体調不良のため"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	assertAPIErrorCode(t, Required("reason", ""), model.ErrCodeMissingField)
	// 空白のみの値も欠落として扱う
	assertAPIErrorCode(t, Required("reason", "   \t"), model.ErrCodeMissingField)
}

func TestStatusFilter(t *testing.T) {
	// 空文字列はフィルタなし
	s, err := StatusFilter("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s != "" {
		t.Errorf("status = %q, want empty", s)
	}

	s, err = StatusFilter("approved")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s != model.LeaveStatusApproved {
		t.Errorf("status = %q, want approved", s)
	}

	_, err = StatusFilter("cancelled")
	assertAPIErrorCode(t, err, model.ErrCodeInvalidStatus)
}

// Package validation は請假申請の入力検証ルールを提供する。
//
// すべての検証は副作用のない純粋関数として実装する。
// 「本日」は引数で注入し、グローバルな時計には依存しない。
package validation

import (
	"strings"
	"time"

	"github.com/hitoshi/leavedesk/internal/model"
)

// dateLayout は日付入力の標準形式。
const dateLayout = "2006-01-02"

// ParseDate は入力文字列をカレンダー日付として解析する。
// YYYY-MM-DD 形式に加え、フロントエンドが送るRFC3339形式も受け付け、
// 日付部分のみに切り詰める。
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return truncateToDate(t), nil
}

// DateRange は請假期間の検証を行う。
//   - どちらかが日付として解析できない場合は InvalidDate
//   - 開始日が referenceToday より前の場合は PastStartDate
//   - 終了日が開始日より前の場合は EndBeforeStart
//
// 開始日と終了日が同じ日である申請は許可される。
// 検証を通過した場合は解析済みの開始日・終了日を返す。
func DateRange(start, end string, referenceToday time.Time) (time.Time, time.Time, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidDateError("start_date")
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewInvalidDateError("end_date")
	}

	today := truncateToDate(referenceToday)
	if startDate.Before(today) {
		return time.Time{}, time.Time{}, model.NewPastStartDateError()
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, model.NewEndBeforeStartError()
	}

	return startDate, endDate, nil
}

// Category は請假種別が閉じた集合に含まれるかを検証する。
func Category(category string) (model.LeaveType, error) {
	if strings.TrimSpace(category) == "" {
		return "", model.NewMissingFieldError("leave_type")
	}
	t := model.LeaveType(category)
	if !t.Valid() {
		return "", model.NewInvalidCategoryError(category)
	}
	return t, nil
}

// Required は必須フィールドが非空であることを検証する。
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return model.NewMissingFieldError(field)
	}
	return nil
}

// StatusFilter は状態フィルタの検証を行う。空文字列はフィルタなしを表す。
func StatusFilter(status string) (model.LeaveStatus, error) {
	if status == "" {
		return "", nil
	}
	s := model.LeaveStatus(status)
	if !s.Valid() {
		return "", model.NewInvalidStatusError(status)
	}
	return s, nil
}

// truncateToDate は時刻を切り捨てて日付精度に揃える。
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

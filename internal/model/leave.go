// Package model はドメインモデルを定義する。
package model

import "time"

// LeaveStatus は請假申請の状態を表す。
// 遷移は pending→approved と pending→rejected のみ。
// approved / rejected は終端状態で、以後の遷移は許可されない。
type LeaveStatus string

const (
	// LeaveStatusPending は審査待ち（初期状態）。
	LeaveStatusPending LeaveStatus = "pending"
	// LeaveStatusApproved は承認済み（終端状態）。
	LeaveStatusApproved LeaveStatus = "approved"
	// LeaveStatusRejected は却下済み（終端状態）。
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Valid はLeaveStatusが定義済みの値かどうかを返す。
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

// IsTerminal は終端状態かどうかを返す。
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveType は請假の種別を表す。6種の閉じた集合。
type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeFamily    LeaveType = "family"
	LeaveTypeFuneral   LeaveType = "funeral"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypeEmergency LeaveType = "emergency"
)

// Valid はLeaveTypeが定義済みの値かどうかを返す。
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypePersonal, LeaveTypeFamily,
		LeaveTypeFuneral, LeaveTypeMaternity, LeaveTypeEmergency:
		return true
	}
	return false
}

// LeaveTypeInfo は種別一覧APIで返す表示用情報。
type LeaveTypeInfo struct {
	ID          LeaveType
	Name        string
	Description string
}

// LeaveTypes は全種別の一覧を定義順で返す。
func LeaveTypes() []LeaveTypeInfo {
	return []LeaveTypeInfo{
		{ID: LeaveTypeSick, Name: "病欠", Description: "病気のため休む場合"},
		{ID: LeaveTypePersonal, Name: "私用", Description: "私的な用事のため休む場合"},
		{ID: LeaveTypeFamily, Name: "家庭の事情", Description: "家庭の事情のため休む場合"},
		{ID: LeaveTypeFuneral, Name: "忌引", Description: "親族の不幸のため休む場合"},
		{ID: LeaveTypeMaternity, Name: "産休", Description: "出産のため休む場合"},
		{ID: LeaveTypeEmergency, Name: "緊急", Description: "緊急の事態のため休む場合"},
	}
}

// LeaveRequest は請假申請を表す。
// 所有者（UserID）が提出し、審査時のみライフサイクルコントローラが
// 変更する。削除操作は存在しない。
type LeaveRequest struct {
	ID        ID
	UserID    ID // 所有者。作成後は変更されない。
	Type      LeaveType
	StartDate time.Time // 日付精度。StartDate <= EndDate が常に成り立つ。
	EndDate   time.Time
	Reason    string
	Status    LeaveStatus

	EmergencyContact string
	ReviewerNote     string
	AttachmentURL    string // 添付への参照URL。検証も取得もしない。

	// ReviewedByとReviewedAtはpendingから抜ける遷移で同時に
	// ちょうど1回だけ設定される。
	ReviewedBy     *ID
	ReviewedAt     *time.Time
	RejectedReason string // 却下時のみ必須かつ非空。

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。作成後の変更操作は存在しない（イミュータブル）。
type Role string

const (
	// RoleStudent は生徒。自分の請假申請のみ操作できる。
	RoleStudent Role = "student"
	// RoleTeacher は教師。申請の審査（承認・却下）ができる。
	RoleTeacher Role = "teacher"
	// RoleAdmin は管理者。教師と同じ審査権限を持つ。
	RoleAdmin Role = "admin"
)

// Valid はRoleが定義済みの値かどうかを返す。
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// IsReviewer は申請を審査できる役割かどうかを返す。
func (r Role) IsReviewer() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// User はサービス利用ユーザーを表す。
// PasswordHashにはソルト付きの一方向ハッシュのみを保持し、
// 平文パスワードは保持も出力もしない。
type User struct {
	ID           ID
	Email        string // 小文字に正規化して保存する。一意。
	PasswordHash string
	Role         Role
	Name         string
	StudentID    string // 学籍番号。生徒以外は空でよい。
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全な乱数から生成される不透明トークンで、
// 保持する唯一のクレームはUserIDである。
type Session struct {
	ID        string
	UserID    ID
	ExpiresAt time.Time
	CreatedAt time.Time
}

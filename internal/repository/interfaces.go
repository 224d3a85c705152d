// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/leavedesk/internal/model"
)

// ErrEmailTaken はメールアドレスの一意制約違反を表す。
// サービス層でConflict系のドメインエラーへ変換する。
var ErrEmailTaken = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。メールアドレスが既に登録されている
	// 場合はErrEmailTakenを返す。一意性はストアの制約で保証される。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id model.ID) (*model.User, error)

	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile は表示名と学籍番号を更新し、更新後のレコードを返す。
	// 対象が存在しない場合はnilを返す。
	UpdateProfile(ctx context.Context, id model.ID, name, studentID string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// LeaveRepository は請假申請データの永続化インターフェース。
type LeaveRepository interface {
	// Create は請假申請を作成する。
	Create(ctx context.Context, req *model.LeaveRequest) error

	// FindByID は指定IDの申請を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id model.ID) (*model.LeaveRequest, error)

	// ListByUserID は指定ユーザーの申請一覧を作成日時の新しい順で返す。
	// statusが非空の場合はその状態のみ、limitが正の場合は件数を制限する。
	ListByUserID(ctx context.Context, userID model.ID, status model.LeaveStatus, limit int) ([]*model.LeaveRequest, error)

	// ListPending は審査待ちの申請全件を作成日時の古い順で返す。
	// 審査者が提出順のキューとして扱えるようにするため昇順とする。
	ListPending(ctx context.Context) ([]*model.LeaveRequest, error)

	// MarkReviewed はpending状態の申請を終端状態へ遷移させる。
	// 読み取り・検査・書き込みを1回の条件付きUPDATE
	// （WHERE status = 'pending'）として実行し、同一申請への並行審査を
	// 直列化する。条件を満たす行がなかった場合はfalseを返し、
	// 呼び出し側はAlreadyReviewedとして扱う。
	MarkReviewed(ctx context.Context, review *Review) (bool, error)
}

// Review はMarkReviewedで適用する審査結果。
// ReviewerIDとReviewedAtは遷移と同時に、ちょうど1回だけ設定される。
type Review struct {
	RequestID      model.ID
	Status         model.LeaveStatus // approved または rejected
	ReviewerID     model.ID
	ReviewedAt     time.Time
	Note           string
	RejectedReason string // rejectedの場合のみ非空
}

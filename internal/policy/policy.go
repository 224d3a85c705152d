// Package policy は役割と所有権に基づく認可判定を提供する。
//
// 判定はすべてI/Oを伴わない純粋関数で、ルール表は次の通り。
//
//	操作                      許可条件
//	----------------------------------------------------------------
//	請假申請の提出            認証済みユーザー本人（所有者 = 実行者）
//	自分の申請の閲覧          実行者 = 申請の所有者
//	任意の申請の閲覧          実行者の役割が teacher または admin
//	審査待ち一覧の閲覧        実行者の役割が teacher または admin
//	承認・却下                実行者の役割が teacher または admin
//	プロフィールの更新        実行者 = 対象ユーザー
//
// 承認・却下の「状態がpendingであること」という前提条件は
// ここでは判定しない。状態機械の責務としてライフサイクル
// コントローラが判定し、ForbiddenではなくAlreadyReviewedを返す。
package policy

import "github.com/hitoshi/leavedesk/internal/model"

// Action は認可判定の対象となる操作を表す。
type Action string

const (
	// ActionSubmitLeave は請假申請の提出。
	ActionSubmitLeave Action = "submit_leave"
	// ActionViewLeave は請假申請1件の閲覧。
	ActionViewLeave Action = "view_leave"
	// ActionListPending は審査待ち一覧の閲覧。
	ActionListPending Action = "list_pending"
	// ActionReviewLeave は請假申請の承認・却下。
	ActionReviewLeave Action = "review_leave"
	// ActionUpdateProfile はプロフィールの更新。
	ActionUpdateProfile Action = "update_profile"
)

// Target は認可判定の対象リソースを表す。
// 対象を持たない操作（一覧など）ではゼロ値を渡す。
type Target struct {
	// OwnerID はリソースの所有者。請假申請ならその申請者、
	// プロフィールなら対象ユーザー自身。
	OwnerID model.ID
}

// CanPerform は実行者が対象に操作を行えるかを判定する。
// 実行者が未認証（nil）または無効化済みの場合は常にfalse。
func CanPerform(actor *model.User, action Action, target Target) bool {
	if actor == nil || !actor.IsActive {
		return false
	}

	switch action {
	case ActionSubmitLeave:
		// 申請は常に本人名義で作成される
		return target.OwnerID == actor.ID
	case ActionViewLeave:
		return target.OwnerID == actor.ID || actor.Role.IsReviewer()
	case ActionListPending, ActionReviewLeave:
		return actor.Role.IsReviewer()
	case ActionUpdateProfile:
		return target.OwnerID == actor.ID
	}
	return false
}

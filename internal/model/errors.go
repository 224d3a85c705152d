// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// ドメイン層はこの型のタグ付きエラーを返し、HTTPステータスへの
// 変換はハンドラ境界の1箇所でのみ行う。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, leave, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidEmail    = "INVALID_EMAIL"
	ErrCodeWeakPassword    = "WEAK_PASSWORD"
	ErrCodeInvalidRole     = "INVALID_ROLE"
	ErrCodeEmailTaken      = "EMAIL_TAKEN"
	ErrCodeBadCredentials  = "BAD_CREDENTIALS"
	ErrCodeAccountInactive = "ACCOUNT_INACTIVE"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeLeaveNotFound   = "LEAVE_NOT_FOUND"
	ErrCodeAlreadyReviewed = "ALREADY_REVIEWED"
	ErrCodeMissingReason   = "MISSING_REASON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeInvalidDate     = "INVALID_DATE"
	ErrCodePastStartDate   = "PAST_START_DATE"
	ErrCodeEndBeforeStart  = "END_BEFORE_START"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
	ErrCodeCorruptRecord   = "CORRUPT_RECORD"
)

// NewInvalidEmailError は不正なメールアドレス形式のエラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスの形式が正しくありません。",
		Category: "validation",
		Action:   "正しい形式のメールアドレスを入力してください。",
	}
}

// NewWeakPasswordError はパスワード強度不足のエラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードは6文字以上で設定してください。",
		Category: "validation",
		Action:   "6文字以上のパスワードを入力してください。",
	}
}

// NewInvalidRoleError は未定義の役割が指定された場合のエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("未定義の役割です: %s", role),
		Category: "validation",
		Action:   "役割には student、teacher、admin のいずれかを指定してください。",
	}
}

// NewEmailTakenError はメールアドレス重複のエラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewBadCredentialsError は認証失敗のエラーを生成する。
// どちらの要素が誤っていたかを開示しないよう、メッセージは一般化する。
func NewBadCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeBadCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewAccountInactiveError は無効化されたアカウントのエラーを生成する。
func NewAccountInactiveError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountInactive,
		Message:  "このアカウントは無効化されています。",
		Category: "auth",
		Action:   "管理者に問い合わせてください。",
	}
}

// NewUnauthorizedError は未認証リクエストのエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足のエラーを生成する。
// 認証済みだが役割・所有権が要件を満たさない場合に使用する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "権限のあるアカウントでログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewLeaveNotFoundError は請假申請が見つからない場合のエラーを生成する。
// 不正な形式のIDも同じエラーとして扱う。
func NewLeaveNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeLeaveNotFound,
		Message:  "指定された請假申請が見つかりません。",
		Category: "leave",
		Action:   "申請IDを確認してください。",
	}
}

// NewAlreadyReviewedError は審査済み申請への再審査エラーを生成する。
func NewAlreadyReviewedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyReviewed,
		Message:  "この請假申請は既に審査されています。",
		Category: "leave",
		Action:   "申請の最新の状態を確認してください。",
	}
}

// NewMissingReasonError は却下理由が空の場合のエラーを生成する。
func NewMissingReasonError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingReason,
		Message:  "却下には理由の入力が必要です。",
		Category: "validation",
		Action:   "却下理由を入力してください。",
	}
}

// NewMissingFieldError は必須フィールド欠落のエラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが入力されていません: %s", field),
		Category: "validation",
		Action:   fmt.Sprintf("%s を入力してください。", field),
	}
}

// NewInvalidCategoryError は未定義の請假種別のエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("未定義の請假種別です: %s", category),
		Category: "validation",
		Action:   "種別一覧APIで定義済みの種別を確認してください。",
	}
}

// NewInvalidDateError は日付として解析できない入力のエラーを生成する。
func NewInvalidDateError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付の形式が正しくありません: %s", reason),
		Category: "validation",
		Action:   "日付は YYYY-MM-DD 形式で入力してください。",
	}
}

// NewPastStartDateError は過去日付の申請エラーを生成する。
func NewPastStartDateError() *APIError {
	return &APIError{
		Code:     ErrCodePastStartDate,
		Message:  "開始日を本日より前に設定することはできません。",
		Category: "validation",
		Action:   "開始日には本日以降の日付を指定してください。",
	}
}

// NewEndBeforeStartError は終了日が開始日より前のエラーを生成する。
func NewEndBeforeStartError() *APIError {
	return &APIError{
		Code:     ErrCodeEndBeforeStart,
		Message:  "終了日を開始日より前に設定することはできません。",
		Category: "validation",
		Action:   "終了日には開始日以降の日付を指定してください。",
	}
}

// NewInvalidStatusError は未定義の状態フィルタのエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("未定義の状態です: %s", status),
		Category: "validation",
		Action:   "状態には pending、approved、rejected のいずれかを指定してください。",
	}
}

// NewCorruptRecordError は保存レコードの必須フィールドが不正な場合の
// エラーを生成する。黙ってデフォルト値で補完せず、即座に失敗する。
func NewCorruptRecordError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeCorruptRecord,
		Message:  fmt.Sprintf("保存データが破損しています: %s", detail),
		Category: "system",
		Action:   "管理者に問い合わせてください。",
	}
}

// Package validation は請假申請の入力検証ルールを提供する。
package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は自由記述フィールドのサニタイズ機能のインターフェース。
// 申請理由・審査メモ・緊急連絡先の保存前に使用される。
type TextSanitizer interface {
	// Sanitize は入力からHTMLタグをすべて除去したプレーンテキストを返す。
	// 前後の空白も取り除く。同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフに処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// 自由記述はプレーンテキストとして扱うため、タグを一切許可しない
// StrictPolicyを使用する。scriptタグやon*イベント属性を含む入力も
// テキスト部分のみが残る。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグをすべて除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// Package model はドメインモデルを定義する。
package model

import "github.com/google/uuid"

// ID はドメイン境界で使用する不透明な識別子。
// トランスポート層・ストレージ層の表現をここで一本化する。
type ID string

// NewID は新しいIDを生成する。
func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID は外部から受け取った文字列をIDとして解析する。
// 不正な形式の場合はfalseを返す。呼び出し側は存在しないリソースと
// 同じ扱い（NotFound）にすること。形式情報を外部に漏らさないため、
// 不正形式を別のエラーとして区別しない。
func ParseID(s string) (ID, bool) {
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return ID(s), true
}

// String はIDの文字列表現を返す。
func (id ID) String() string {
	return string(id)
}

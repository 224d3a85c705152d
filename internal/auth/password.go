package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードの一方向ハッシュ化と照合のインターフェース。
// サービス層はハッシュ方式の詳細に依存しない。
type PasswordHasher interface {
	// Hash は平文パスワードのソルト付きハッシュを返す。
	Hash(password string) (string, error)
	// Compare は平文パスワードとハッシュを照合する。一致しない場合はfalse。
	Compare(hash, password string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが範囲外の場合はbcrypt.DefaultCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードのソルト付きハッシュを返す。
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Compare は平文パスワードとハッシュを照合する。
func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)

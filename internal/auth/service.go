// Package auth はユーザー登録、認証、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hitoshi/leavedesk/internal/model"
	"github.com/hitoshi/leavedesk/internal/repository"
)

// emailPattern はメールアドレス形式の検証パターン。
// 厳密なRFC準拠ではなく、明らかな入力ミスを弾くことが目的。
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// minPasswordLength はパスワードの最低文字数。
const minPasswordLength = 6

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionTTL int // セッション有効期間（秒）
}

// LoginMetrics はログイン失敗の記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type LoginMetrics interface {
	RecordLoginFailure()
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      PasswordHasher
	metrics     LoginMetrics
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher PasswordHasher,
	metrics LoginMetrics,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		metrics:     metrics,
		config:      config,
		now:         time.Now,
	}
}

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Email     string
	Password  string
	Role      string // 省略時はstudent
	Name      string
	StudentID string
}

// Register は新規ユーザーを作成する。
// メールアドレスは小文字に正規化してから一意性を検査する。
// 平文パスワードは保存もログ出力もしない。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, model.NewMissingFieldError("email")
	}
	if !emailPattern.MatchString(email) {
		return nil, model.NewInvalidEmailError()
	}
	if len(input.Password) < minPasswordLength {
		return nil, model.NewWeakPasswordError()
	}

	role := model.RoleStudent
	if input.Role != "" {
		role = model.Role(input.Role)
		if !role.Valid() {
			return nil, model.NewInvalidRoleError(input.Role)
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           model.NewID(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(input.Name),
		StudentID:    strings.TrimSpace(input.StudentID),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Login は認証を行い、成功時にセッションを発行する。
// ユーザー不在とパスワード不一致は同じBadCredentialsとして返し、
// どちらの要素が誤っていたかを開示しない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		s.recordLoginFailure()
		return nil, nil, model.NewBadCredentialsError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		s.recordLoginFailure()
		return nil, nil, model.NewBadCredentialsError()
	}
	if !user.IsActive {
		s.recordLoginFailure()
		return nil, nil, model.NewAccountInactiveError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID.String()),
	)

	return session, user, nil
}

// Logout はセッションを破棄する。
// 不透明トークンをサーバ側に保持しているため、即時失効が可能。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return model.NewUnauthorizedError()
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// GetCurrentUser はセッショントークンから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// NormalizeEmail はメールアドレスを比較・保存用に正規化する。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID model.ID) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionTTL) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// recordLoginFailure はメトリクスにログイン失敗を記録する。
func (s *Service) recordLoginFailure() {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Package user はユーザープロフィールのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/leavedesk/internal/model"
	"github.com/hitoshi/leavedesk/internal/policy"
	"github.com/hitoshi/leavedesk/internal/repository"
)

// Service はプロフィールの参照・更新のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// ProfileUpdate はプロフィール更新の入力。
// nilのフィールドは変更しない部分更新を行う。
// 更新できるのは表示名と学籍番号のみで、役割の変更操作は存在しない。
type ProfileUpdate struct {
	Name      *string
	StudentID *string
}

// GetProfile は指定ユーザーのプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, userID model.ID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile は実行者自身のプロフィールを更新し、更新後の
// レコードを返す。他人のプロフィールの更新はForbidden。
func (s *Service) UpdateProfile(ctx context.Context, actorID, targetID model.ID, update ProfileUpdate) (*model.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find actor: %w", err)
	}
	if actor == nil {
		return nil, model.NewUserNotFoundError()
	}

	if !policy.CanPerform(actor, policy.ActionUpdateProfile, policy.Target{OwnerID: targetID}) {
		return nil, model.NewForbiddenError()
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return nil, model.NewUserNotFoundError()
	}

	name := target.Name
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
	}
	studentID := target.StudentID
	if update.StudentID != nil {
		studentID = strings.TrimSpace(*update.StudentID)
	}

	updated, err := s.userRepo.UpdateProfile(ctx, targetID, name, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if updated == nil {
		return nil, model.NewUserNotFoundError()
	}

	slog.Info("profile updated",
		slog.String("user_id", targetID.String()),
	)

	return updated, nil
}

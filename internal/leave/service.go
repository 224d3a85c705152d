// Package leave は請假申請のライフサイクルを制御する。
//
// 状態機械は pending（初期）→ approved / rejected（終端）のみを許可する。
// 各操作は認可判定（policy）、入力検証（validation）、永続化
// （repository）の順に合成され、ドメインエラーはすべて
// model.APIErrorのタグ付き値として返す。
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/leavedesk/internal/model"
	"github.com/hitoshi/leavedesk/internal/policy"
	"github.com/hitoshi/leavedesk/internal/repository"
	"github.com/hitoshi/leavedesk/internal/validation"
)

// ReviewMetrics は申請の提出・審査の記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type ReviewMetrics interface {
	RecordLeaveSubmitted(leaveType string)
	RecordLeaveReviewed(outcome string)
}

// Service は請假申請のライフサイクルコントローラ。
type Service struct {
	leaveRepo repository.LeaveRepository
	userRepo  repository.UserRepository
	sanitizer validation.TextSanitizer
	metrics   ReviewMetrics

	// now は検証基準日（本日）の供給源。テストで差し替える。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	leaveRepo repository.LeaveRepository,
	userRepo repository.UserRepository,
	sanitizer validation.TextSanitizer,
	metrics ReviewMetrics,
) *Service {
	return &Service{
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
		now:       time.Now,
	}
}

// SubmitInput は請假申請の提出入力。
type SubmitInput struct {
	LeaveType        string
	StartDate        string // YYYY-MM-DD
	EndDate          string // YYYY-MM-DD
	Reason           string
	EmergencyContact string
	AttachmentURL    string
}

// Applicant は審査者向けに付与する申請者のプロフィールスナップショット。
// 読み取り時の結合であり、保存はしない。
type Applicant struct {
	Name      string
	Email     string
	StudentID string
}

// Detail は請假申請と（審査者の場合のみ）申請者情報の組。
type Detail struct {
	Request   *model.LeaveRequest
	Applicant *Applicant // 実行者が審査者役割の場合のみ非nil
}

// Submit は請假申請を作成する。
// 入力検証を通過した場合のみ、status=pending・所有者=実行者の
// レコードを永続化して返す。
func (s *Service) Submit(ctx context.Context, actorID model.ID, input SubmitInput) (*model.LeaveRequest, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.ActionSubmitLeave, policy.Target{OwnerID: actor.ID}) {
		return nil, model.NewForbiddenError()
	}

	leaveType, err := validation.Category(input.LeaveType)
	if err != nil {
		return nil, err
	}
	if err := validation.Required("reason", input.Reason); err != nil {
		return nil, err
	}
	if err := validation.Required("start_date", input.StartDate); err != nil {
		return nil, err
	}
	if err := validation.Required("end_date", input.EndDate); err != nil {
		return nil, err
	}

	startDate, endDate, err := validation.DateRange(input.StartDate, input.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	now := s.now()
	req := &model.LeaveRequest{
		ID:               model.NewID(),
		UserID:           actor.ID,
		Type:             leaveType,
		StartDate:        startDate,
		EndDate:          endDate,
		Reason:           s.sanitizer.Sanitize(input.Reason),
		Status:           model.LeaveStatusPending,
		EmergencyContact: s.sanitizer.Sanitize(input.EmergencyContact),
		AttachmentURL:    input.AttachmentURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.leaveRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLeaveSubmitted(string(req.Type))
	}
	slog.Info("leave request submitted",
		slog.String("request_id", req.ID.String()),
		slog.String("user_id", actor.ID.String()),
		slog.String("leave_type", string(req.Type)),
	)

	return req, nil
}

// Approve は審査待ちの申請を承認する。
// 前提条件の検査順序: NotFound → Forbidden → AlreadyReviewed。
func (s *Service) Approve(ctx context.Context, actorID model.ID, requestID, note string) (*model.LeaveRequest, error) {
	return s.review(ctx, actorID, requestID, model.LeaveStatusApproved, "", note)
}

// Reject は審査待ちの申請を却下する。理由は必須かつ非空。
func (s *Service) Reject(ctx context.Context, actorID model.ID, requestID, reason, note string) (*model.LeaveRequest, error) {
	if s.sanitizer.Sanitize(reason) == "" {
		return nil, model.NewMissingReasonError()
	}
	return s.review(ctx, actorID, requestID, model.LeaveStatusRejected, reason, note)
}

// review は承認・却下に共通する遷移処理。
// 遷移自体はストアの条件付きUPDATEで実行されるため、並行する審査は
// ちょうど1件だけが成功し、敗者はAlreadyReviewedを受け取る。
func (s *Service) review(ctx context.Context, actorID model.ID, requestID string, status model.LeaveStatus, reason, note string) (*model.LeaveRequest, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	id, ok := model.ParseID(requestID)
	if !ok {
		// 不正な形式のIDは存在しないIDと区別しない
		return nil, model.NewLeaveNotFoundError()
	}

	req, err := s.leaveRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	if req == nil {
		return nil, model.NewLeaveNotFoundError()
	}

	if !policy.CanPerform(actor, policy.ActionReviewLeave, policy.Target{OwnerID: req.UserID}) {
		return nil, model.NewForbiddenError()
	}
	if req.Status.IsTerminal() {
		return nil, model.NewAlreadyReviewedError()
	}

	review := &repository.Review{
		RequestID:      id,
		Status:         status,
		ReviewerID:     actor.ID,
		ReviewedAt:     s.now(),
		Note:           s.sanitizer.Sanitize(note),
		RejectedReason: s.sanitizer.Sanitize(reason),
	}

	won, err := s.leaveRepo.MarkReviewed(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to mark leave request reviewed: %w", err)
	}
	if !won {
		// 並行する審査に敗れた
		return nil, model.NewAlreadyReviewedError()
	}

	req.Status = status
	req.ReviewedBy = &review.ReviewerID
	req.ReviewedAt = &review.ReviewedAt
	req.ReviewerNote = review.Note
	req.RejectedReason = review.RejectedReason
	req.UpdatedAt = review.ReviewedAt

	if s.metrics != nil {
		s.metrics.RecordLeaveReviewed(string(status))
	}
	slog.Info("leave request reviewed",
		slog.String("request_id", req.ID.String()),
		slog.String("reviewer_id", actor.ID.String()),
		slog.String("outcome", string(status)),
	)

	return req, nil
}

// ListMine は実行者自身の申請一覧を作成日時の新しい順で返す。
// statusFilterで状態を絞り込み、limitが正の場合は件数を制限する。
func (s *Service) ListMine(ctx context.Context, actorID model.ID, statusFilter string, limit int) ([]*model.LeaveRequest, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	status, err := validation.StatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	reqs, err := s.leaveRepo.ListByUserID(ctx, actor.ID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return reqs, nil
}

// ListPending は審査待ちの申請全件を提出順（古い順）で返す。
// 各申請には申請者のプロフィールスナップショットを付与する。
// 実行者が審査者役割でない場合はForbidden。
func (s *Service) ListPending(ctx context.Context, actorID model.ID) ([]*Detail, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanPerform(actor, policy.ActionListPending, policy.Target{}) {
		return nil, model.NewForbiddenError()
	}

	reqs, err := s.leaveRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}

	details := make([]*Detail, 0, len(reqs))
	for _, req := range reqs {
		details = append(details, &Detail{
			Request:   req,
			Applicant: s.lookupApplicant(ctx, req.UserID),
		})
	}
	return details, nil
}

// GetDetail は申請1件の詳細を返す。
// 閲覧できるのは所有者本人と審査者役割のみ。申請者情報は
// 実行者が審査者の場合のみ付与する。
func (s *Service) GetDetail(ctx context.Context, actorID model.ID, requestID string) (*Detail, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	id, ok := model.ParseID(requestID)
	if !ok {
		return nil, model.NewLeaveNotFoundError()
	}

	req, err := s.leaveRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	if req == nil {
		return nil, model.NewLeaveNotFoundError()
	}

	if !policy.CanPerform(actor, policy.ActionViewLeave, policy.Target{OwnerID: req.UserID}) {
		return nil, model.NewForbiddenError()
	}

	detail := &Detail{Request: req}
	if actor.Role.IsReviewer() {
		detail.Applicant = s.lookupApplicant(ctx, req.UserID)
	}
	return detail, nil
}

// requireActor は実行者のユーザーレコードを取得する。
// 存在しない場合はNotFound（セッションは有効だがユーザーが
// 削除されたケース）。
func (s *Service) requireActor(ctx context.Context, actorID model.ID) (*model.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find actor: %w", err)
	}
	if actor == nil {
		return nil, model.NewUserNotFoundError()
	}
	return actor, nil
}

// lookupApplicant は申請者の公開プロフィールを取得する。
// 取得に失敗しても一覧自体は返せるようにnilを返すに留める。
func (s *Service) lookupApplicant(ctx context.Context, userID model.ID) *Applicant {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to look up applicant",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if user == nil {
		return nil
	}
	return &Applicant{
		Name:      user.Name,
		Email:     user.Email,
		StudentID: user.StudentID,
	}
}

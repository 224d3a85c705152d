package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/leavedesk/internal/model"
)

// leaveColumns は請假申請の読み取りで使用するカラム列。
const leaveColumns = `id, user_id, leave_type, start_date, end_date, reason, status,
	emergency_contact, reviewer_note, attachment_url,
	reviewed_by, reviewed_at, rejected_reason, created_at, updated_at`

// PostgresLeaveRepo はPostgreSQLを使用した請假申請リポジトリ。
type PostgresLeaveRepo struct {
	db *sql.DB
}

// NewPostgresLeaveRepo はPostgresLeaveRepoを生成する。
func NewPostgresLeaveRepo(db *sql.DB) *PostgresLeaveRepo {
	return &PostgresLeaveRepo{db: db}
}

// Create は請假申請を作成する。
func (r *PostgresLeaveRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leave_requests
		 (id, user_id, leave_type, start_date, end_date, reason, status,
		  emergency_contact, reviewer_note, attachment_url, rejected_reason,
		  created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		req.ID.String(), req.UserID.String(), string(req.Type),
		req.StartDate, req.EndDate, req.Reason, string(req.Status),
		req.EmergencyContact, req.ReviewerNote, req.AttachmentURL,
		req.RejectedReason, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave request: %w", err)
	}
	return nil
}

// FindByID は指定IDの申請を取得する。見つからない場合はnilを返す。
func (r *PostgresLeaveRepo) FindByID(ctx context.Context, id model.ID) (*model.LeaveRequest, error) {
	req, err := scanLeave(r.db.QueryRowContext(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`,
		id.String(),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return req, err
}

// ListByUserID は指定ユーザーの申請一覧を作成日時の新しい順で返す。
func (r *PostgresLeaveRepo) ListByUserID(ctx context.Context, userID model.ID, status model.LeaveStatus, limit int) ([]*model.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE user_id = $1`
	args := []any{userID.String()}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaves(rows)
}

// ListPending は審査待ちの申請全件を作成日時の古い順で返す。
func (r *PostgresLeaveRepo) ListPending(ctx context.Context) ([]*model.LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leaveColumns+` FROM leave_requests
		 WHERE status = 'pending' ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaves(rows)
}

// MarkReviewed はpending状態の申請を終端状態へ遷移させる。
// WHERE status = 'pending' の条件付きUPDATEにより、同一申請への
// 並行審査はストア側で直列化される。2人の審査者が同時に実行しても
// 勝者は1人だけで、敗者は更新行数0（falseを返す）となる。
func (r *PostgresLeaveRepo) MarkReviewed(ctx context.Context, review *Review) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE leave_requests
		 SET status = $2, reviewed_by = $3, reviewed_at = $4,
		     reviewer_note = $5, rejected_reason = $6, updated_at = $4
		 WHERE id = $1 AND status = 'pending'`,
		review.RequestID.String(), string(review.Status),
		review.ReviewerID.String(), review.ReviewedAt,
		review.Note, review.RejectedReason,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark leave request reviewed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLeave は現在の行をLeaveRequestに読み取る。
// statusまたはleave_typeに未定義の値が保存されていた場合は
// デフォルト補完せずCorruptRecordとして即座に失敗する。
// 行がない場合はsql.ErrNoRowsをそのまま返す。
func scanLeave(row rowScanner) (*model.LeaveRequest, error) {
	req := &model.LeaveRequest{}
	var id, userID, leaveType, status string
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(&id, &userID, &leaveType, &req.StartDate, &req.EndDate,
		&req.Reason, &status, &req.EmergencyContact, &req.ReviewerNote,
		&req.AttachmentURL, &reviewedBy, &reviewedAt, &req.RejectedReason,
		&req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}

	req.ID = model.ID(id)
	req.UserID = model.ID(userID)
	req.Type = model.LeaveType(leaveType)
	req.Status = model.LeaveStatus(status)
	if !req.Status.Valid() {
		return nil, model.NewCorruptRecordError(fmt.Sprintf("leave_requests.status = %q", status))
	}
	if !req.Type.Valid() {
		return nil, model.NewCorruptRecordError(fmt.Sprintf("leave_requests.leave_type = %q", leaveType))
	}

	if reviewedBy.Valid {
		rid := model.ID(reviewedBy.String)
		req.ReviewedBy = &rid
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		req.ReviewedAt = &t
	}

	return req, nil
}

// collectLeaves は全行をLeaveRequestのスライスに読み取る。
func collectLeaves(rows *sql.Rows) ([]*model.LeaveRequest, error) {
	var reqs []*model.LeaveRequest
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return reqs, nil
}

// compile-time interface check
var _ LeaveRepository = (*PostgresLeaveRepo)(nil)

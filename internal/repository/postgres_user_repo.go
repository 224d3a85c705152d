package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/leavedesk/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成する。
// メールアドレスの一意性はusersテーブルの制約で保証し、
// 制約違反はErrEmailTakenとして返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, name, student_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID.String(), user.Email, user.PasswordHash, string(user.Role),
		user.Name, user.StudentID, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, name, student_id, is_active, created_at, updated_at
		 FROM users WHERE id = $1`,
		id.String(),
	))
}

// FindByEmail は正規化済みメールアドレスでユーザーを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, name, student_id, is_active, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	))
}

// UpdateProfile は表示名と学籍番号を更新し、更新後のレコードを返す。
// 対象が存在しない場合はnilを返す。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, id model.ID, name, studentID string) (*model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users SET name = $2, student_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, password_hash, role, name, student_id, is_active, created_at, updated_at`,
		id.String(), name, studentID,
	))
}

// scanUser は1行をUserに読み取る。行がない場合はnilを返す。
// roleに未定義の値が保存されていた場合はデフォルト補完せず
// CorruptRecordとして即座に失敗する。
func (r *PostgresUserRepo) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var id, role string
	err := row.Scan(&id, &user.Email, &user.PasswordHash, &role,
		&user.Name, &user.StudentID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.ID = model.ID(id)
	user.Role = model.Role(role)
	if !user.Role.Valid() {
		return nil, model.NewCorruptRecordError(fmt.Sprintf("users.role = %q", role))
	}

	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)

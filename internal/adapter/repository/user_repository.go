package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/user"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrUserDuplicateEmail = errors.New("usuário com mesmo email já existe para este tenant")
)

const userColumns = `
	id, tenant_id, branch_id, name, email, password, role, status,
	last_login_at, created_at, updated_at`

// UserRepository implementa a interface user.Repository
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *pgxpool.Pool) user.Repository {
	return &UserRepository{
		db: db,
	}
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	q := database.QuerierFrom(ctx, r.db)

	// branch_id vazio é persistido como NULL
	var branchID any
	if u.BranchID != "" {
		branchID = u.BranchID
	}

	_, err := q.Exec(ctx,
		`INSERT INTO users (
			id, tenant_id, branch_id, name, email, password, role, status,
			last_login_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`,
		u.ID, u.TenantID, branchID, u.Name, u.Email, u.Password, u.Role,
		u.Status, nullableTime(u.LastLoginAt), u.CreatedAt, u.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrUserDuplicateEmail
		}
		return fmt.Errorf("erro ao criar usuário: %w", err)
	}

	return nil
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail implementa user.Repository.FindByEmail
func (r *UserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*user.User, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND email = $2`,
		tenantID, email)
	return scanUser(row)
}

// FindByBranch implementa user.Repository.FindByBranch
func (r *UserRepository) FindByBranch(ctx context.Context, branchID string, limit, offset int) ([]*user.User, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+userColumns+` FROM users
		WHERE branch_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários da filial: %w", err)
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// List implementa user.Repository.List
func (r *UserRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*user.User, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+userColumns+` FROM users
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// Update implementa user.Repository.Update
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	q := database.QuerierFrom(ctx, r.db)

	var branchID any
	if u.BranchID != "" {
		branchID = u.BranchID
	}

	result, err := q.Exec(ctx,
		`UPDATE users SET
			branch_id = $1, name = $2, email = $3, role = $4, status = $5,
			updated_at = $6
		WHERE id = $7`,
		branchID, u.Name, u.Email, u.Role, u.Status, u.UpdatedAt, u.ID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrUserDuplicateEmail
		}
		return fmt.Errorf("erro ao atualizar usuário: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete implementa user.Repository.Delete
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao remover usuário: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateStatus implementa user.Repository.UpdateStatus
func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do usuário: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdatePassword implementa user.Repository.UpdatePassword
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2",
		hashedPassword, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar senha do usuário: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin implementa user.Repository.UpdateLastLogin
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1",
		id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar último login: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountByTenant implementa user.Repository.CountByTenant
func (r *UserRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE tenant_id = $1",
		tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar usuários: %w", err)
	}

	return count, nil
}

// CountByBranch implementa user.Repository.CountByBranch
func (r *UserRepository) CountByBranch(ctx context.Context, branchID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE branch_id = $1",
		branchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar usuários da filial: %w", err)
	}

	return count, nil
}

// Exists implementa user.Repository.Exists
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência do usuário: %w", err)
	}

	return exists, nil
}

// nullableTime converte um time zero em NULL
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// scanUser lê um usuário de uma linha de resultado
func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var branchID *string
	var lastLogin *time.Time

	err := row.Scan(
		&u.ID, &u.TenantID, &branchID, &u.Name, &u.Email, &u.Password,
		&u.Role, &u.Status, &lastLogin, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	if branchID != nil {
		u.BranchID = *branchID
	}
	if lastLogin != nil {
		u.LastLoginAt = *lastLogin
	}

	return &u, nil
}

// scanUserRows lê múltiplos usuários de um resultado
func scanUserRows(rows pgx.Rows) ([]*user.User, error) {
	users := make([]*user.User, 0)

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return users, nil
}

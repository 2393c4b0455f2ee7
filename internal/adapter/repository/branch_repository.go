package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/branch"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrBranchNotFound     = errors.New("filial não encontrada")
	ErrBranchDuplicateKey = errors.New("filial com mesmo código já existe para este tenant")
	ErrBranchMainExists   = errors.New("já existe uma filial principal para este tenant")
	ErrBranchMainDelete   = errors.New("não é possível excluir a filial principal")
	ErrBranchMainInactive = errors.New("não é possível desativar a filial principal")
)

const branchColumns = `
	id, tenant_id, name, code, type, document, street, number, complement,
	district, city, state, zip_code, country, phone, email, status, is_main,
	created_at, updated_at`

// BranchRepository implementa a interface branch.Repository
type BranchRepository struct {
	db *pgxpool.Pool
}

// NewBranchRepository cria uma nova instância de BranchRepository
func NewBranchRepository(db *pgxpool.Pool) branch.Repository {
	return &BranchRepository{
		db: db,
	}
}

// Create implementa branch.Repository.Create
func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	q := database.QuerierFrom(ctx, r.db)

	// Só pode haver uma filial principal por tenant
	if b.IsMain {
		var exists bool
		err := q.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM branches WHERE tenant_id = $1 AND is_main = true)",
			b.TenantID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("erro ao verificar filial principal: %w", err)
		}
		if exists {
			return ErrBranchMainExists
		}
	}

	_, err := q.Exec(ctx,
		`INSERT INTO branches (
			id, tenant_id, name, code, type, document, street, number,
			complement, district, city, state, zip_code, country, phone,
			email, status, is_main, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20
		)`,
		b.ID, b.TenantID, b.Name, b.Code, b.Type, b.Document,
		b.Address.Street, b.Address.Number, b.Address.Complement,
		b.Address.District, b.Address.City, b.Address.State,
		b.Address.ZipCode, b.Address.Country, b.Phone, b.Email, b.Status,
		b.IsMain, b.CreatedAt, b.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrBranchDuplicateKey
		}
		return fmt.Errorf("erro ao criar filial: %w", err)
	}

	return nil
}

// FindByID implementa branch.Repository.FindByID
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
	return scanBranch(row)
}

// FindByTenantAndID implementa branch.Repository.FindByTenantAndID
func (r *BranchRepository) FindByTenantAndID(ctx context.Context, tenantID, id string) (*branch.Branch, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	return scanBranch(row)
}

// FindMainBranch implementa branch.Repository.FindMainBranch
func (r *BranchRepository) FindMainBranch(ctx context.Context, tenantID string) (*branch.Branch, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE tenant_id = $1 AND is_main = true`,
		tenantID)
	return scanBranch(row)
}

// Update implementa branch.Repository.Update
func (r *BranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	q := database.QuerierFrom(ctx, r.db)

	if b.IsMain {
		var mainExists bool
		err := q.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM branches WHERE tenant_id = $1 AND is_main = true AND id <> $2)",
			b.TenantID, b.ID).Scan(&mainExists)
		if err != nil {
			return fmt.Errorf("erro ao verificar filial principal: %w", err)
		}
		if mainExists {
			return ErrBranchMainExists
		}
	}

	result, err := q.Exec(ctx,
		`UPDATE branches SET
			name = $1, code = $2, type = $3, document = $4, street = $5,
			number = $6, complement = $7, district = $8, city = $9,
			state = $10, zip_code = $11, country = $12, phone = $13,
			email = $14, status = $15, is_main = $16, updated_at = $17
		WHERE id = $18 AND tenant_id = $19`,
		b.Name, b.Code, b.Type, b.Document, b.Address.Street,
		b.Address.Number, b.Address.Complement, b.Address.District,
		b.Address.City, b.Address.State, b.Address.ZipCode,
		b.Address.Country, b.Phone, b.Email, b.Status, b.IsMain,
		b.UpdatedAt, b.ID, b.TenantID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrBranchDuplicateKey
		}
		return fmt.Errorf("erro ao atualizar filial: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBranchNotFound
	}

	return nil
}

// Delete implementa branch.Repository.Delete
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)

	var isMain bool
	err := q.QueryRow(ctx,
		"SELECT is_main FROM branches WHERE id = $1", id).Scan(&isMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("erro ao buscar filial: %w", err)
	}

	if isMain {
		return ErrBranchMainDelete
	}

	result, err := q.Exec(ctx, "DELETE FROM branches WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao excluir filial: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBranchNotFound
	}

	return nil
}

// ListByTenant implementa branch.Repository.ListByTenant
func (r *BranchRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*branch.Branch, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+branchColumns+` FROM branches
		WHERE tenant_id = $1
		ORDER BY is_main DESC, name ASC
		LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar filiais: %w", err)
	}
	defer rows.Close()

	branches := make([]*branch.Branch, 0)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return branches, nil
}

// CountByTenant implementa branch.Repository.CountByTenant
func (r *BranchRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM branches WHERE tenant_id = $1",
		tenantID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar filiais: %w", err)
	}

	return count, nil
}

// UpdateStatus implementa branch.Repository.UpdateStatus
func (r *BranchRepository) UpdateStatus(ctx context.Context, id string, status branch.Status) error {
	q := database.QuerierFrom(ctx, r.db)

	var isMain bool
	err := q.QueryRow(ctx,
		"SELECT is_main FROM branches WHERE id = $1", id).Scan(&isMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("erro ao buscar filial: %w", err)
	}

	// A filial principal permanece sempre ativa
	if isMain && status != branch.StatusActive {
		return ErrBranchMainInactive
	}

	result, err := q.Exec(ctx,
		"UPDATE branches SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status da filial: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBranchNotFound
	}

	return nil
}

// Exists implementa branch.Repository.Exists
func (r *BranchRepository) Exists(ctx context.Context, id string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM branches WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência da filial: %w", err)
	}

	return exists, nil
}

// scanBranch lê uma filial de uma linha de resultado
func scanBranch(row pgx.Row) (*branch.Branch, error) {
	var b branch.Branch

	err := row.Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Code, &b.Type, &b.Document,
		&b.Address.Street, &b.Address.Number, &b.Address.Complement,
		&b.Address.District, &b.Address.City, &b.Address.State,
		&b.Address.ZipCode, &b.Address.Country, &b.Phone, &b.Email,
		&b.Status, &b.IsMain, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("erro ao buscar filial: %w", err)
	}

	return &b, nil
}

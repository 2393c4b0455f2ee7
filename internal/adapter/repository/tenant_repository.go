package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/tenant"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrTenantNotFound          = errors.New("tenant não encontrado")
	ErrTenantDuplicateDocument = errors.New("tenant com mesmo documento já existe")
)

const tenantColumns = `
	id, name, document, email, phone, status, schema_name, plan_type,
	max_branches, created_at, updated_at`

// TenantRepository implementa a interface tenant.Repository
type TenantRepository struct {
	db *pgxpool.Pool
}

// NewTenantRepository cria uma nova instância de TenantRepository
func NewTenantRepository(db *pgxpool.Pool) tenant.Repository {
	return &TenantRepository{
		db: db,
	}
}

// Create implementa tenant.Repository.Create
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO tenants (
			id, name, document, email, phone, status, schema_name, plan_type,
			max_branches, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`,
		t.ID, t.Name, t.Document, t.Email, t.Phone, t.Status, t.Schema,
		t.PlanType, t.MaxBranches, t.CreatedAt, t.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrTenantDuplicateDocument
		}
		return fmt.Errorf("erro ao criar tenant: %w", err)
	}

	return nil
}

// FindByID implementa tenant.Repository.FindByID
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

// FindByDocument implementa tenant.Repository.FindByDocument
func (r *TenantRepository) FindByDocument(ctx context.Context, document string) (*tenant.Tenant, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE document = $1`, document)
	return scanTenant(row)
}

// List implementa tenant.Repository.List
func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tenants: %w", err)
	}
	defer rows.Close()

	return scanTenantRows(rows)
}

// Update implementa tenant.Repository.Update
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE tenants SET
			name = $1, document = $2, email = $3, phone = $4, status = $5,
			plan_type = $6, max_branches = $7, updated_at = $8
		WHERE id = $9`,
		t.Name, t.Document, t.Email, t.Phone, t.Status, t.PlanType,
		t.MaxBranches, t.UpdatedAt, t.ID)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrTenantDuplicateDocument
		}
		return fmt.Errorf("erro ao atualizar tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// Delete implementa tenant.Repository.Delete
func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx, "DELETE FROM tenants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("erro ao remover tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// UpdateStatus implementa tenant.Repository.UpdateStatus
func (r *TenantRepository) UpdateStatus(ctx context.Context, id string, status tenant.Status) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE tenants SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)

	if err != nil {
		return fmt.Errorf("erro ao atualizar status do tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// Count implementa tenant.Repository.Count
func (r *TenantRepository) Count(ctx context.Context) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, "SELECT COUNT(*) FROM tenants").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar tenants: %w", err)
	}

	return count, nil
}

// FindByNameLike implementa tenant.Repository.FindByNameLike
func (r *TenantRepository) FindByNameLike(ctx context.Context, name string, limit, offset int) ([]*tenant.Tenant, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants
		WHERE name ILIKE $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`,
		"%"+name+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tenants por nome: %w", err)
	}
	defer rows.Close()

	return scanTenantRows(rows)
}

// Exists implementa tenant.Repository.Exists
func (r *TenantRepository) Exists(ctx context.Context, id string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência do tenant: %w", err)
	}

	return exists, nil
}

// ExistsByDocument implementa tenant.Repository.ExistsByDocument
func (r *TenantRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM tenants WHERE document = $1)",
		document).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência do tenant: %w", err)
	}

	return exists, nil
}

// scanTenant lê um tenant de uma linha de resultado
func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant

	err := row.Scan(
		&t.ID, &t.Name, &t.Document, &t.Email, &t.Phone, &t.Status,
		&t.Schema, &t.PlanType, &t.MaxBranches, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("erro ao buscar tenant: %w", err)
	}

	return &t, nil
}

// scanTenantRows lê múltiplos tenants de um resultado
func scanTenantRows(rows pgx.Rows) ([]*tenant.Tenant, error) {
	tenants := make([]*tenant.Tenant, 0)

	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return tenants, nil
}

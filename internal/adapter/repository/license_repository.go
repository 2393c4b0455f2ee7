package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrLicenseNotFound     = errors.New("licença não encontrada")
	ErrLicenseDuplicateKey = errors.New("licença com a mesma chave já existe")
)

const licenseColumns = `
	id, key, type, status, client_name, client_email, max_users, max_branches,
	max_activations, expires_at, allowed_domains, hardware_binding,
	activation_count, last_activated_at, last_verified_at, notes,
	created_at, updated_at`

// LicenseRepository implementa a interface license.Repository
type LicenseRepository struct {
	db *pgxpool.Pool
}

// NewLicenseRepository cria uma nova instância de LicenseRepository
func NewLicenseRepository(db *pgxpool.Pool) license.Repository {
	return &LicenseRepository{
		db: db,
	}
}

// Create implementa license.Repository.Create
func (r *LicenseRepository) Create(ctx context.Context, l *license.License) error {
	domains, binding, err := marshalLicensePolicies(l)
	if err != nil {
		return err
	}

	q := database.QuerierFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO licenses (
			id, key, type, status, client_name, client_email, max_users,
			max_branches, max_activations, expires_at, allowed_domains,
			hardware_binding, activation_count, last_activated_at,
			last_verified_at, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18
		)`,
		l.ID, l.Key, l.Type, l.Status, l.ClientName, l.ClientEmail,
		l.MaxUsers, l.MaxBranches, l.MaxActivations, l.ExpiresAt,
		domains, binding, l.ActivationCount, l.LastActivatedAt,
		l.LastVerifiedAt, l.Notes, l.CreatedAt, l.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrLicenseDuplicateKey
		}
		return fmt.Errorf("erro ao criar licença: %w", err)
	}

	return nil
}

// FindByID implementa license.Repository.FindByID
func (r *LicenseRepository) FindByID(ctx context.Context, id string) (*license.License, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE id = $1`, id)
	return scanLicense(row)
}

// FindByKey implementa license.Repository.FindByKey
func (r *LicenseRepository) FindByKey(ctx context.Context, key string) (*license.License, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE key = $1`, key)
	return scanLicense(row)
}

// FindByKeyForUpdate implementa license.Repository.FindByKeyForUpdate
func (r *LicenseRepository) FindByKeyForUpdate(ctx context.Context, key string) (*license.License, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE key = $1 FOR UPDATE`, key)
	return scanLicense(row)
}

// List implementa license.Repository.List
func (r *LicenseRepository) List(ctx context.Context, limit, offset int) ([]*license.License, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+licenseColumns+` FROM licenses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar licenças: %w", err)
	}
	defer rows.Close()

	licenses := make([]*license.License, 0)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return licenses, nil
}

// Count implementa license.Repository.Count
func (r *LicenseRepository) Count(ctx context.Context) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, "SELECT COUNT(*) FROM licenses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar licenças: %w", err)
	}

	return count, nil
}

// Update implementa license.Repository.Update
func (r *LicenseRepository) Update(ctx context.Context, l *license.License) error {
	domains, binding, err := marshalLicensePolicies(l)
	if err != nil {
		return err
	}

	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE licenses SET
			type = $1, status = $2, client_name = $3, client_email = $4,
			max_users = $5, max_branches = $6, max_activations = $7,
			expires_at = $8, allowed_domains = $9, hardware_binding = $10,
			activation_count = $11, last_activated_at = $12,
			last_verified_at = $13, notes = $14, updated_at = $15
		WHERE id = $16`,
		l.Type, l.Status, l.ClientName, l.ClientEmail, l.MaxUsers,
		l.MaxBranches, l.MaxActivations, l.ExpiresAt, domains, binding,
		l.ActivationCount, l.LastActivatedAt, l.LastVerifiedAt, l.Notes,
		l.UpdatedAt, l.ID)

	if err != nil {
		return fmt.Errorf("erro ao atualizar licença: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLicenseNotFound
	}

	return nil
}

// UpdateStatus implementa license.Repository.UpdateStatus
func (r *LicenseRepository) UpdateStatus(ctx context.Context, id string, status license.Status) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		"UPDATE licenses SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id)

	if err != nil {
		return fmt.Errorf("erro ao atualizar status da licença: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLicenseNotFound
	}

	return nil
}

// ExistsByKey implementa license.Repository.ExistsByKey
func (r *LicenseRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM licenses WHERE key = $1)",
		key).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência da licença: %w", err)
	}

	return exists, nil
}

// marshalLicensePolicies converte as políticas da licença para JSON.
// Políticas ausentes são armazenadas como NULL
func marshalLicensePolicies(l *license.License) ([]byte, []byte, error) {
	var domains []byte
	if len(l.AllowedDomains) > 0 {
		var err error
		domains, err = json.Marshal(l.AllowedDomains)
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao converter domínios permitidos para JSON: %w", err)
		}
	}

	var binding []byte
	if l.HardwareBinding != nil {
		var err error
		binding, err = json.Marshal(l.HardwareBinding)
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao converter vínculo de hardware para JSON: %w", err)
		}
	}

	return domains, binding, nil
}

// scanLicense lê uma licença de uma linha de resultado
func scanLicense(row pgx.Row) (*license.License, error) {
	var l license.License
	var domainsJSON, bindingJSON []byte

	err := row.Scan(
		&l.ID, &l.Key, &l.Type, &l.Status, &l.ClientName, &l.ClientEmail,
		&l.MaxUsers, &l.MaxBranches, &l.MaxActivations, &l.ExpiresAt,
		&domainsJSON, &bindingJSON, &l.ActivationCount, &l.LastActivatedAt,
		&l.LastVerifiedAt, &l.Notes, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("erro ao buscar licença: %w", err)
	}

	if len(domainsJSON) > 0 {
		if err := json.Unmarshal(domainsJSON, &l.AllowedDomains); err != nil {
			return nil, fmt.Errorf("erro ao converter domínios permitidos: %w", err)
		}
	}

	if len(bindingJSON) > 0 {
		l.HardwareBinding = &license.HardwareBinding{}
		if err := json.Unmarshal(bindingJSON, l.HardwareBinding); err != nil {
			return nil, fmt.Errorf("erro ao converter vínculo de hardware: %w", err)
		}
	}

	return &l, nil
}

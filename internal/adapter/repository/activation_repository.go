package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrActivationNotFound     = errors.New("ativação não encontrada")
	ErrActivationDuplicateKey = errors.New("ativação com a mesma chave já existe")
)

const activationColumns = `
	id, license_id, activation_key, domain, hardware_id, is_active,
	activated_at, deactivated_at, deactivation_reason, last_verified_at`

// ActivationRepository implementa a interface license.ActivationRepository
type ActivationRepository struct {
	db *pgxpool.Pool
}

// NewActivationRepository cria uma nova instância de ActivationRepository
func NewActivationRepository(db *pgxpool.Pool) license.ActivationRepository {
	return &ActivationRepository{
		db: db,
	}
}

// Create implementa license.ActivationRepository.Create
func (r *ActivationRepository) Create(ctx context.Context, a *license.Activation) error {
	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx,
		`INSERT INTO license_activations (
			id, license_id, activation_key, domain, hardware_id, is_active,
			activated_at, deactivated_at, deactivation_reason, last_verified_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`,
		a.ID, a.LicenseID, a.ActivationKey, a.Domain, a.HardwareID,
		a.IsActive, a.ActivatedAt, a.DeactivatedAt, a.DeactivationReason,
		a.LastVerifiedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrActivationDuplicateKey
		}
		return fmt.Errorf("erro ao criar ativação: %w", err)
	}

	return nil
}

// FindByKey implementa license.ActivationRepository.FindByKey
func (r *ActivationRepository) FindByKey(ctx context.Context, activationKey string) (*license.Activation, error) {
	q := database.QuerierFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+activationColumns+` FROM license_activations WHERE activation_key = $1`,
		activationKey)
	return scanActivation(row)
}

// FindByLicense implementa license.ActivationRepository.FindByLicense
func (r *ActivationRepository) FindByLicense(ctx context.Context, licenseID string, limit, offset int) ([]*license.Activation, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+activationColumns+` FROM license_activations
		WHERE license_id = $1
		ORDER BY activated_at DESC
		LIMIT $2 OFFSET $3`,
		licenseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar ativações: %w", err)
	}
	defer rows.Close()

	return scanActivationRows(rows)
}

// CountActive implementa license.ActivationRepository.CountActive
func (r *ActivationRepository) CountActive(ctx context.Context, licenseID string) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM license_activations WHERE license_id = $1 AND is_active = true",
		licenseID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("erro ao contar ativações ativas: %w", err)
	}

	return count, nil
}

// FindActive implementa license.ActivationRepository.FindActive
func (r *ActivationRepository) FindActive(ctx context.Context, licenseID string) ([]*license.Activation, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+activationColumns+` FROM license_activations
		WHERE license_id = $1 AND is_active = true
		ORDER BY activated_at ASC`,
		licenseID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar ativações ativas: %w", err)
	}
	defer rows.Close()

	return scanActivationRows(rows)
}

// FindActiveByHardware implementa license.ActivationRepository.FindActiveByHardware
func (r *ActivationRepository) FindActiveByHardware(ctx context.Context, licenseID, hardwareID string) ([]*license.Activation, error) {
	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+activationColumns+` FROM license_activations
		WHERE license_id = $1 AND hardware_id = $2 AND is_active = true`,
		licenseID, hardwareID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar ativações por hardware: %w", err)
	}
	defer rows.Close()

	return scanActivationRows(rows)
}

// Update implementa license.ActivationRepository.Update
func (r *ActivationRepository) Update(ctx context.Context, a *license.Activation) error {
	q := database.QuerierFrom(ctx, r.db)
	result, err := q.Exec(ctx,
		`UPDATE license_activations SET
			domain = $1, hardware_id = $2, is_active = $3, deactivated_at = $4,
			deactivation_reason = $5, last_verified_at = $6
		WHERE id = $7`,
		a.Domain, a.HardwareID, a.IsActive, a.DeactivatedAt,
		a.DeactivationReason, a.LastVerifiedAt, a.ID)

	if err != nil {
		return fmt.Errorf("erro ao atualizar ativação: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrActivationNotFound
	}

	return nil
}

// scanActivation lê uma ativação de uma linha de resultado
func scanActivation(row pgx.Row) (*license.Activation, error) {
	var a license.Activation

	err := row.Scan(
		&a.ID, &a.LicenseID, &a.ActivationKey, &a.Domain, &a.HardwareID,
		&a.IsActive, &a.ActivatedAt, &a.DeactivatedAt, &a.DeactivationReason,
		&a.LastVerifiedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivationNotFound
		}
		return nil, fmt.Errorf("erro ao buscar ativação: %w", err)
	}

	return &a, nil
}

// scanActivationRows lê múltiplas ativações de um resultado
func scanActivationRows(rows pgx.Rows) ([]*license.Activation, error) {
	activations := make([]*license.Activation, 0)

	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, err
		}
		activations = append(activations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler resultados: %w", err)
	}

	return activations, nil
}

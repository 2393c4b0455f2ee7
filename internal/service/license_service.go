package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
)

// LicenseService implementa as operações de negócio sobre licenças e
// ativações. Toda sequência de verificação-e-escrita roda dentro de uma
// transação com a linha da licença travada
type LicenseService struct {
	licenses    license.Repository
	activations license.ActivationRepository
	tx          database.TxManager
	logger      logger.Logger
}

// NewLicenseService cria uma nova instância de LicenseService
func NewLicenseService(
	licenses license.Repository,
	activations license.ActivationRepository,
	tx database.TxManager,
	logger logger.Logger,
) *LicenseService {
	return &LicenseService{
		licenses:    licenses,
		activations: activations,
		tx:          tx,
		logger:      logger,
	}
}

// CreateLicenseInput agrupa os dados de emissão de uma licença
type CreateLicenseInput struct {
	Type            license.Type
	ClientName      string
	ClientEmail     string
	MaxUsers        int
	MaxBranches     int
	MaxActivations  int
	ExpiresAt       *time.Time
	AllowedDomains  []string
	HardwareBinding *license.HardwareBinding
	Notes           string
}

// CreateLicense emite uma nova licença com chave gerada aleatoriamente.
// Colisões de chave são resolvidas gerando uma nova
func (s *LicenseService) CreateLicense(ctx context.Context, input CreateLicenseInput) (*license.License, error) {
	l, err := license.NewLicense(
		input.Type,
		input.ClientName,
		input.ClientEmail,
		input.MaxUsers,
		input.MaxBranches,
		input.MaxActivations,
		input.ExpiresAt,
		input.AllowedDomains,
		input.HardwareBinding,
		input.Notes,
	)
	if err != nil {
		return nil, err
	}

	for {
		exists, err := s.licenses.ExistsByKey(ctx, l.Key)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		l.Key = license.GenerateKey()
	}

	if err := s.licenses.Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("licença emitida", "license_id", l.ID, "type", l.Type, "client", l.ClientName)
	return l, nil
}

// GetLicense busca uma licença pelo ID
func (s *LicenseService) GetLicense(ctx context.Context, id string) (*license.License, error) {
	return s.licenses.FindByID(ctx, id)
}

// GetLicenseByKey busca uma licença pela chave
func (s *LicenseService) GetLicenseByKey(ctx context.Context, key string) (*license.License, error) {
	if !license.ValidKeyFormat(key) {
		return nil, license.ErrInvalidKeyFormat
	}
	return s.licenses.FindByKey(ctx, key)
}

// ListLicenses lista licenças com paginação, retornando também o total
func (s *LicenseService) ListLicenses(ctx context.Context, limit, offset int) ([]*license.License, int, error) {
	licenses, err := s.licenses.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.licenses.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return licenses, total, nil
}

// ChangeStatus aplica uma transição administrativa de status. Suspensão e
// cancelamento são incondicionais a partir de ativo; reativação só a partir
// de suspenso
func (s *LicenseService) ChangeStatus(ctx context.Context, id string, target license.Status) (*license.License, error) {
	var result *license.License

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.licenses.FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch target {
		case license.StatusSuspended:
			l.Suspend()
		case license.StatusCancelled:
			l.Cancel()
		case license.StatusActive:
			if err := l.Reactivate(); err != nil {
				return err
			}
		default:
			return license.ErrInvalidTransition
		}

		if err := s.licenses.Update(ctx, l); err != nil {
			return err
		}

		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("status da licença alterado", "license_id", id, "status", target)
	return result, nil
}

// ActivateInput agrupa os dados de uma requisição de ativação
type ActivateInput struct {
	LicenseKey string
	Email      string
	Domain     string
	HardwareID string
}

// Activate valida a licença e cria uma nova ativação. Ativações ativas no
// mesmo hardware são substituídas; em licenças de assento único uma ativação
// em hardware novo desloca a anterior em vez de ser rejeitada
func (s *LicenseService) Activate(ctx context.Context, input ActivateInput) (*license.Activation, error) {
	if !license.ValidKeyFormat(input.LicenseKey) {
		return nil, license.ErrInvalidKeyFormat
	}

	var (
		created   *license.Activation
		expiredID string
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.licenses.FindByKeyForUpdate(ctx, input.LicenseKey)
		if err != nil {
			return err
		}

		if flipped, err := s.gateLicense(l); err != nil {
			if flipped {
				expiredID = l.ID
			}
			return err
		}

		if !l.EmailMatches(input.Email) {
			return license.ErrEmailMismatch
		}

		// Um hardware carrega no máximo uma ativação viva: as anteriores
		// são substituídas, não rejeitadas
		if input.HardwareID != "" {
			same, err := s.activations.FindActiveByHardware(ctx, l.ID, input.HardwareID)
			if err != nil {
				return err
			}
			for _, old := range same {
				old.Deactivate(license.ReasonSuperseded)
				if err := s.activations.Update(ctx, old); err != nil {
					return err
				}
			}
		}

		active, err := s.activations.CountActive(ctx, l.ID)
		if err != nil {
			return err
		}

		if active >= l.MaxActivations {
			// Licença de assento único: trocar de hardware desloca a
			// ativação corrente. Multiassento no limite é rejeitada
			if l.MaxActivations != 1 {
				return license.ErrActivationLimit
			}

			olds, err := s.activations.FindActive(ctx, l.ID)
			if err != nil {
				return err
			}
			for _, old := range olds {
				old.Deactivate(license.ReasonSuperseded)
				if err := s.activations.Update(ctx, old); err != nil {
					return err
				}
			}
		}

		// As regras de domínio e de hardware vêm depois do limite de
		// assentos: uma licença lotada é recusada pelo limite, não por um
		// detalhe de política
		if !l.DomainAllowed(input.Domain) {
			return license.ErrDomainNotAllowed
		}

		if !l.HardwareAllowed(input.HardwareID) {
			return license.ErrHardwareNotAllowed
		}

		a := license.NewActivation(l.ID, input.Domain, input.HardwareID)
		if err := s.activations.Create(ctx, a); err != nil {
			return err
		}

		l.RegisterActivation()
		if err := s.licenses.Update(ctx, l); err != nil {
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		if expiredID != "" {
			s.persistExpiry(ctx, expiredID)
		}
		return nil, err
	}

	s.logger.Info("licença ativada", "license_key", input.LicenseKey, "hardware_id", input.HardwareID)
	return created, nil
}

// SystemInfo é a impressão digital opcional enviada na verificação
type SystemInfo struct {
	HardwareID string
	Domain     string
}

// Verify valida o par chave de licença + chave de ativação. Divergência de
// impressão digital desativa a ativação imediatamente (política fail closed)
func (s *LicenseService) Verify(ctx context.Context, licenseKey, activationKey string, info *SystemInfo) (*license.License, *license.Activation, error) {
	var (
		outLicense    *license.License
		outActivation *license.Activation
		expiredID     string
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.activations.FindByKey(ctx, activationKey)
		if err != nil {
			// Chave desconhecida responde como inativa; falha de
			// infraestrutura sobe como erro
			if errors.Is(err, repository.ErrActivationNotFound) {
				return license.ErrActivationInactive
			}
			return err
		}
		if !a.IsActive {
			return license.ErrActivationInactive
		}

		l, err := s.licenses.FindByKeyForUpdate(ctx, licenseKey)
		if err != nil {
			if errors.Is(err, repository.ErrLicenseNotFound) {
				return license.ErrActivationInactive
			}
			return err
		}
		if l.ID != a.LicenseID {
			return license.ErrActivationInactive
		}

		if flipped, err := s.gateLicense(l); err != nil {
			if flipped {
				expiredID = l.ID
			}
			return err
		}

		if info != nil && !a.MatchesSystem(info.HardwareID, info.Domain) {
			a.Deactivate(license.ReasonSecurityReset)
			if err := s.activations.Update(ctx, a); err != nil {
				return err
			}
			s.logger.Warn("verificação com impressão digital divergente",
				"activation_id", a.ID, "hardware_id", info.HardwareID, "domain", info.Domain)
			return license.ErrSystemMismatch
		}

		a.RegisterVerification()
		if err := s.activations.Update(ctx, a); err != nil {
			return err
		}

		l.RegisterVerification()
		if err := s.licenses.Update(ctx, l); err != nil {
			return err
		}

		outLicense = l
		outActivation = a
		return nil
	})
	if err != nil {
		if expiredID != "" {
			s.persistExpiry(ctx, expiredID)
		}
		return nil, nil, err
	}

	return outLicense, outActivation, nil
}

// DeactivateActivation desativa explicitamente uma ativação
func (s *LicenseService) DeactivateActivation(ctx context.Context, activationKey, reason string) error {
	if reason == "" {
		reason = license.ReasonManualShutdown
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.activations.FindByKey(ctx, activationKey)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return license.ErrActivationInactive
		}

		a.Deactivate(reason)
		return s.activations.Update(ctx, a)
	})
}

// ListActivations lista as ativações de uma licença
func (s *LicenseService) ListActivations(ctx context.Context, licenseID string, limit, offset int) ([]*license.Activation, error) {
	return s.activations.FindByLicense(ctx, licenseID, limit, offset)
}

// BindingAction define as ações possíveis sobre a política de vínculo
type BindingAction string

const (
	BindingActionAdd            BindingAction = "add"
	BindingActionRemove         BindingAction = "remove"
	BindingActionUpdateSettings BindingAction = "update-settings"
)

// ErrInvalidBindingAction indica uma ação de vínculo desconhecida
var ErrInvalidBindingAction = fmt.Errorf("ação de vínculo de hardware inválida")

// UpdateHardwareBindingInput agrupa os dados de alteração da política de vínculo
type UpdateHardwareBindingInput struct {
	LicenseID   string
	Action      BindingAction
	Domain      string
	HardwareID  string
	MaxBindings *int
	StrictMode  *bool
}

// UpdateHardwareBinding altera a política de vínculo de hardware da licença
// (leitura-modificação-escrita dentro de transação)
func (s *LicenseService) UpdateHardwareBinding(ctx context.Context, input UpdateHardwareBindingInput) (*license.License, error) {
	var result *license.License

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		l, err := s.licenses.FindByID(ctx, input.LicenseID)
		if err != nil {
			return err
		}

		switch input.Action {
		case BindingActionAdd:
			if err := l.AddBinding(input.Domain, input.HardwareID); err != nil {
				return err
			}
		case BindingActionRemove:
			l.RemoveBinding(input.Domain, input.HardwareID)
		case BindingActionUpdateSettings:
			l.UpdateBindingSettings(input.MaxBindings, input.StrictMode)
		default:
			return ErrInvalidBindingAction
		}

		if err := s.licenses.Update(ctx, l); err != nil {
			return err
		}

		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// gateLicense aplica as verificações de status e expiração preguiçosa. Uma
// licença ativa já vencida é marcada como expirada apenas em memória; o
// retorno indica se o desarme precisa ser persistido pelo chamador
func (s *LicenseService) gateLicense(l *license.License) (bool, error) {
	if l.IsActive() && l.IsExpired(time.Now()) {
		l.MarkExpired()
		return true, license.ErrExpired
	}

	if !l.IsActive() {
		if l.Status == license.StatusExpired {
			return false, license.ErrExpired
		}
		return false, fmt.Errorf("%w: %s", license.ErrNotActive, l.Status)
	}

	return false, nil
}

// persistExpiry grava o desarme de expiração preguiçosa. Roda sobre o contexto
// original, depois que a transação rejeitada já foi desfeita, para que o novo
// status sobreviva ao rollback da operação que o detectou
func (s *LicenseService) persistExpiry(ctx context.Context, licenseID string) {
	if err := s.licenses.UpdateStatus(ctx, licenseID, license.StatusExpired); err != nil {
		s.logger.Error("erro ao persistir expiração da licença", "license_id", licenseID, "error", err)
	}
}

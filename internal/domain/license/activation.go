package license

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrActivationInactive = errors.New("ativação não encontrada ou inativa")
	ErrSystemMismatch     = errors.New("violação de segurança: sistema não corresponde à ativação")
)

// Motivos padrão de desativação
const (
	ReasonSuperseded     = "nova ativação no mesmo hardware"
	ReasonSecurityReset  = "violação de segurança - sistema não corresponde"
	ReasonManualShutdown = "desativação solicitada pelo cliente"
)

var activationKeyPattern = regexp.MustCompile(`^[A-Z0-9]{8}-[A-Z0-9]{8}-[A-Z0-9]{8}-[A-Z0-9]{8}$`)

// GenerateActivationKey gera uma chave de ativação (32 caracteres em grupos de 8)
func GenerateActivationKey() string {
	return randomGroups(4, 8)
}

// ValidActivationKeyFormat verifica o formato da chave de ativação
func ValidActivationKeyFormat(key string) bool {
	return activationKeyPattern.MatchString(key)
}

// Activation representa uma ativação da licença em um sistema específico
type Activation struct {
	ID                 string     `json:"id"`
	LicenseID          string     `json:"license_id"`
	ActivationKey      string     `json:"activation_key"`
	Domain             string     `json:"domain"`      // Domínio do sistema vinculado
	HardwareID         string     `json:"hardware_id"` // Impressão digital do hardware
	IsActive           bool       `json:"is_active"`
	ActivatedAt        time.Time  `json:"activated_at"`
	DeactivatedAt      *time.Time `json:"deactivated_at"`
	DeactivationReason string     `json:"deactivation_reason"`
	LastVerifiedAt     *time.Time `json:"last_verified_at"`
}

// NewActivation cria uma nova ativação para a licença
func NewActivation(licenseID, domain, hardwareID string) *Activation {
	return &Activation{
		ID:            uuid.New().String(),
		LicenseID:     licenseID,
		ActivationKey: GenerateActivationKey(),
		Domain:        domain,
		HardwareID:    hardwareID,
		IsActive:      true,
		ActivatedAt:   time.Now(),
	}
}

// Deactivate desativa a ativação registrando o motivo
func (a *Activation) Deactivate(reason string) {
	now := time.Now()
	a.IsActive = false
	a.DeactivatedAt = &now
	a.DeactivationReason = reason
}

// MatchesSystem compara a impressão digital informada com a armazenada.
// Campos vazios na requisição não são considerados divergência
func (a *Activation) MatchesSystem(hardwareID, domain string) bool {
	if hardwareID != "" && hardwareID != a.HardwareID {
		return false
	}
	if domain != "" && domain != a.Domain {
		return false
	}
	return true
}

// RegisterVerification registra uma verificação bem sucedida da ativação
func (a *Activation) RegisterVerification() {
	now := time.Now()
	a.LastVerifiedAt = &now
}

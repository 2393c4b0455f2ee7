package license

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyClientName    = errors.New("nome do cliente não pode ser vazio")
	ErrEmptyClientEmail   = errors.New("email do cliente não pode ser vazio")
	ErrInvalidType        = errors.New("tipo de licença inválido")
	ErrInvalidKeyFormat   = errors.New("formato de chave de licença inválido")
	ErrNotActive          = errors.New("licença não está ativa")
	ErrExpired            = errors.New("licença expirada")
	ErrEmailMismatch      = errors.New("email não corresponde ao titular da licença")
	ErrDomainNotAllowed   = errors.New("domínio não autorizado para esta licença")
	ErrHardwareNotAllowed = errors.New("hardware não autorizado para esta licença")
	ErrActivationLimit    = errors.New("limite de ativações da licença atingido")
	ErrMaxBindings        = errors.New("limite de vínculos de hardware atingido")
	ErrInvalidTransition  = errors.New("transição de status de licença inválida")
)

// Type define o tipo de licença
type Type string

const (
	TypeLifetime Type = "lifetime" // Licença vitalícia
	TypeMonthly  Type = "monthly"  // Licença mensal
	TypeYearly   Type = "yearly"   // Licença anual
)

// Status representa o estado da licença
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// HardwareBinding representa a política de vínculo de hardware da licença.
// É serializada como JSON em uma única coluna no repositório.
type HardwareBinding struct {
	HardwareIDs         []string `json:"hardware_ids"`          // IDs de hardware autorizados
	Domains             []string `json:"domains"`               // Domínios vinculados
	MaxHardwareBindings int      `json:"max_hardware_bindings"` // Máximo de vínculos de hardware
	StrictMode          bool     `json:"strict_mode"`           // Modo estrito: lista vazia rejeita qualquer hardware
}

// License representa uma licença de uso do sistema
type License struct {
	ID              string           `json:"id"`
	Key             string           `json:"key"`              // Chave no formato XXXX-XXXX-XXXX-XXXX
	Type            Type             `json:"type"`             // Tipo da licença
	Status          Status           `json:"status"`           // Status atual
	ClientName      string           `json:"client_name"`      // Nome do cliente titular
	ClientEmail     string           `json:"client_email"`     // Email do cliente titular
	MaxUsers        int              `json:"max_users"`        // Máximo de usuários
	MaxBranches     int              `json:"max_branches"`     // Máximo de filiais
	MaxActivations  int              `json:"max_activations"`  // Máximo de ativações simultâneas
	ExpiresAt       *time.Time       `json:"expires_at"`       // Data de expiração (nula para vitalícia)
	AllowedDomains  []string         `json:"allowed_domains"`  // Domínios permitidos (vazio = todos)
	HardwareBinding *HardwareBinding `json:"hardware_binding"` // Política de vínculo de hardware
	ActivationCount int              `json:"activation_count"` // Contador bruto de ativações realizadas
	LastActivatedAt *time.Time       `json:"last_activated_at"`
	LastVerifiedAt  *time.Time       `json:"last_verified_at"`
	Notes           string           `json:"notes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var keyPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// randomGroups gera grupos aleatórios de caracteres alfanuméricos maiúsculos
// separados por hífen
func randomGroups(groups, size int) string {
	buf := make([]byte, groups*size)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}

	var sb strings.Builder
	for i, b := range buf {
		if i > 0 && i%size == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(keyAlphabet[int(b)%len(keyAlphabet)])
	}
	return sb.String()
}

// GenerateKey gera uma nova chave de licença (16 caracteres em grupos de 4)
func GenerateKey() string {
	return randomGroups(4, 4)
}

// ValidKeyFormat verifica se a chave está no formato XXXX-XXXX-XXXX-XXXX
func ValidKeyFormat(key string) bool {
	return keyPattern.MatchString(key)
}

// NewLicense cria uma nova licença
func NewLicense(
	licenseType Type,
	clientName string,
	clientEmail string,
	maxUsers int,
	maxBranches int,
	maxActivations int,
	expiresAt *time.Time,
	allowedDomains []string,
	binding *HardwareBinding,
	notes string,
) (*License, error) {
	if clientName == "" {
		return nil, ErrEmptyClientName
	}

	if clientEmail == "" {
		return nil, ErrEmptyClientEmail
	}

	switch licenseType {
	case TypeLifetime, TypeMonthly, TypeYearly:
	default:
		return nil, ErrInvalidType
	}

	if maxActivations <= 0 {
		maxActivations = 1
	}

	// Licenças mensais e anuais recebem expiração padrão quando não informada
	if expiresAt == nil {
		switch licenseType {
		case TypeMonthly:
			t := time.Now().AddDate(0, 0, 30)
			expiresAt = &t
		case TypeYearly:
			t := time.Now().AddDate(0, 0, 365)
			expiresAt = &t
		}
	}

	now := time.Now()
	return &License{
		ID:              uuid.New().String(),
		Key:             GenerateKey(),
		Type:            licenseType,
		Status:          StatusActive,
		ClientName:      clientName,
		ClientEmail:     clientEmail,
		MaxUsers:        maxUsers,
		MaxBranches:     maxBranches,
		MaxActivations:  maxActivations,
		ExpiresAt:       expiresAt,
		AllowedDomains:  allowedDomains,
		HardwareBinding: binding,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsActive verifica se a licença está ativa
func (l *License) IsActive() bool {
	return l.Status == StatusActive
}

// IsExpired verifica se a licença passou da data de expiração
func (l *License) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// MarkExpired marca a licença como expirada
func (l *License) MarkExpired() {
	l.Status = StatusExpired
	l.UpdatedAt = time.Now()
}

// Suspend suspende a licença (transição administrativa)
func (l *License) Suspend() {
	l.Status = StatusSuspended
	l.UpdatedAt = time.Now()
}

// Cancel cancela a licença (transição administrativa, sem retorno)
func (l *License) Cancel() {
	l.Status = StatusCancelled
	l.UpdatedAt = time.Now()
}

// Reactivate reativa uma licença suspensa. Licenças expiradas ou canceladas
// não voltam a ativo
func (l *License) Reactivate() error {
	if l.Status != StatusSuspended {
		return ErrInvalidTransition
	}
	l.Status = StatusActive
	l.UpdatedAt = time.Now()
	return nil
}

// EmailMatches compara o email informado com o titular, sem diferenciar
// maiúsculas de minúsculas
func (l *License) EmailMatches(email string) bool {
	return strings.EqualFold(l.ClientEmail, email)
}

// DomainAllowed verifica se o domínio informado é permitido. Lista vazia
// permite qualquer domínio
func (l *License) DomainAllowed(domain string) bool {
	if len(l.AllowedDomains) == 0 {
		return true
	}
	for _, d := range l.AllowedDomains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

// HardwareAllowed verifica se o hardware informado é permitido pela política
// de vínculo. Sem política ou com lista vazia (fora do modo estrito) qualquer
// hardware é aceito
func (l *License) HardwareAllowed(hardwareID string) bool {
	if l.HardwareBinding == nil {
		return true
	}
	if len(l.HardwareBinding.HardwareIDs) == 0 {
		return !l.HardwareBinding.StrictMode
	}
	for _, id := range l.HardwareBinding.HardwareIDs {
		if id == hardwareID {
			return true
		}
	}
	return false
}

// AddBinding adiciona domínio e/ou hardware às listas de vínculo da licença
func (l *License) AddBinding(domain, hardwareID string) error {
	if l.HardwareBinding == nil {
		l.HardwareBinding = &HardwareBinding{MaxHardwareBindings: 1}
	}

	if hardwareID != "" {
		if !containsString(l.HardwareBinding.HardwareIDs, hardwareID) {
			if l.HardwareBinding.MaxHardwareBindings > 0 &&
				len(l.HardwareBinding.HardwareIDs) >= l.HardwareBinding.MaxHardwareBindings {
				return ErrMaxBindings
			}
			l.HardwareBinding.HardwareIDs = append(l.HardwareBinding.HardwareIDs, hardwareID)
		}
	}

	if domain != "" && !containsString(l.HardwareBinding.Domains, domain) {
		l.HardwareBinding.Domains = append(l.HardwareBinding.Domains, domain)
	}

	l.UpdatedAt = time.Now()
	return nil
}

// RemoveBinding remove domínio e/ou hardware das listas de vínculo
func (l *License) RemoveBinding(domain, hardwareID string) {
	if l.HardwareBinding == nil {
		return
	}

	if hardwareID != "" {
		l.HardwareBinding.HardwareIDs = removeString(l.HardwareBinding.HardwareIDs, hardwareID)
	}

	if domain != "" {
		l.HardwareBinding.Domains = removeString(l.HardwareBinding.Domains, domain)
	}

	l.UpdatedAt = time.Now()
}

// UpdateBindingSettings atualiza as configurações da política de vínculo
func (l *License) UpdateBindingSettings(maxBindings *int, strictMode *bool) {
	if l.HardwareBinding == nil {
		l.HardwareBinding = &HardwareBinding{MaxHardwareBindings: 1}
	}

	if maxBindings != nil {
		l.HardwareBinding.MaxHardwareBindings = *maxBindings
	}

	if strictMode != nil {
		l.HardwareBinding.StrictMode = *strictMode
	}

	l.UpdatedAt = time.Now()
}

// RegisterActivation registra uma nova ativação bem sucedida. O contador é
// bruto: incrementa a cada ativação, mesmo quando uma ativação anterior é
// substituída
func (l *License) RegisterActivation() {
	now := time.Now()
	l.ActivationCount++
	l.LastActivatedAt = &now
	l.UpdatedAt = now
}

// RegisterVerification registra uma verificação bem sucedida
func (l *License) RegisterVerification() {
	now := time.Now()
	l.LastVerifiedAt = &now
	l.UpdatedAt = now
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func removeString(list []string, value string) []string {
	result := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			result = append(result, v)
		}
	}
	return result
}

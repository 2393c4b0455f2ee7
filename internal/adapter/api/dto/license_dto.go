package dto

import (
	"time"

	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
)

// HardwareBindingRequest representa a política de vínculo de hardware na requisição
type HardwareBindingRequest struct {
	HardwareIDs         []string `json:"hardware_ids"`
	Domains             []string `json:"domains"`
	MaxHardwareBindings int      `json:"max_hardware_bindings"`
	StrictMode          bool     `json:"strict_mode"`
}

// LicenseRequest representa a requisição de emissão de licença
type LicenseRequest struct {
	Type            license.Type            `json:"type" binding:"required"`
	ClientName      string                  `json:"client_name" binding:"required"`
	ClientEmail     string                  `json:"client_email" binding:"required,email"`
	MaxUsers        int                     `json:"max_users"`
	MaxBranches     int                     `json:"max_branches"`
	MaxActivations  int                     `json:"max_activations"`
	ExpiresAt       *time.Time              `json:"expires_at"`
	AllowedDomains  []string                `json:"allowed_domains"`
	HardwareBinding *HardwareBindingRequest `json:"hardware_binding"`
	Notes           string                  `json:"notes"`
}

// ToHardwareBinding converte a política de vínculo da requisição para o domínio
func (r *LicenseRequest) ToHardwareBinding() *license.HardwareBinding {
	if r.HardwareBinding == nil {
		return nil
	}
	return &license.HardwareBinding{
		HardwareIDs:         r.HardwareBinding.HardwareIDs,
		Domains:             r.HardwareBinding.Domains,
		MaxHardwareBindings: r.HardwareBinding.MaxHardwareBindings,
		StrictMode:          r.HardwareBinding.StrictMode,
	}
}

// LicenseResponse representa a resposta administrativa completa de licença
type LicenseResponse struct {
	ID              string                   `json:"id"`
	Key             string                   `json:"key"`
	Type            license.Type             `json:"type"`
	Status          license.Status           `json:"status"`
	ClientName      string                   `json:"client_name"`
	ClientEmail     string                   `json:"client_email"`
	MaxUsers        int                      `json:"max_users"`
	MaxBranches     int                      `json:"max_branches"`
	MaxActivations  int                      `json:"max_activations"`
	ExpiresAt       *time.Time               `json:"expires_at"`
	AllowedDomains  []string                 `json:"allowed_domains"`
	HardwareBinding *license.HardwareBinding `json:"hardware_binding"`
	ActivationCount int                      `json:"activation_count"`
	LastActivatedAt *time.Time               `json:"last_activated_at"`
	LastVerifiedAt  *time.Time               `json:"last_verified_at"`
	Notes           string                   `json:"notes"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// LicenseListResponse representa a resposta de lista de licenças
type LicenseListResponse struct {
	Items      []LicenseResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}

// LicenseSummary é a visão enxuta da licença devolvida ao cliente final na
// verificação. Não expõe listas de hardware, domínios nem anotações internas
type LicenseSummary struct {
	Key         string         `json:"key"`
	Type        license.Type   `json:"type"`
	Status      license.Status `json:"status"`
	ClientName  string         `json:"client_name"`
	MaxUsers    int            `json:"max_users"`
	MaxBranches int            `json:"max_branches"`
	ExpiresAt   *time.Time     `json:"expires_at"`
}

// ActivationRequest representa a requisição de ativação de licença
type ActivationRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Domain     string `json:"domain"`
	HardwareID string `json:"hardware_id"`
}

// ActivationResponse representa a resposta de uma ativação
type ActivationResponse struct {
	ID                 string     `json:"id"`
	LicenseID          string     `json:"license_id"`
	ActivationKey      string     `json:"activation_key"`
	Domain             string     `json:"domain"`
	HardwareID         string     `json:"hardware_id"`
	IsActive           bool       `json:"is_active"`
	ActivatedAt        time.Time  `json:"activated_at"`
	DeactivatedAt      *time.Time `json:"deactivated_at"`
	DeactivationReason string     `json:"deactivation_reason,omitempty"`
	LastVerifiedAt     *time.Time `json:"last_verified_at"`
}

// VerifyRequest representa a impressão digital opcional enviada na verificação
type VerifyRequest struct {
	HardwareID string `json:"hardware_id"`
	Domain     string `json:"domain"`
}

// VerifyResponse representa a resposta de uma verificação bem sucedida
type VerifyResponse struct {
	Valid      bool           `json:"valid"`
	License    LicenseSummary `json:"license"`
	VerifiedAt time.Time      `json:"verified_at"`
}

// DeactivateRequest representa a requisição de desativação de uma ativação
type DeactivateRequest struct {
	Reason string `json:"reason"`
}

// HardwareBindingUpdateRequest representa a requisição de alteração da
// política de vínculo de hardware de uma licença
type HardwareBindingUpdateRequest struct {
	LicenseID   string `json:"license_id" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Domain      string `json:"domain"`
	HardwareID  string `json:"hardware_id"`
	MaxBindings *int   `json:"max_bindings"`
	StrictMode  *bool  `json:"strict_mode"`
}

// ToLicenseResponse converte uma licença do domínio para DTO
func ToLicenseResponse(l *license.License) *LicenseResponse {
	return &LicenseResponse{
		ID:              l.ID,
		Key:             l.Key,
		Type:            l.Type,
		Status:          l.Status,
		ClientName:      l.ClientName,
		ClientEmail:     l.ClientEmail,
		MaxUsers:        l.MaxUsers,
		MaxBranches:     l.MaxBranches,
		MaxActivations:  l.MaxActivations,
		ExpiresAt:       l.ExpiresAt,
		AllowedDomains:  l.AllowedDomains,
		HardwareBinding: l.HardwareBinding,
		ActivationCount: l.ActivationCount,
		LastActivatedAt: l.LastActivatedAt,
		LastVerifiedAt:  l.LastVerifiedAt,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// ToLicenseListResponse converte uma lista de licenças do domínio para DTO
func ToLicenseListResponse(licenses []*license.License, total, page, size, totalPages int) *LicenseListResponse {
	items := make([]LicenseResponse, len(licenses))
	for i, l := range licenses {
		items[i] = *ToLicenseResponse(l)
	}

	return &LicenseListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// ToLicenseSummary converte uma licença para a visão enxuta de verificação
func ToLicenseSummary(l *license.License) LicenseSummary {
	return LicenseSummary{
		Key:         l.Key,
		Type:        l.Type,
		Status:      l.Status,
		ClientName:  l.ClientName,
		MaxUsers:    l.MaxUsers,
		MaxBranches: l.MaxBranches,
		ExpiresAt:   l.ExpiresAt,
	}
}

// ToActivationResponse converte uma ativação do domínio para DTO
func ToActivationResponse(a *license.Activation) *ActivationResponse {
	return &ActivationResponse{
		ID:                 a.ID,
		LicenseID:          a.LicenseID,
		ActivationKey:      a.ActivationKey,
		Domain:             a.Domain,
		HardwareID:         a.HardwareID,
		IsActive:           a.IsActive,
		ActivatedAt:        a.ActivatedAt,
		DeactivatedAt:      a.DeactivatedAt,
		DeactivationReason: a.DeactivationReason,
		LastVerifiedAt:     a.LastVerifiedAt,
	}
}

// ToActivationListResponse converte uma lista de ativações do domínio para DTO
func ToActivationListResponse(activations []*license.Activation) []ActivationResponse {
	items := make([]ActivationResponse, len(activations))
	for i, a := range activations {
		items[i] = *ToActivationResponse(a)
	}
	return items
}

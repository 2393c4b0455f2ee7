package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/license"
	"github.com/hugohenrick/pdv-varejo/internal/service"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
)

// LicenseController gerencia as requisições de licenças, ativações e verificações
type LicenseController struct {
	licenseService *service.LicenseService
	logger         logger.Logger
}

// NewLicenseController cria uma nova instância de LicenseController
func NewLicenseController(licenseService *service.LicenseService, logger logger.Logger) *LicenseController {
	return &LicenseController{
		licenseService: licenseService,
		logger:         logger,
	}
}

// Create emite uma nova licença
// @Summary Emitir licença
// @Description Emite uma nova licença com chave gerada automaticamente
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param license body dto.LicenseRequest true "Dados da licença"
// @Success 201 {object} dto.LicenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses [post]
func (c *LicenseController) Create(ctx *gin.Context) {
	var req dto.LicenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	l, err := c.licenseService.CreateLicense(ctx, service.CreateLicenseInput{
		Type:            req.Type,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		MaxUsers:        req.MaxUsers,
		MaxBranches:     req.MaxBranches,
		MaxActivations:  req.MaxActivations,
		ExpiresAt:       req.ExpiresAt,
		AllowedDomains:  req.AllowedDomains,
		HardwareBinding: req.ToHardwareBinding(),
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, license.ErrInvalidType) ||
			errors.Is(err, license.ErrEmptyClientName) ||
			errors.Is(err, license.ErrEmptyClientEmail) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao emitir licença", err.Error()))
			return
		}
		c.logger.Error("erro ao emitir licença", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao emitir licença", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToLicenseResponse(l))
}

// Get retorna uma licença pelo ID
// @Summary Buscar licença
// @Description Retorna os dados de uma licença pelo ID
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da licença"
// @Success 200 {object} dto.LicenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/{id} [get]
func (c *LicenseController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	l, err := c.licenseService.GetLicense(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLicenseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "licença não encontrada", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar licença", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar licença", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLicenseResponse(l))
}

// List retorna a lista de licenças
// @Summary Listar licenças
// @Description Retorna a lista de licenças paginada
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.LicenseListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses [get]
func (c *LicenseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	licenses, total, err := c.licenseService.ListLicenses(ctx, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar licenças", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar licenças", err.Error()))
		return
	}

	totalPages := calculatePages(total, pagination.PageSize)

	ctx.JSON(http.StatusOK, dto.ToLicenseListResponse(licenses, total, pagination.Page, pagination.PageSize, totalPages))
}

// UpdateStatus aplica uma transição administrativa de status à licença
// @Summary Alterar status da licença
// @Description Suspende, cancela ou reativa uma licença
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da licença"
// @Param status path string true "Novo status" Enums(active, suspended, cancelled)
// @Success 200 {object} dto.LicenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/{id}/status/{status} [patch]
func (c *LicenseController) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	target := license.Status(ctx.Param("status"))

	l, err := c.licenseService.ChangeStatus(ctx, id, target)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLicenseNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "licença não encontrada", err.Error()))
		case errors.Is(err, license.ErrInvalidTransition):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "transição de status inválida", err.Error()))
		default:
			c.logger.Error("erro ao alterar status da licença", "error", err)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao alterar status da licença", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLicenseResponse(l))
}

// Activate ativa uma licença para um sistema
// @Summary Ativar licença
// @Description Valida a licença e cria uma nova ativação para o sistema informado
// @Tags licenses
// @Accept json
// @Produce json
// @Param activation body dto.ActivationRequest true "Dados da ativação"
// @Success 201 {object} dto.ActivationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/activate [post]
func (c *LicenseController) Activate(ctx *gin.Context) {
	var req dto.ActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	a, err := c.licenseService.Activate(ctx, service.ActivateInput{
		LicenseKey: req.LicenseKey,
		Email:      req.Email,
		Domain:     req.Domain,
		HardwareID: req.HardwareID,
	})
	if err != nil {
		c.respondActivationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToActivationResponse(a))
}

// Check verifica o par chave de licença + chave de ativação
// @Summary Verificar licença
// @Description Valida a licença e a ativação informadas nos cabeçalhos
// @Tags licenses
// @Accept json
// @Produce json
// @Param x-license-key header string true "Chave da licença"
// @Param x-activation-key header string true "Chave de ativação"
// @Param system body dto.VerifyRequest false "Impressão digital do sistema"
// @Success 200 {object} dto.VerifyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /license/check [post]
func (c *LicenseController) Check(ctx *gin.Context) {
	licenseKey := ctx.GetHeader("x-license-key")
	activationKey := ctx.GetHeader("x-activation-key")

	if licenseKey == "" || activationKey == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest,
			"cabeçalhos x-license-key e x-activation-key são obrigatórios", ""))
		return
	}

	var info *service.SystemInfo
	if ctx.Request.Method == http.MethodPost && ctx.Request.ContentLength > 0 {
		var req dto.VerifyRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
			return
		}
		if req.HardwareID != "" || req.Domain != "" {
			info = &service.SystemInfo{HardwareID: req.HardwareID, Domain: req.Domain}
		}
	}

	l, _, err := c.licenseService.Verify(ctx, licenseKey, activationKey, info)
	if err != nil {
		c.respondActivationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.VerifyResponse{
		Valid:      true,
		License:    dto.ToLicenseSummary(l),
		VerifiedAt: time.Now(),
	})
}

// Deactivate desativa explicitamente uma ativação
// @Summary Desativar ativação
// @Description Desativa a ativação informada, liberando o assento da licença
// @Tags licenses
// @Accept json
// @Produce json
// @Param key path string true "Chave de ativação"
// @Param body body dto.DeactivateRequest false "Motivo da desativação"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/activations/{key}/deactivate [post]
func (c *LicenseController) Deactivate(ctx *gin.Context) {
	key := ctx.Param("key")
	if key == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "chave de ativação não informada", ""))
		return
	}

	var req dto.DeactivateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
			return
		}
	}

	if err := c.licenseService.DeactivateActivation(ctx, key, req.Reason); err != nil {
		switch {
		case errors.Is(err, repository.ErrActivationNotFound), errors.Is(err, license.ErrActivationInactive):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "ativação não encontrada ou inativa", err.Error()))
		default:
			c.logger.Error("erro ao desativar ativação", "error", err)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao desativar ativação", err.Error()))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListActivations lista as ativações de uma licença
// @Summary Listar ativações
// @Description Retorna as ativações de uma licença, da mais recente para a mais antiga
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da licença"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.ActivationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/{id}/activations [get]
func (c *LicenseController) ListActivations(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	activations, err := c.licenseService.ListActivations(ctx, id, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar ativações", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar ativações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToActivationListResponse(activations))
}

// UpdateHardwareBinding altera a política de vínculo de hardware de uma licença
// @Summary Alterar vínculo de hardware
// @Description Adiciona, remove ou reconfigura os vínculos de hardware e domínio da licença
// @Tags licenses
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param binding body dto.HardwareBindingUpdateRequest true "Alteração de vínculo"
// @Success 200 {object} dto.LicenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /licenses/hardware-binding [post]
func (c *LicenseController) UpdateHardwareBinding(ctx *gin.Context) {
	var req dto.HardwareBindingUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	l, err := c.licenseService.UpdateHardwareBinding(ctx, service.UpdateHardwareBindingInput{
		LicenseID:   req.LicenseID,
		Action:      service.BindingAction(req.Action),
		Domain:      req.Domain,
		HardwareID:  req.HardwareID,
		MaxBindings: req.MaxBindings,
		StrictMode:  req.StrictMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLicenseNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "licença não encontrada", err.Error()))
		case errors.Is(err, service.ErrInvalidBindingAction):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ação de vínculo inválida", err.Error()))
		case errors.Is(err, license.ErrMaxBindings):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "limite de vínculos atingido", err.Error()))
		default:
			c.logger.Error("erro ao alterar vínculo de hardware", "error", err)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao alterar vínculo de hardware", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLicenseResponse(l))
}

// respondActivationError mapeia os erros de ativação e verificação para o
// código HTTP apropriado
func (c *LicenseController) respondActivationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, license.ErrInvalidKeyFormat):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "chave de licença inválida", err.Error()))
	case errors.Is(err, repository.ErrLicenseNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "licença não encontrada", err.Error()))
	case errors.Is(err, license.ErrExpired),
		errors.Is(err, license.ErrNotActive),
		errors.Is(err, license.ErrEmailMismatch),
		errors.Is(err, license.ErrDomainNotAllowed),
		errors.Is(err, license.ErrHardwareNotAllowed),
		errors.Is(err, license.ErrActivationLimit),
		errors.Is(err, license.ErrActivationInactive),
		errors.Is(err, license.ErrSystemMismatch):
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "licença recusada", err.Error()))
	default:
		c.logger.Error("erro ao processar licença", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar licença", err.Error()))
	}
}

package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/tenant"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
)

// TenantController gerencia as requisições relacionadas aos tenants
type TenantController struct {
	tenantRepository tenant.Repository
	logger           logger.Logger
}

// NewTenantController cria uma nova instância de TenantController
func NewTenantController(tenantRepository tenant.Repository, logger logger.Logger) *TenantController {
	return &TenantController{
		tenantRepository: tenantRepository,
		logger:           logger,
	}
}

// Create cria um novo tenant
// @Summary Cria um novo tenant
// @Description Cria um novo tenant no sistema
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.TenantRequest true "Dados do tenant"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants [post]
func (c *TenantController) Create(ctx *gin.Context) {
	var request dto.TenantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	t, err := tenant.NewTenant(request.Name, request.Document, request.Email,
		request.Phone, request.PlanType, request.MaxBranches)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Erro ao criar tenant", err.Error()))
		return
	}

	if err := c.tenantRepository.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTenantDuplicateDocument) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Tenant já existe", "Um tenant com este documento já está cadastrado"))
			return
		}
		c.logger.Error("erro ao criar tenant", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar tenant", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTenantResponse(t))
}

// GetByID busca um tenant pelo ID
// @Summary Busca um tenant pelo ID
// @Description Busca um tenant pelo seu ID
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id} [get]
func (c *TenantController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID não fornecido", ""))
		return
	}

	t, err := c.tenantRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Tenant não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar tenant", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// GetByDocument busca um tenant pelo documento
// @Summary Busca um tenant pelo documento
// @Description Busca um tenant pelo seu documento (CNPJ/CPF)
// @Tags tenants
// @Produce json
// @Param document path string true "Documento do tenant"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/document/{document} [get]
func (c *TenantController) GetByDocument(ctx *gin.Context) {
	document := ctx.Param("document")
	if document == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Documento não fornecido", ""))
		return
	}

	t, err := c.tenantRepository.FindByDocument(ctx, document)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Tenant não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar tenant", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

// List lista os tenants com paginação
// @Summary Lista os tenants
// @Description Lista os tenants com paginação, com busca opcional por nome
// @Tags tenants
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Param name query string false "Filtro por nome"
// @Success 200 {object} dto.TenantListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants [get]
func (c *TenantController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))

	pagination := dto.GetPagination(page, pageSize)
	offset := (pagination.Page - 1) * pagination.PageSize

	var (
		tenants []*tenant.Tenant
		err     error
	)

	if name := ctx.Query("name"); name != "" {
		tenants, err = c.tenantRepository.FindByNameLike(ctx, name, pagination.PageSize, offset)
	} else {
		tenants, err = c.tenantRepository.List(ctx, pagination.PageSize, offset)
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar tenants", err.Error()))
		return
	}

	totalCount, err := c.tenantRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar tenants", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantListResponse(tenants, totalCount, pagination.Page, pagination.PageSize))
}

// Update atualiza um tenant
// @Summary Atualiza um tenant
// @Description Atualiza os dados de um tenant existente
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "ID do tenant"
// @Param tenant body dto.TenantRequest true "Dados do tenant"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id} [put]
func (c *TenantController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID não fornecido", ""))
		return
	}

	existingTenant, err := c.tenantRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Tenant não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar tenant", err.Error()))
		return
	}

	var request dto.TenantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// O documento (CNPJ/CPF) não pode ser alterado
	if err := existingTenant.Update(request.Name, request.Email, request.Phone); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Erro ao atualizar tenant", err.Error()))
		return
	}
	existingTenant.ChangePlan(request.PlanType, request.MaxBranches)

	if err := c.tenantRepository.Update(ctx, existingTenant); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar tenant", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(existingTenant))
}

// Delete remove um tenant
// @Summary Remove um tenant
// @Description Remove um tenant do sistema
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id} [delete]
func (c *TenantController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID não fornecido", ""))
		return
	}

	if err := c.tenantRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Tenant não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao remover tenant", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Tenant removido com sucesso", nil))
}

// UpdateStatus atualiza o status de um tenant
// @Summary Atualiza o status de um tenant
// @Description Atualiza o status de um tenant (ativo/inativo)
// @Tags tenants
// @Produce json
// @Param id path string true "ID do tenant"
// @Param status path string true "Novo status (active/inactive/blocked)"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tenants/{id}/status/{status} [patch]
func (c *TenantController) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	statusStr := ctx.Param("status")

	if id == "" || statusStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID ou status não fornecido", ""))
		return
	}

	var status tenant.Status
	switch statusStr {
	case "active":
		status = tenant.StatusActive
	case "inactive":
		status = tenant.StatusInactive
	case "blocked":
		status = tenant.StatusBlocked
	default:
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Status inválido", "Valores aceitos: active, inactive, blocked"))
		return
	}

	if err := c.tenantRepository.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Tenant não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar status", err.Error()))
		return
	}

	t, err := c.tenantRepository.FindByID(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar tenant atualizado", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTenantResponse(t))
}

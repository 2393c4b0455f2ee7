package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	inventorydomain "github.com/hugohenrick/pdv-varejo/internal/domain/inventory"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
	"github.com/hugohenrick/pdv-varejo/pkg/tenant"
)

// InventoryController gerencia as requisições de estoque e movimentações
type InventoryController struct {
	inventoryRepo inventorydomain.Repository
	movementRepo  inventorydomain.MovementRepository
	logger        logger.Logger
}

// NewInventoryController cria uma nova instância de InventoryController
func NewInventoryController(inventoryRepo inventorydomain.Repository, movementRepo inventorydomain.MovementRepository, logger logger.Logger) *InventoryController {
	return &InventoryController{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		logger:        logger,
	}
}

// Create cria um registro de estoque para um produto em uma filial
// @Summary Criar estoque
// @Description Cria o registro de estoque de um produto em uma filial
// @Tags inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param inventory body dto.InventoryRequest true "Dados do estoque"
// @Success 201 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventory [post]
func (c *InventoryController) Create(ctx *gin.Context) {
	var req dto.InventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	inv, err := inventorydomain.NewInventory(
		tenant.GetTenantID(ctx),
		req.BranchID,
		req.ProductID,
		req.ProductName,
		req.Quantity,
		req.MinStock,
		req.MaxStock,
		req.ReorderPoint,
		req.CostPrice,
	)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar estoque", err.Error()))
		return
	}

	if err := c.inventoryRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrInventoryDuplicate) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "já existe estoque para este produto na filial", err.Error()))
			return
		}
		c.logger.Error("erro ao criar estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar estoque", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToInventoryResponse(inv))
}

// Get retorna o estoque de um produto em uma filial
// @Summary Buscar estoque
// @Description Retorna o estoque de um produto em uma filial
// @Tags inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param product_id path string true "ID do produto"
// @Param branch_id path string true "ID da filial"
// @Success 200 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventory/{branch_id}/{product_id} [get]
func (c *InventoryController) Get(ctx *gin.Context) {
	productID := ctx.Param("product_id")
	branchID := ctx.Param("branch_id")
	if productID == "" || branchID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "produto e filial são obrigatórios", ""))
		return
	}

	inv, err := c.inventoryRepo.FindByProductAndBranch(ctx, productID, branchID)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "estoque não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar estoque", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

// ListByBranch lista o estoque de uma filial
// @Summary Listar estoque da filial
// @Description Retorna o estoque de uma filial paginado
// @Tags inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param branch_id path string true "ID da filial"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.InventoryListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventory/{branch_id} [get]
func (c *InventoryController) ListByBranch(ctx *gin.Context) {
	branchID := ctx.Param("branch_id")
	if branchID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "filial não informada", ""))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	items, err := c.inventoryRepo.ListByBranch(ctx, branchID, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar estoque", err.Error()))
		return
	}

	total, err := c.inventoryRepo.CountByBranch(ctx, branchID)
	if err != nil {
		c.logger.Error("erro ao contar estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao contar estoque", err.Error()))
		return
	}

	totalPages := calculatePages(total, pagination.PageSize)

	ctx.JSON(http.StatusOK, dto.ToInventoryListResponse(items, total, pagination.Page, pagination.PageSize, totalPages))
}

// ListMovements lista as movimentações de um produto em uma filial
// @Summary Listar movimentações
// @Description Retorna as movimentações de estoque de um produto, da mais recente para a mais antiga
// @Tags inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param branch_id path string true "ID da filial"
// @Param product_id path string true "ID do produto"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /inventory/{branch_id}/{product_id}/movements [get]
func (c *InventoryController) ListMovements(ctx *gin.Context) {
	productID := ctx.Param("product_id")
	branchID := ctx.Param("branch_id")
	if productID == "" || branchID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "produto e filial são obrigatórios", ""))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	movements, err := c.movementRepo.ListByProduct(ctx, productID, branchID, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar movimentações", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar movimentações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

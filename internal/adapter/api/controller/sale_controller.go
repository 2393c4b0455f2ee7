package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/hugohenrick/pdv-varejo/internal/service"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
	"github.com/hugohenrick/pdv-varejo/pkg/tenant"
)

// SaleController gerencia as requisições de vendas do PDV
type SaleController struct {
	saleService *service.SaleService
	logger      logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(saleService *service.SaleService, logger logger.Logger) *SaleController {
	return &SaleController{
		saleService: saleService,
		logger:      logger,
	}
}

// Create registra uma venda
// @Summary Registrar venda
// @Description Registra uma venda e dá baixa no estoque dos itens
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	branchID := req.BranchID
	if branchID == "" {
		branchID = ctx.GetString("branch_id")
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	s, err := c.saleService.CreateSale(ctx, service.CreateSaleInput{
		TenantID:   tenant.GetTenantID(ctx),
		BranchID:   branchID,
		CustomerID: req.CustomerID,
		UserID:     ctx.GetString("user_id"),
		Items:      items,
	})
	if err != nil {
		if errors.Is(err, sale.ErrNoItems) || errors.Is(err, sale.ErrInvalidQty) ||
			errors.Is(err, sale.ErrEmptyBranchID) || errors.Is(err, sale.ErrEmptyUserID) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "venda inválida", err.Error()))
			return
		}
		c.logger.Error("erro ao registrar venda", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao registrar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(s))
}

// Get retorna uma venda pelo ID
// @Summary Buscar venda
// @Description Retorna os dados de uma venda pelo ID, incluindo os itens
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	s, err := c.saleService.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar venda", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// List retorna a lista de vendas
// @Summary Listar vendas
// @Description Retorna a lista de vendas paginada
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.SaleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	tenantID := tenant.GetTenantID(ctx)

	sales, total, err := c.saleService.ListSales(ctx, tenantID, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar vendas", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", err.Error()))
		return
	}

	totalPages := calculatePages(total, pagination.PageSize)

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales, total, pagination.Page, pagination.PageSize, totalPages))
}

package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/domain/productreturn"
	"github.com/hugohenrick/pdv-varejo/internal/domain/sale"
	"github.com/hugohenrick/pdv-varejo/internal/service"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
	"github.com/hugohenrick/pdv-varejo/pkg/tenant"
)

// ReturnController gerencia as requisições de devoluções
type ReturnController struct {
	returnService *service.ReturnService
	logger        logger.Logger
}

// NewReturnController cria uma nova instância de ReturnController
func NewReturnController(returnService *service.ReturnService, logger logger.Logger) *ReturnController {
	return &ReturnController{
		returnService: returnService,
		logger:        logger,
	}
}

// Create registra uma nova devolução
// @Summary Criar devolução
// @Description Registra uma devolução validada contra a venda original
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param return body dto.ReturnRequest true "Dados da devolução"
// @Success 201 {object} dto.ReturnResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns [post]
func (c *ReturnController) Create(ctx *gin.Context) {
	var req dto.ReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	items := make([]service.ReturnItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ReturnItemInput{
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
			Condition:  item.Condition,
			Restock:    item.Restock,
		}
	}

	pr, err := c.returnService.CreateReturn(ctx, service.CreateReturnInput{
		TenantID:     tenant.GetTenantID(ctx),
		BranchID:     req.BranchID,
		SaleID:       req.SaleID,
		UserID:       ctx.GetString("user_id"),
		RefundType:   req.RefundType,
		RestockItems: req.RestockItems,
		Notes:        req.Notes,
		Items:        items,
	})
	if err != nil {
		c.respondReturnError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToReturnResponse(pr))
}

// Get retorna uma devolução pelo ID
// @Summary Buscar devolução
// @Description Retorna os dados de uma devolução pelo ID, incluindo os itens
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da devolução"
// @Success 200 {object} dto.ReturnResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns/{id} [get]
func (c *ReturnController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	pr, err := c.returnService.GetReturn(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReturnNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "devolução não encontrada", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar devolução", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar devolução", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReturnResponse(pr))
}

// List retorna a lista de devoluções
// @Summary Listar devoluções
// @Description Retorna a lista de devoluções paginada, com filtros por status, filial, cliente e período
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Número da página"
// @Param size query int false "Tamanho da página"
// @Param status query string false "Status da devolução"
// @Param branch_id query string false "ID da filial"
// @Param customer_id query string false "ID do cliente"
// @Param date_from query string false "Data inicial (RFC3339)"
// @Param date_to query string false "Data final (RFC3339)"
// @Success 200 {object} dto.ReturnListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns [get]
func (c *ReturnController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))

	pagination := dto.GetPagination(page, size)
	offset := (pagination.Page - 1) * pagination.PageSize

	filter, err := parseReturnFilter(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "filtro inválido", err.Error()))
		return
	}

	tenantID := tenant.GetTenantID(ctx)

	returns, total, err := c.returnService.ListReturns(ctx, tenantID, filter, pagination.PageSize, offset)
	if err != nil {
		c.logger.Error("erro ao listar devoluções", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar devoluções", err.Error()))
		return
	}

	totalPages := calculatePages(total, pagination.PageSize)

	ctx.JSON(http.StatusOK, dto.ToReturnListResponse(returns, total, pagination.Page, pagination.PageSize, totalPages))
}

// Update atualiza uma devolução ou aplica uma transição de status
// @Summary Atualizar devolução
// @Description Atualiza observações, tipo de reembolso ou status de uma devolução
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da devolução"
// @Param return body dto.ReturnUpdateRequest true "Alterações"
// @Success 200 {object} dto.ReturnResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns/{id} [put]
func (c *ReturnController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	var req dto.ReturnUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	pr, err := c.returnService.UpdateReturn(ctx, service.UpdateReturnInput{
		ReturnID:   id,
		UserID:     ctx.GetString("user_id"),
		Status:     req.Status,
		RefundType: req.RefundType,
		Notes:      req.Notes,
	})
	if err != nil {
		c.respondReturnError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReturnResponse(pr))
}

// Delete remove uma devolução pendente
// @Summary Excluir devolução
// @Description Remove uma devolução pendente, revertendo a reposição de estoque
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da devolução"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns/{id} [delete]
func (c *ReturnController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "id não informado", ""))
		return
	}

	if err := c.returnService.DeleteReturn(ctx, id, ctx.GetString("user_id")); err != nil {
		c.respondReturnError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Reports retorna o relatório agregado de devoluções
// @Summary Relatório de devoluções
// @Description Retorna totais por status, por tipo de reembolso e produtos mais devolvidos
// @Tags returns
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param date_from query string false "Data inicial (RFC3339)"
// @Param date_to query string false "Data final (RFC3339)"
// @Param branch_id query string false "ID da filial"
// @Param top query int false "Quantidade de produtos no ranking"
// @Success 200 {object} dto.ReturnReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /returns/reports [get]
func (c *ReturnController) Reports(ctx *gin.Context) {
	filter, err := parseReturnFilter(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "filtro inválido", err.Error()))
		return
	}

	topLimit, _ := strconv.Atoi(ctx.DefaultQuery("top", "10"))

	report, err := c.returnService.Reports(ctx, tenant.GetTenantID(ctx), filter, topLimit)
	if err != nil {
		c.logger.Error("erro ao gerar relatório de devoluções", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao gerar relatório", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ReturnReportResponse{
		ByStatus:     report.ByStatus,
		ByRefundType: report.ByRefundType,
		TopProducts:  report.TopProducts,
	})
}

// parseReturnFilter monta o filtro de devoluções a partir da query string
func parseReturnFilter(ctx *gin.Context) (productreturn.ListFilter, error) {
	filter := productreturn.ListFilter{
		Status:     productreturn.Status(ctx.Query("status")),
		BranchID:   ctx.Query("branch_id"),
		CustomerID: ctx.Query("customer_id"),
	}

	if from := ctx.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &t
	}

	if to := ctx.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &t
	}

	return filter, nil
}

// respondReturnError mapeia os erros do fluxo de devoluções para o código
// HTTP apropriado
func (c *ReturnController) respondReturnError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrReturnNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "devolução não encontrada", err.Error()))
	case errors.Is(err, repository.ErrSaleNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
	case errors.Is(err, sale.ErrItemNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "item da venda não encontrado", err.Error()))
	case errors.Is(err, productreturn.ErrNoItems),
		errors.Is(err, productreturn.ErrInvalidQty),
		errors.Is(err, productreturn.ErrInvalidRefund),
		errors.Is(err, productreturn.ErrInvalidStatus):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "devolução inválida", err.Error()))
	case errors.Is(err, productreturn.ErrQtyExceedsSold),
		errors.Is(err, productreturn.ErrInvalidTransition),
		errors.Is(err, productreturn.ErrNotPending):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "operação não permitida", err.Error()))
	default:
		c.logger.Error("erro ao processar devolução", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao processar devolução", err.Error()))
	}
}

package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-varejo/pkg/auth"
	"github.com/hugohenrick/pdv-varejo/pkg/branch"
)

// RegisterSaleRoutes registra as rotas do módulo de vendas. O cabeçalho
// branch-id permite ao PDV operar em uma filial diferente da do operador
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController) {
	sales := r.Group("/sales")
	sales.Use(auth.JWTAuthMiddleware())
	sales.Use(branch.BranchMiddleware())
	{
		sales.POST("", saleController.Create)
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.Get)
	}
}

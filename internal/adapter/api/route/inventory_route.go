package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-varejo/pkg/auth"
)

// RegisterInventoryRoutes registra as rotas do módulo de estoque
func RegisterInventoryRoutes(r *gin.RouterGroup, inventoryController *controller.InventoryController) {
	inventory := r.Group("/inventory")
	inventory.Use(auth.JWTAuthMiddleware())
	{
		inventory.POST("", inventoryController.Create)
		inventory.GET("/:branch_id", inventoryController.ListByBranch)
		inventory.GET("/:branch_id/:product_id", inventoryController.Get)
		inventory.GET("/:branch_id/:product_id/movements", inventoryController.ListMovements)
	}
}

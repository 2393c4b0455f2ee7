package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-varejo/pkg/auth"
	"github.com/hugohenrick/pdv-varejo/pkg/branch"
)

// RegisterReturnRoutes registra as rotas do módulo de devoluções
func RegisterReturnRoutes(r *gin.RouterGroup, returnController *controller.ReturnController) {
	returns := r.Group("/returns")
	returns.Use(auth.JWTAuthMiddleware())
	returns.Use(branch.BranchMiddleware())
	{
		returns.POST("", returnController.Create)
		returns.GET("", returnController.List)
		returns.GET("/reports", returnController.Reports)
		returns.GET("/:id", returnController.Get)
		returns.PUT("/:id", returnController.Update)
		returns.DELETE("/:id", returnController.Delete)
	}
}

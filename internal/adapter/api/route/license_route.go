package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-varejo/pkg/auth"
)

// RegisterLicenseRoutes registra as rotas do módulo de licenças.
// Ativação, verificação e desativação são chamadas pelo instalador do
// cliente e não exigem token
func RegisterLicenseRoutes(r *gin.RouterGroup, licenseController *controller.LicenseController) {
	r.POST("/licenses/activate", licenseController.Activate)
	r.GET("/license/check", licenseController.Check)
	r.POST("/license/check", licenseController.Check)
	r.POST("/licenses/activations/:key/deactivate", licenseController.Deactivate)

	licenses := r.Group("/licenses")
	licenses.Use(auth.JWTAuthMiddleware())
	{
		licenses.POST("", licenseController.Create)
		licenses.GET("", licenseController.List)
		licenses.GET("/:id", licenseController.Get)
		licenses.PATCH("/:id/status/:status", licenseController.UpdateStatus)
		licenses.GET("/:id/activations", licenseController.ListActivations)
		licenses.POST("/hardware-binding", licenseController.UpdateHardwareBinding)
	}
}

// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"invenpos/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Reads are open to any authenticated staff; writes are admin only.
//
// Usage:
//
//	repo := catalog_repo.NewCategoryRepo(txManager)
//	service := category.NewService(repo, txManager, num)
//	handler := handlers.NewCategoryHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/categories"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", middleware.RequireAdmin(), handler.Create)
	group.PUT("/:id", middleware.RequireAdmin(), handler.Update)
	group.DELETE("/:id", middleware.RequireAdmin(), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequireAdmin(), handler.SetDeletionMark)
}

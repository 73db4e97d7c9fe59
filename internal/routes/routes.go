package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantlens/internal/handlers"
)

// RegisterRoutes mounts the API. schemaHandler may be nil when no database is
// configured, in which case the schema routes are not registered.
func RegisterRoutes(router *gin.Engine, plantHandler *handlers.PlantHandler, schemaHandler *handlers.SchemaHandler) {
	api := router.Group("/api")

	plantRoutes := NewPlantRoutes(plantHandler)
	plantRoutes.RegisterRoutes(api)

	if schemaHandler != nil {
		schemaRoutes := NewSchemaRoutes(schemaHandler)
		schemaRoutes.RegisterRoutes(api)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}

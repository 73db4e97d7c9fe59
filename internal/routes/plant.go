package routes

import (
	"github.com/gin-gonic/gin"

	"plantlens/internal/handlers"
)

type PlantRoutes struct {
	handler *handlers.PlantHandler
}

func NewPlantRoutes(handler *handlers.PlantHandler) *PlantRoutes {
	return &PlantRoutes{handler: handler}
}

func (r *PlantRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/identify-plant", r.handler.IdentifyPlant)
}

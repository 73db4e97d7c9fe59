package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plantlens/internal/middlewares"
	"plantlens/internal/responses"
	"plantlens/internal/services"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
	defaultSchema string
	log           *zap.Logger
}

func NewSchemaHandler(schemaService *services.SchemaService, defaultSchema string, log *zap.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		defaultSchema: defaultSchema,
		log:           log,
	}
}

// VisualizeSchema handles GET /api/schema/visualize
func (h *SchemaHandler) VisualizeSchema(c *gin.Context) {
	schema := c.DefaultQuery("schema", h.defaultSchema)

	var buf bytes.Buffer
	if err := h.schemaService.Render(c.Request.Context(), &buf, schema, services.FormatSVG); err != nil {
		middlewares.Logger(c, h.log).Error("schema visualization failed", zap.String("schema", schema), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Failed to visualize schema: "+err.Error())
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// DescribeSchema handles GET /api/schema and returns the tables and
// relationships as JSON.
func (h *SchemaHandler) DescribeSchema(c *gin.Context) {
	schema := c.DefaultQuery("schema", h.defaultSchema)

	loaded, err := h.schemaService.Load(c.Request.Context(), schema)
	if err != nil {
		middlewares.Logger(c, h.log).Error("schema load failed", zap.String("schema", schema), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Failed to read schema: "+err.Error())
		return
	}

	responses.JSON(c, http.StatusOK, loaded)
}

// MermaidSchema handles GET /api/schema/mermaid
func (h *SchemaHandler) MermaidSchema(c *gin.Context) {
	schema := c.DefaultQuery("schema", h.defaultSchema)

	var buf bytes.Buffer
	if err := h.schemaService.Render(c.Request.Context(), &buf, schema, services.FormatMermaid); err != nil {
		middlewares.Logger(c, h.log).Error("mermaid generation failed", zap.String("schema", schema), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Failed to visualize schema: "+err.Error())
		return
	}

	responses.JSON(c, http.StatusOK, gin.H{
		"mermaid": buf.String(),
		"schema":  schema,
	})
}

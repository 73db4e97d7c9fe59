package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plantlens/internal/gemini"
	"plantlens/internal/middlewares"
	"plantlens/internal/responses"
	"plantlens/internal/services"
)

const (
	imageField    = "image"
	maxImageBytes = 2048 * 1024
)

type PlantHandler struct {
	plantService *services.PlantService
	log          *zap.Logger
}

func NewPlantHandler(plantService *services.PlantService, log *zap.Logger) *PlantHandler {
	return &PlantHandler{
		plantService: plantService,
		log:          log,
	}
}

// IdentifyPlant handles POST /api/identify-plant
func (h *PlantHandler) IdentifyPlant(c *gin.Context) {
	log := middlewares.Logger(c, h.log)
	log.Info("Plant identification request received")

	image, mimeType, err := readImage(c)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.Info("Image processed successfully", zap.String("mime_type", mimeType))

	info, err := h.plantService.Identify(c.Request.Context(), image, mimeType)
	if err != nil {
		var providerErr *gemini.ProviderError
		var transportErr *gemini.TransportError
		switch {
		case errors.Is(err, gemini.ErrMissingAPIKey):
			log.Error("Gemini API key is missing")
			responses.Error(c, http.StatusInternalServerError, "API configuration error")
		case errors.As(err, &providerErr):
			log.Error("Gemini API request failed", zap.Int("status", providerErr.StatusCode), zap.String("body", providerErr.Body))
			responses.Error(c, http.StatusInternalServerError, "Failed to identify plant. API response: "+providerErr.Body)
		case errors.As(err, &transportErr):
			log.Error("Error in plant identification", zap.Error(err))
			responses.Error(c, http.StatusInternalServerError, "An unexpected error occurred: "+transportErr.Error())
		default:
			log.Error("Error in plant identification", zap.Error(err))
			responses.Error(c, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
		}
		return
	}

	responses.JSON(c, http.StatusOK, info)
}

// validationError carries a message meant for the client.
type validationError string

func (e validationError) Error() string { return string(e) }

var (
	errImageRequired = validationError("The image field is required.")
	errImageTooLarge = validationError(fmt.Sprintf("The image field must not be greater than %d kilobytes.", maxImageBytes/1024))
	errImageUpload   = validationError("The image failed to upload.")
	errNotAnImage    = validationError("The image field must be an image.")
)

// readImage validates the uploaded image field and returns its bytes and
// detected MIME type.
func readImage(c *gin.Context) ([]byte, string, error) {
	header, err := c.FormFile(imageField)
	if err != nil {
		return nil, "", errImageRequired
	}
	if header.Size > maxImageBytes {
		return nil, "", errImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", errImageUpload
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, "", errImageUpload
	}
	if len(data) > maxImageBytes {
		return nil, "", errImageTooLarge
	}

	mimeType := mimetype.Detect(data).String()
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", errNotAnImage
	}

	return data, mimeType, nil
}

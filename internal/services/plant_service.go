package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"plantlens/internal/models"
)

// ImageIdentifier is the outbound model call; *gemini.Client satisfies it.
type ImageIdentifier interface {
	IdentifyPlant(ctx context.Context, image []byte, mimeType string) (*genai.GenerateContentResponse, error)
}

type PlantService struct {
	identifier ImageIdentifier
	log        *zap.Logger
}

func NewPlantService(identifier ImageIdentifier, log *zap.Logger) *PlantService {
	return &PlantService{
		identifier: identifier,
		log:        log,
	}
}

// Identify sends the image to the model and extracts a PlantInfo from its answer.
// Errors from the model call are returned wrapped, so callers can still match
// the gemini error types.
func (s *PlantService) Identify(ctx context.Context, image []byte, mimeType string) (*models.PlantInfo, error) {
	s.log.Info("Sending request to Gemini API", zap.Int("image_bytes", len(image)), zap.String("mime_type", mimeType))

	resp, err := s.identifier.IdentifyPlant(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("identify plant: %w", err)
	}

	text := ResponseText(resp)
	s.log.Debug("Processing Gemini API response", zap.String("text", text))

	info := ParsePlantInfo(text)
	return &info, nil
}

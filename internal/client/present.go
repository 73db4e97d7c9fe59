package client

import (
	"strings"

	"plantlens/internal/models"
)

const (
	notProvided      = "Not provided"
	noDescription    = "No description available"
	noHealthInfo     = "No health information provided"
	noAdditionalInfo = "No additional information provided"

	boldDelimiter = "**"
)

// StripMarkdown removes bold delimiters and surrounding whitespace.
func StripMarkdown(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, boldDelimiter, ""))
}

func orDefault(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Present maps a PlantInfo onto display values, substituting a placeholder for
// each empty field except the name.
func Present(info models.PlantInfo) models.PlantDisplay {
	return models.PlantDisplay{
		Name:           StripMarkdown(info.Name),
		ScientificName: StripMarkdown(orDefault(info.ScientificName, notProvided)),
		Family:         StripMarkdown(orDefault(info.Family, notProvided)),
		Descript:       StripMarkdown(orDefault(info.Descript, noDescription)),
		Sunlight:       StripMarkdown(orDefault(info.SunlightNeeds, notProvided)),
		Watering:       StripMarkdown(orDefault(info.WateringNeeds, notProvided)),
		CareInstructions: models.CareInstructions{
			Other: StripMarkdown(orDefault(info.CareInstructions, notProvided)),
		},
		PlantHealth:    StripMarkdown(orDefault(info.PlantHealth, noHealthInfo)),
		AdditionalInfo: StripMarkdown(orDefault(info.AdditionalInfo, noAdditionalInfo)),
	}
}

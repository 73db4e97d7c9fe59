package services

import (
	"strings"

	"google.golang.org/genai"

	"plantlens/internal/models"
)

type plantField int

const (
	fieldNone plantField = iota
	fieldName
	fieldScientificName
	fieldFamily
	fieldDescript
	fieldCareInstructions
	fieldSunlightNeeds
	fieldWateringNeeds
	fieldPlantHealth
	fieldAdditionalInfo
)

type sectionMarker struct {
	marker string
	field  plantField
	// inline markers take their value from the rest of the same line
	inline bool
}

// Order matters: the first marker found in a line wins.
var sectionMarkers = []sectionMarker{
	{marker: "Scientific Name:", field: fieldScientificName, inline: true},
	{marker: "Family:", field: fieldFamily, inline: true},
	{marker: "Description:", field: fieldDescript},
	{marker: "Care Instructions:", field: fieldCareInstructions},
	{marker: "Sunlight:", field: fieldSunlightNeeds},
	{marker: "Watering Needs:", field: fieldWateringNeeds},
	{marker: "Plant Health:", field: fieldPlantHealth},
	{marker: "Additional Information:", field: fieldAdditionalInfo},
}

// matchMarker returns the first marker contained in line, ignoring case.
func matchMarker(line string) (sectionMarker, bool) {
	lower := strings.ToLower(line)
	for _, m := range sectionMarkers {
		if strings.Contains(lower, strings.ToLower(m.marker)) {
			return m, true
		}
	}
	return sectionMarker{}, false
}

// ParsePlantInfo maps the model's free-text answer onto a PlantInfo. It never
// fails: text it cannot make sense of leaves fields empty.
func ParsePlantInfo(text string) models.PlantInfo {
	var info models.PlantInfo
	var builders [fieldAdditionalInfo + 1]strings.Builder
	current := fieldNone

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m, ok := matchMarker(line); ok {
			if m.inline {
				value := strings.TrimSpace(strings.ReplaceAll(line, m.marker, ""))
				builders[m.field].Reset()
				builders[m.field].WriteString(value)
			} else {
				current = m.field
			}
			continue
		}

		if current != fieldNone {
			builders[current].WriteString(line)
			builders[current].WriteString("\n")
			continue
		}

		if builders[fieldName].Len() == 0 && !isBlank(line) {
			builders[fieldName].WriteString(line)
		}
	}

	targets := map[plantField]*string{
		fieldName:             &info.Name,
		fieldScientificName:   &info.ScientificName,
		fieldFamily:           &info.Family,
		fieldDescript:         &info.Descript,
		fieldCareInstructions: &info.CareInstructions,
		fieldSunlightNeeds:    &info.SunlightNeeds,
		fieldWateringNeeds:    &info.WateringNeeds,
		fieldPlantHealth:      &info.PlantHealth,
		fieldAdditionalInfo:   &info.AdditionalInfo,
	}
	for field, dst := range targets {
		*dst = strings.TrimSpace(builders[field].String())
	}

	return info
}

// ResponseText returns the text of the first part of the first candidate, or
// "" when the response has none.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return ""
	}
	return content.Parts[0].Text
}

// isBlank reports whether a line is skipped when looking for the name. A line
// holding only "0" is skipped too.
func isBlank(s string) bool {
	return s == "" || s == "0"
}

package models

// PlantInfo is the structured record extracted from the model's free-text answer.
// JSON keys are consumed by the browser client and by internal/client, keep them stable.
type PlantInfo struct {
	Name             string `json:"name"`
	ScientificName   string `json:"scientificName"`
	Family           string `json:"family"`
	Descript         string `json:"descript"`
	CareInstructions string `json:"careInstructions"`
	SunlightNeeds    string `json:"sunlightNeeds"`
	WateringNeeds    string `json:"wateringNeeds"`
	PlantHealth      string `json:"plantHealth"`
	AdditionalInfo   string `json:"additionalInfo"`
}

// CareInstructions groups care text for display
type CareInstructions struct {
	Other string `json:"other"`
}

// PlantDisplay is PlantInfo after the client-side display mapping.
type PlantDisplay struct {
	Name             string           `json:"name"`
	ScientificName   string           `json:"scientificName"`
	Family           string           `json:"family"`
	Descript         string           `json:"descript"`
	Sunlight         string           `json:"sunlight"`
	Watering         string           `json:"watering"`
	CareInstructions CareInstructions `json:"careInstructions"`
	PlantHealth      string           `json:"plantHealth"`
	AdditionalInfo   string           `json:"additionalInfo"`
}

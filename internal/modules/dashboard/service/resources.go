package service

// Resource is a downloadable document or external link on /resources.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	URL         string `json:"url,omitempty"`
}

var resources = []Resource{
	{Title: "Annual Flood Report 2024", Description: "Comprehensive report on last year's flood events and predictions.", Kind: "pdf"},
	{Title: "Hydrology Dataset", Description: "Historical river discharge, rainfall, and water level dataset.", Kind: "csv"},
	{Title: "Flood Safety Guide", Description: "Official guidelines to stay safe during floods.", Kind: "pdf"},
	{Title: "External Links", Description: "Links to government and NGO flood preparedness sites.", Kind: "link", URL: "https://www.who.int/"},
	{Title: "Urban Flood Risk Map", Description: "Visual analysis of urban flood-prone areas.", Kind: "pdf"},
	{Title: "River Basin Study", Description: "Data-driven study of major river basins.", Kind: "csv"},
}

func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

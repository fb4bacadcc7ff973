// Package catalog holds the fixed set of detectable items the simulator
// draws from, with their nominal categories and confidences.
package catalog

import (
	model "github.com/okian/binsight/internal/domain/model"
)

// Template is one catalog entry: an example detectable item with its nominal
// category and confidence. The simulator replaces the confidence with a fresh
// sample per draw.
type Template struct {
	Item       string
	Category   model.WasteCategory
	Confidence float64
}

// templates is the fixed detection catalog.
var templates = []Template{
	{Item: "plastic bottle", Category: model.DryWaste, Confidence: 0.95},
	{Item: "banana peel", Category: model.WetWaste, Confidence: 0.87},
	{Item: "battery", Category: model.DomesticHazardousWaste, Confidence: 0.92},
	{Item: "paper", Category: model.DryWaste, Confidence: 0.89},
	{Item: "apple core", Category: model.WetWaste, Confidence: 0.83},
	{Item: "aluminum can", Category: model.DryWaste, Confidence: 0.91},
	{Item: "expired medicine", Category: model.DomesticHazardousWaste, Confidence: 0.88},
	{Item: "food container", Category: model.WetWaste, Confidence: 0.79},
}

// Templates returns a copy of the detection catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Categories returns the bin categories in display order.
func Categories() []model.WasteCategory {
	return []model.WasteCategory{
		model.DryWaste,
		model.WetWaste,
		model.DomesticHazardousWaste,
	}
}

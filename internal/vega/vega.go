// Package vega builds Vega-Lite specification documents for report rows.
// The CLI never renders anything; it emits the spec as JSON so a notebook
// or viewer can hand it to a Vega-Lite runtime.
package vega

import (
	"github.com/quantifio/codemetrics/schema"
)

// SchemaURL pins the Vega-Lite dialect the specs are written against.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a Vega-Lite specification document with inline data values.
type Spec struct {
	Schema      string   `json:"$schema"`
	Description string   `json:"description,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	Data        Data     `json:"data"`
	Mark        Mark     `json:"mark"`
	Encoding    Encoding `json:"encoding"`
}

// Data holds the inline row values of a spec.
type Data struct {
	Values any `json:"values"`
}

// Mark describes how data points are drawn.
type Mark struct {
	Type    string `json:"type"`
	Tooltip bool   `json:"tooltip,omitempty"`
}

// Encoding maps row fields onto visual channels.
type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Size    *Channel  `json:"size,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel binds one field to one visual channel.
type Channel struct {
	Field     string `json:"field,omitempty"`
	Type      string `json:"type,omitempty"`
	Aggregate string `json:"aggregate,omitempty"`
	Bin       bool   `json:"bin,omitempty"`
	Title     string `json:"title,omitempty"`
	Scale     *Scale `json:"scale,omitempty"`
}

// Scale tunes how field values map onto the channel range.
type Scale struct {
	Type string `json:"type,omitempty"`
	Zero *bool  `json:"zero,omitempty"`
}

// Field types used by the encodings below.
const (
	quantitative = "quantitative"
	nominal      = "nominal"
)

// HotSpotsSpec builds a scatter plot of change frequency against code size,
// with point size carrying the combined score.
func HotSpotsSpec(rows []schema.HotSpotRow) *Spec {
	return &Spec{
		Schema:      SchemaURL,
		Description: "Hot spots: change frequency vs. code size",
		Width:       500,
		Height:      400,
		Data:        Data{Values: rows},
		Mark:        Mark{Type: "point", Tooltip: true},
		Encoding: Encoding{
			X:    &Channel{Field: "changes", Type: quantitative, Title: "Changes"},
			Y:    &Channel{Field: "code", Type: quantitative, Title: "Lines of code"},
			Size: &Channel{Field: "score", Type: quantitative, Title: "Score", Scale: &Scale{Type: "sqrt"}},
			Tooltip: []Channel{
				{Field: "path", Type: nominal},
				{Field: "changes", Type: quantitative},
				{Field: "code", Type: quantitative},
				{Field: "score", Type: quantitative},
			},
		},
	}
}

// AgesSpec builds a binned histogram of file ages in days.
func AgesSpec(rows []schema.AgeRow) *Spec {
	return &Spec{
		Schema:      SchemaURL,
		Description: "Distribution of file ages",
		Width:       500,
		Height:      300,
		Data:        Data{Values: rows},
		Mark:        Mark{Type: "bar", Tooltip: true},
		Encoding: Encoding{
			X: &Channel{Field: "age_days", Type: quantitative, Bin: true, Title: "Age (days)"},
			Y: &Channel{Aggregate: "count", Type: quantitative, Title: "Files"},
		},
	}
}

// CoChangesSpec builds a heatmap of coupling between primary and secondary
// entities.
func CoChangesSpec(rows []schema.CoChangeRow) *Spec {
	return &Spec{
		Schema:      SchemaURL,
		Description: "Co-change coupling",
		Width:       500,
		Height:      500,
		Data:        Data{Values: rows},
		Mark:        Mark{Type: "rect", Tooltip: true},
		Encoding: Encoding{
			X:     &Channel{Field: "primary", Type: nominal, Title: "Primary"},
			Y:     &Channel{Field: "secondary", Type: nominal, Title: "Secondary"},
			Color: &Channel{Field: "coupling", Type: quantitative, Title: "Coupling"},
			Tooltip: []Channel{
				{Field: "primary", Type: nominal},
				{Field: "secondary", Type: nominal},
				{Field: "coupling", Type: quantitative},
				{Field: "cochanges", Type: quantitative},
			},
		},
	}
}

package model

import "github.com/malte-storm/txm-param-calc/internal/optics"

// PlotPrefs holds the display settings of one quantity plot.
type PlotPrefs struct {
	Quantity  string  `json:"quantity"`
	LogY      bool    `json:"log_y"`
	Autoscale bool    `json:"autoscale"`
	YMin      float64 `json:"y_min"`
	YMax      float64 `json:"y_max"`
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Plot preferences restored on startup
	PlotA PlotPrefs `json:"plot_a"`
	PlotB PlotPrefs `json:"plot_b"`

	// Application preferences
	WindowWidth  float32  `json:"window_width"`
	WindowHeight float32  `json:"window_height"`
	LastPresetID string   `json:"last_preset_id"`
	RecentFiles  []string `json:"recent_files"`
	Theme        string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PlotA:        PlotPrefs{Quantity: optics.QEffPixelSize, Autoscale: true},
		PlotB:        PlotPrefs{Quantity: optics.QTotalEff, Autoscale: true},
		WindowWidth:  1280,
		WindowHeight: 840,
		RecentFiles:  []string{},
		Theme:        "system",
	}
}

// Sanitize replaces unusable loaded values with defaults so that a config
// file written by an older or newer release never breaks startup.
func (c AppConfig) Sanitize() AppConfig {
	if _, ok := Info(c.PlotA.Quantity); !ok {
		c.PlotA = PlotPrefs{Quantity: optics.QEffPixelSize, Autoscale: true}
	}
	if _, ok := Info(c.PlotB.Quantity); !ok {
		c.PlotB = PlotPrefs{Quantity: optics.QTotalEff, Autoscale: true}
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		c.WindowWidth = 1280
		c.WindowHeight = 840
	}
	if c.RecentFiles == nil {
		c.RecentFiles = []string{}
	}
	if c.Theme == "" {
		c.Theme = "system"
	}
	return c
}

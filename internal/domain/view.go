package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is rendered in place of values a failed chain could not produce.
const Placeholder = "--"

// PermissionMessage replaces the error text when location access is refused.
const PermissionMessage = "Enable Location Permissions in Settings"

// Trigger names the user action or timer that started a chain.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerRefresh Trigger = "refresh"
	TriggerSearch  Trigger = "search"
	TriggerRandom  Trigger = "random"
)

// View is the renderable outcome of one chain.
type View struct {
	ChainID          string    `json:"chain_id"`
	Trigger          Trigger   `json:"trigger"`
	PlaceLabel       string    `json:"place"`
	Temperature      string    `json:"temperature"`
	Condition        string    `json:"condition"`
	IconID           IconID    `json:"icon_id,omitempty"`
	Icon             []byte    `json:"-"`
	Error            string    `json:"error,omitempty"`
	PermissionDenied bool      `json:"permission_denied,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Failed reports whether the chain ended in an error.
func (v View) Failed() bool {
	return v.Error != ""
}

var titleCaser = cases.Title(language.English)

// NewWeatherView builds the view for a successfully fetched record. place may
// be empty; the record's own name is preferred as the label, matching what
// the provider considers the nearest station.
func NewWeatherView(chainID string, trigger Trigger, place Place, rec WeatherRecord) View {
	label := rec.Name
	if label == "" {
		label = place.Label()
	}
	if label == "" {
		label = Placeholder
	}

	v := View{
		ChainID:     chainID,
		Trigger:     trigger,
		PlaceLabel:  label,
		Temperature: FormatKelvin(rec.Main.Temp),
		Condition:   "empty",
		UpdatedAt:   clock.Now().UTC(),
	}
	if cond, ok := rec.PrimaryCondition(); ok {
		v.Condition = titleCaser.String(cond.Description)
		v.IconID = cond.Icon
	}
	return v
}

// NewErrorView builds the view shown when a chain fails. The place label is
// kept when the failure happened after the place was resolved.
func NewErrorView(chainID string, trigger Trigger, place Place, err error) View {
	label := place.Label()
	if label == "" {
		label = Placeholder
	}
	v := View{
		ChainID:     chainID,
		Trigger:     trigger,
		PlaceLabel:  label,
		Temperature: Placeholder,
		Error:       err.Error(),
		UpdatedAt:   clock.Now().UTC(),
	}
	if errors.Is(err, ErrPermissionDenied) {
		v.PlaceLabel = Placeholder
		v.Error = PermissionMessage
		v.PermissionDenied = true
	}
	return v
}

// FormatKelvin renders a Kelvin temperature as whole degrees Celsius.
func FormatKelvin(k float64) string {
	c := math.Round(k - 273.15)
	if c == 0 {
		c = 0 // normalise -0
	}
	return fmt.Sprintf("%.0f°C", c)
}

package domain

import (
	"encoding/json"
	"math"
)

// missingNameFallback is shown as the place name when the weather payload
// decodes but carries no "name", typically an error payload for a bad API key.
const missingNameFallback = "Error: invalid jsonDictionary! Verify your appID is correct"

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are within their geographic range.
// Out-of-range coordinates are still sent upstream; this is informational.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IconID names a weather condition pictogram, e.g. "01d". It is used verbatim
// as a cache key and as a URL path segment.
type IconID string

// Condition is one entry of the provider's "weather" array.
type Condition struct {
	Icon        IconID `json:"icon"`
	Description string `json:"description"`
}

// Main holds the measured values of a weather observation.
type Main struct {
	Temp float64 `json:"temp"` // Kelvin
}

// WeatherRecord is the decoded current-weather response.
type WeatherRecord struct {
	Name    string      `json:"name"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
}

// PrimaryCondition returns the first condition entry. Providers normally send
// at least one, but an empty list is a legal payload.
func (r WeatherRecord) PrimaryCondition() (Condition, bool) {
	if len(r.Weather) == 0 {
		return Condition{}, false
	}
	return r.Weather[0], true
}

// wireRecord mirrors the JSON body with pointer fields so required members can
// be told apart from zero values.
type wireRecord struct {
	Name    *string      `json:"name"`
	Main    *wireMain    `json:"main"`
	Weather *[]Condition `json:"weather"`
}

type wireMain struct {
	Temp *float64 `json:"temp"`
}

// DecodeWeatherRecord parses a current-weather JSON body. "main.temp" and
// "weather" are required; "name" is optional and falls back to a readable
// hint. The record is only returned when the whole body is well formed.
func DecodeWeatherRecord(data []byte) (WeatherRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return WeatherRecord{}, err
	}
	if w.Main == nil || w.Main.Temp == nil {
		return WeatherRecord{}, &missingFieldError{field: "main.temp"}
	}
	if math.IsNaN(*w.Main.Temp) || math.IsInf(*w.Main.Temp, 0) {
		return WeatherRecord{}, &missingFieldError{field: "main.temp"}
	}
	if w.Weather == nil {
		return WeatherRecord{}, &missingFieldError{field: "weather"}
	}

	rec := WeatherRecord{
		Name:    missingNameFallback,
		Main:    Main{Temp: *w.Main.Temp},
		Weather: *w.Weather,
	}
	if w.Name != nil {
		rec.Name = *w.Name
	}
	return rec, nil
}

type missingFieldError struct {
	field string
}

func (e *missingFieldError) Error() string {
	return "missing or invalid field " + e.field
}

// Place is a named location produced by forward or reverse geocoding.
type Place struct {
	Name       string     `json:"name"`
	Region     string     `json:"region"`
	Coordinate Coordinate `json:"coordinate"`
}

// Label formats the place as "Name, Region", dropping whichever part is empty.
func (p Place) Label() string {
	switch {
	case p.Name != "" && p.Region != "":
		return p.Name + ", " + p.Region
	case p.Name != "":
		return p.Name
	default:
		return p.Region
	}
}

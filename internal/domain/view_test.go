package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func freezeClock(t *testing.T) *clockwork.FakeClock {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })
	return fc
}

func TestNewWeatherView(t *testing.T) {
	fc := freezeClock(t)

	rec := WeatherRecord{
		Name:    "Tokyo",
		Main:    Main{Temp: 295.15},
		Weather: []Condition{{Icon: "01d", Description: "clear sky"}},
	}
	v := NewWeatherView("chain-1", TriggerInitial, Place{Name: "Chiyoda", Region: "Tokyo"}, rec)

	assert.Equal(t, "chain-1", v.ChainID)
	assert.Equal(t, TriggerInitial, v.Trigger)
	assert.Equal(t, "Tokyo", v.PlaceLabel)
	assert.Equal(t, "22°C", v.Temperature)
	assert.Equal(t, "Clear Sky", v.Condition)
	assert.Equal(t, IconID("01d"), v.IconID)
	assert.Equal(t, fc.Now(), v.UpdatedAt)
	assert.False(t, v.Failed())
}

func TestNewWeatherView_NoConditions(t *testing.T) {
	freezeClock(t)

	v := NewWeatherView("chain-2", TriggerRandom, Place{}, WeatherRecord{Main: Main{Temp: 273.15}})

	assert.Equal(t, Placeholder, v.PlaceLabel)
	assert.Equal(t, "0°C", v.Temperature)
	assert.Equal(t, "empty", v.Condition)
	assert.Empty(t, v.IconID)
}

func TestNewWeatherView_FallsBackToPlaceLabel(t *testing.T) {
	freezeClock(t)

	v := NewWeatherView("chain-3", TriggerSearch, Place{Name: "Athens", Region: "Greece"}, WeatherRecord{Main: Main{Temp: 300}})
	assert.Equal(t, "Athens, Greece", v.PlaceLabel)
}

func TestNewErrorView(t *testing.T) {
	freezeClock(t)

	v := NewErrorView("chain-4", TriggerRefresh, Place{Name: "Athens", Region: "Greece"}, &TransportError{Op: "fetch weather", Err: errors.New("connection refused")})

	assert.True(t, v.Failed())
	assert.Equal(t, "Athens, Greece", v.PlaceLabel)
	assert.Equal(t, Placeholder, v.Temperature)
	assert.Contains(t, v.Error, "connection refused")
	assert.False(t, v.PermissionDenied)
}

func TestNewErrorView_PermissionDenied(t *testing.T) {
	freezeClock(t)

	v := NewErrorView("chain-5", TriggerInitial, Place{}, ErrPermissionDenied)

	assert.True(t, v.PermissionDenied)
	assert.Equal(t, PermissionMessage, v.Error)
	assert.Equal(t, Placeholder, v.PlaceLabel)
	assert.Equal(t, Placeholder, v.Temperature)
}

func TestFormatKelvin(t *testing.T) {
	assert.Equal(t, "22°C", FormatKelvin(295.15))
	assert.Equal(t, "0°C", FormatKelvin(273.15))
	assert.Equal(t, "0°C", FormatKelvin(273.0))
	assert.Equal(t, "-10°C", FormatKelvin(263.15))
}

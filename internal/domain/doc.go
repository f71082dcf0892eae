// Package domain models the data exchanged with the OpenWeatherMap current
// weather API and the views rendered from it.
//
// # Weather API
//
// The current-weather endpoint is queried by coordinate:
//
//	GET /data/2.5/weather?lat={lat}&lon={lon}&appid={key}
//
// Only a small subset of the body is used:
//
//	{"main":{"temp":295.15},"weather":[{"icon":"01d","description":"clear sky"}],"name":"Tokyo"}
//
// Temperatures are Kelvin (no "units" parameter is sent) and are rendered as
// rounded Celsius by [FormatKelvin]. "weather" may legally be empty; views then
// show the condition "empty" and no icon.
//
// When the API key is wrong the provider answers with an error object such as
// {"cod":401,"message":"Invalid API key"}. That body lacks "main" and therefore
// fails [DecodeWeatherRecord] with a [DecodeError].
//
// # Icons
//
// Icon identifiers ([IconID]) such as "01d" or "10n" name pictograms served at
//
//	GET /img/w/{icon}.png
//
// and are cached locally as "{icon}.png". Identifiers are never normalised.
//
// # Errors
//
// Every failure maps onto one of the sentinels in errors.go. A chain stops at
// its first failure; nothing is retried.
package domain

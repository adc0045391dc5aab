package weather

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TemperatureMessage renders a temperature for display. Celsius values get a
// qualitative message picked by half-open bands; other units are printed bare.
func TemperatureMessage(temperature float64, unit string) string {
	t := formatNumber(temperature)
	if unit != UnitCelsius {
		return fmt.Sprintf("%s°%s", t, unit)
	}

	switch {
	case temperature < 0:
		return fmt.Sprintf("It's freezing at %s°C! Bundle up!", t)
	case temperature < 10:
		return fmt.Sprintf("It's quite cold at %s°C. Wear warm clothes.", t)
	case temperature < 20:
		return fmt.Sprintf("The temperature is %s°C. Comfortable for light jacket.", t)
	case temperature < 30:
		return fmt.Sprintf("It's a pleasant %s°C. Enjoy the nice weather.", t)
	default:
		return fmt.Sprintf("It's hot at %s°C. Stay hydrated!", t)
	}
}

var conditionSentences = map[string]string{
	"sunny":         "It's a beautiful sunny day!",
	"partly cloudy": "Expect some clouds and sunshine.",
	"cloudy":        "It's cloudy today.",
	"overcast":      "The sky is overcast.",
	"rain":          "Don't forget your umbrella! It's raining.",
	"thunderstorm":  "Thunderstorms are expected today.",
	"snow":          "Bundle up! It's snowing.",
	"mist":          "It's misty outside.",
	"fog":           "Be careful, there's fog outside.",
}

// DescribeCondition maps a provider condition text onto a canned sentence.
// Matching is case-insensitive on the whole string; anything else is returned as is.
func DescribeCondition(description string) string {
	if s, ok := conditionSentences[strings.ToLower(description)]; ok {
		return s
	}
	return description
}

// LocationLabel suffixes the location with "Day" or "Night" based on the hour
// of now: hours 7 through 18 are Day. The provider's local time is not
// consulted, so searches in other time zones use the server's clock.
func LocationLabel(location string, now time.Time) string {
	h := now.Hour()
	if h > 6 && h <= 18 {
		return location + " Day"
	}
	return location + " Night"
}

func formatNumber(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

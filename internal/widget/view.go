package widget

import "github.com/i474232898/weather-widget/internal/weather"

// View is a State rendered into display strings.
type View struct {
	Query       string `json:"query"`
	Error       string `json:"error,omitempty"`
	Loading     bool   `json:"loading"`
	ButtonLabel string `json:"buttonLabel"`

	// Result lines; all empty when there is no weather record.
	Temperature string `json:"temperature,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	Weather *weather.Record `json:"weather,omitempty"`
}

// HasWeather reports whether the result card should be shown.
func (v View) HasWeather() bool {
	return v.Weather != nil
}

// View renders the current state using the widget's clock for the day/night label.
func (w *Widget) View() View {
	return Render(w.State(), w.clock)
}

// Render renders s, typically a State returned by Submit, with the widget's clock.
func (w *Widget) Render(s State) View {
	return Render(s, w.clock)
}

// Render turns a State into a View.
func Render(s State, clock weather.Clock) View {
	v := View{
		Query:       s.Query,
		Error:       s.Error,
		Loading:     s.Loading,
		ButtonLabel: "Search",
		Weather:     s.Weather,
	}
	if s.Loading {
		v.ButtonLabel = "Loading..."
	}

	if rec := s.Weather; rec != nil {
		v.Temperature = weather.TemperatureMessage(rec.Temperature, rec.Unit)
		v.Description = weather.DescribeCondition(rec.Description)
		v.Location = weather.LocationLabel(rec.Location, clock())
	}
	return v
}

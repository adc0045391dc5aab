package httpapi

import (
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/widget"
)

var pageTemplate = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Weather Widget</title>
</head>
<body>
<main class="card">
  <h1>Weather Widget</h1>
  <p>Search for the current weather condition in your city.</p>
  <form method="post" action="/search">
    <input type="text" name="location" placeholder="Enter your city" value="{{.Query}}">
    <button type="submit"{{if .Loading}} disabled{{end}}>{{.ButtonLabel}}</button>
  </form>
  {{- if .Error}}
  <div class="error">{{.Error}}</div>
  {{- end}}
  {{- if .HasWeather}}
  <div class="result">
    <div class="temperature">{{.Temperature}}</div>
    <div class="description">{{.Description}}</div>
    <div class="location">{{.Location}}</div>
  </div>
  {{- end}}
</main>
</body>
</html>
`))

func renderPage(c *fiber.Ctx, v widget.View) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return pageTemplate.Execute(c, v)
}

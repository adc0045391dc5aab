package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the page and the JSON API into the Fiber app. Every
// client gets its own widget, keyed by the session cookie.
func RegisterRoutes(app *fiber.App, registry *session.Registry, cookies *fibersession.Store) {
	current := func(c *fiber.Ctx) (*session.Session, error) {
		sess, err := cookies.Get(c)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
		}
		id := sess.ID()
		// Save refreshes the cookie expiry and releases sess.
		if err := sess.Save(); err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to save session")
		}
		return registry.Get(id), nil
	}

	app.Get("/", func(c *fiber.Ctx) error {
		s, err := current(c)
		if err != nil {
			return err
		}
		return renderPage(c, s.Widget.View())
	})

	app.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		req.Location = c.FormValue("location")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := current(c)
		if err != nil {
			return err
		}
		st := s.Widget.Search(c.UserContext(), req.Location)
		return renderPage(c, s.Widget.Render(st))
	})

	v1 := app.Group("/api/v1")

	v1.Get("/widget", func(c *fiber.Ctx) error {
		s, err := current(c)
		if err != nil {
			return err
		}
		return c.JSON(s.Widget.View())
	})

	v1.Post("/widget/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := current(c)
		if err != nil {
			return err
		}
		// Render the state this search settled with; a later search from the
		// same session may already be pending.
		st := s.Widget.Search(c.UserContext(), req.Location)
		return c.JSON(s.Widget.Render(st))
	})

	v1.Get("/widget/history", func(c *fiber.Ctx) error {
		q := historyQuery{Limit: c.QueryInt("limit", 0)}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s, err := current(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"entries": s.History.Recent(q.Limit),
		})
	})

	v1.Get("/widget/history/latest", func(c *fiber.Ctx) error {
		s, err := current(c)
		if err != nil {
			return err
		}

		entry, err := s.History.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no lookups recorded for this session")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read history")
		}
		return c.JSON(entry)
	})
}

// searchRequest carries the raw input box text. Blank input is let through so
// the widget answers with its own validation message.
type searchRequest struct {
	Location string `json:"location" form:"location" validate:"max=256"`
}

// historyQuery holds query parameters for the history endpoint; 0 means all.
type historyQuery struct {
	Limit int `validate:"gte=0,lte=100"`
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"skilllist/backend/config"
	"skilllist/backend/controllers"
	"skilllist/backend/middleware"
	"skilllist/backend/render"
	"skilllist/backend/services"
	"skilllist/backend/storage"
)

func SetupRoutes(app *fiber.App, kv storage.KVStore, cfg *config.Config, log *logrus.Logger) error {
	courses := services.NewCourseService(storage.NewCourseStore(kv, cfg.StorageKey, log), log)
	renderer, err := render.NewRenderer(courses)
	if err != nil {
		return errors.Wrap(err, "setup renderer")
	}
	sessions := middleware.NewSessionStore(cfg.SessionTTL)
	widget := controllers.NewWidgetController(courses, renderer, sessions, log)
	progress := controllers.NewProgressController(courses)

	// Page routes
	app.Get("/", widget.Page)
	app.Get("/table", widget.Table)

	// Course mutations
	app.Post("/courses", widget.AddCourse)
	app.Post("/courses/:index/update", widget.BeginUpdate)
	app.Post("/courses/:index/delete", widget.BeginDelete)
	app.Post("/update/confirm", widget.ConfirmUpdate)
	app.Post("/delete/confirm", widget.ConfirmDelete)

	// Overlay controls
	modal := app.Group("/modal")
	modal.Post("/cancel", widget.Cancel)
	modal.Post("/key", widget.Key)
	modal.Post("/dismiss", widget.Dismiss)

	// JSON views
	api := app.Group("/api")
	api.Get("/courses", widget.ListCourses)
	api.Get("/state", widget.State)
	api.Get("/progress/overview", progress.GetProgressOverview)

	return nil
}

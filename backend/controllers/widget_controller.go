package controllers

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"skilllist/backend/models"
	"skilllist/backend/render"
	"skilllist/backend/services"
	"skilllist/backend/ui"
	"skilllist/backend/utils"
)

const (
	sessionView   = "view"
	sessionIndex  = "active_index"
	sessionNotice = "notice"
)

// WidgetController serves the course widget. Browser forms get a 303 back
// to the page; clients sending Accept: application/json get the new state
// and table instead.
type WidgetController struct {
	Courses  *services.CourseService
	UI       *ui.Controller
	Renderer *render.Renderer
	Sessions *session.Store
	Log      *logrus.Logger
}

func NewWidgetController(courses *services.CourseService, renderer *render.Renderer, sessions *session.Store, log *logrus.Logger) *WidgetController {
	return &WidgetController{
		Courses:  courses,
		UI:       ui.NewController(courses, log),
		Renderer: renderer,
		Sessions: sessions,
		Log:      log,
	}
}

// Page renders the whole widget.
func (wc *WidgetController) Page(c *fiber.Ctx) error {
	sess, err := wc.Sessions.Get(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not load session")
	}
	ctx := c.UserContext()
	st := loadState(sess)

	var prompt ui.UpdatePrompt
	if index, ok := st.Active(); ok && st.IsOpen(ui.ViewUpdate) {
		course, err := wc.Courses.Get(ctx, index)
		if err != nil {
			st = wc.UI.Cancel(st)
		} else {
			prompt = ui.Prompt(course)
		}
	}
	if st.IsOpen(ui.ViewDelete) {
		if _, err := wc.Courses.Get(ctx, st.ActiveIndex); err != nil {
			st = wc.UI.Cancel(st)
		}
	}

	notice, _ := sess.Get(sessionNotice).(string)
	sess.Delete(sessionNotice)
	storeState(sess, st)
	if err := sess.Save(); err != nil {
		return utils.InternalServerError(c, "Could not save session")
	}

	var buf bytes.Buffer
	if err := wc.Renderer.Page(ctx, &buf, render.PageData{State: st, Prompt: prompt, Notice: notice}); err != nil {
		wc.Log.WithError(err).Error("render page")
		return utils.InternalServerError(c, "Could not render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Table renders the table body and empty-state indicator only.
func (wc *WidgetController) Table(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := wc.Renderer.Fragment(c.UserContext(), &buf); err != nil {
		wc.Log.WithError(err).Error("render table")
		return utils.InternalServerError(c, "Could not render table")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// ListCourses returns the table view as JSON.
func (wc *WidgetController) ListCourses(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, wc.Renderer.Table(c.UserContext()))
}

// State returns the caller's overlay state.
func (wc *WidgetController) State(c *fiber.Ctx) error {
	sess, err := wc.Sessions.Get(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not load session")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"state": loadState(sess)})
}

func (wc *WidgetController) AddCourse(c *fiber.Ctx) error {
	var input models.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse course")
	}

	course, err := wc.Courses.Add(c.UserContext(), input)
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		return st, fiber.Map{"course": course}, err
	}, fiber.StatusCreated)
}

func (wc *WidgetController) BeginUpdate(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course index")
	}
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		next, prompt, err := wc.UI.BeginUpdate(c.UserContext(), st, index)
		return next, fiber.Map{"prompt": prompt}, err
	}, fiber.StatusOK)
}

func (wc *WidgetController) ConfirmUpdate(c *fiber.Ctx) error {
	var input models.CompletionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse completion")
	}
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		next, err := wc.UI.ConfirmUpdate(c.UserContext(), st, input.Completed)
		return next, nil, err
	}, fiber.StatusOK)
}

func (wc *WidgetController) BeginDelete(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course index")
	}
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		next, err := wc.UI.BeginDelete(c.UserContext(), st, index)
		return next, nil, err
	}, fiber.StatusOK)
}

func (wc *WidgetController) ConfirmDelete(c *fiber.Ctx) error {
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		next, err := wc.UI.ConfirmDelete(c.UserContext(), st)
		return next, nil, err
	}, fiber.StatusOK)
}

func (wc *WidgetController) Cancel(c *fiber.Ctx) error {
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		return wc.UI.Cancel(st), nil, nil
	}, fiber.StatusOK)
}

func (wc *WidgetController) Key(c *fiber.Ctx) error {
	var input struct {
		Key       string `json:"key" form:"key"`
		Completed string `json:"completed" form:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse key event")
	}
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		next, err := wc.UI.HandleKey(c.UserContext(), st, input.Key, input.Completed)
		return next, nil, err
	}, fiber.StatusOK)
}

func (wc *WidgetController) Dismiss(c *fiber.Ctx) error {
	var input struct {
		View string `json:"view" form:"view"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse view")
	}
	return wc.respond(c, func(st ui.State) (ui.State, fiber.Map, error) {
		return wc.UI.Dismiss(st, ui.ParseView(input.View)), nil, nil
	}, fiber.StatusOK)
}

// respond applies op to the caller's session state, stores the result and
// answers with a redirect or JSON.
func (wc *WidgetController) respond(c *fiber.Ctx, op func(ui.State) (ui.State, fiber.Map, error), status int) error {
	sess, err := wc.Sessions.Get(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not load session")
	}

	next, data, opErr := op(loadState(sess))
	storeState(sess, next)
	if opErr != nil && !wantsJSON(c) {
		sess.Set(sessionNotice, services.UserMessage(opErr))
	}
	if err := sess.Save(); err != nil {
		return utils.InternalServerError(c, "Could not save session")
	}

	if opErr != nil {
		return wc.fail(c, opErr)
	}
	if !wantsJSON(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	if data == nil {
		data = fiber.Map{}
	}
	data["state"] = next
	data["table"] = wc.Renderer.Table(c.UserContext())
	return utils.Success(c, status, data)
}

func (wc *WidgetController) fail(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	isValidation := errors.As(err, &verr)
	notFound := errors.Cause(err) == services.ErrCourseNotFound
	if !isValidation && !notFound {
		wc.Log.WithError(err).Error("course operation failed")
	}

	if !wantsJSON(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	switch {
	case isValidation:
		return utils.ValidationError(c, services.UserMessage(err), verr.Fields)
	case notFound:
		return utils.NotFound(c, services.UserMessage(err))
	}
	return utils.InternalServerError(c, services.UserMessage(err))
}

func loadState(sess *session.Session) ui.State {
	view, _ := sess.Get(sessionView).(string)
	index, ok := sess.Get(sessionIndex).(int)
	st := ui.State{View: ui.ParseView(view), ActiveIndex: index, HasActive: ok}
	if st.View == ui.ViewNone || !st.HasActive {
		return ui.State{}
	}
	return st
}

func storeState(sess *session.Session, st ui.State) {
	if index, ok := st.Active(); ok && st.View != ui.ViewNone {
		sess.Set(sessionView, string(st.View))
		sess.Set(sessionIndex, index)
		return
	}
	sess.Delete(sessionView)
	sess.Delete(sessionIndex)
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

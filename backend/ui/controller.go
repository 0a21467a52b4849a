package ui

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"skilllist/backend/models"
	"skilllist/backend/services"
)

const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// Courses is the set of course operations the overlays drive.
type Courses interface {
	Get(ctx context.Context, index int) (models.Course, error)
	SetCompletion(ctx context.Context, index int, completed string) error
	Remove(ctx context.Context, index int) error
}

// UpdatePrompt pre-fills the update overlay.
type UpdatePrompt struct {
	CourseName string `json:"courseName"`
	Completed  string `json:"completed"`
}

// Controller drives the update and delete overlays. It holds no per-client
// state: every call takes the current State and returns the next one.
type Controller struct {
	Courses Courses
	Log     *logrus.Logger
}

func NewController(courses Courses, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
	}
	return &Controller{Courses: courses, Log: log}
}

// BeginUpdate opens the update overlay for the course at index.
func (c *Controller) BeginUpdate(ctx context.Context, st State, index int) (State, UpdatePrompt, error) {
	course, err := c.Courses.Get(ctx, index)
	if err != nil {
		return st, UpdatePrompt{}, err
	}
	return open(ViewUpdate, index), Prompt(course), nil
}

// Prompt is the update overlay content for course.
func Prompt(course models.Course) UpdatePrompt {
	completed := course.Completed
	if completed == "" {
		completed = "0"
	}
	return UpdatePrompt{CourseName: course.CourseName, Completed: completed}
}

// ConfirmUpdate writes completed onto the active course. Without an open
// update overlay it does nothing. A rejected value keeps the overlay open.
func (c *Controller) ConfirmUpdate(ctx context.Context, st State, completed string) (State, error) {
	index, ok := st.Active()
	if !ok || !st.IsOpen(ViewUpdate) {
		c.Log.Debug("confirm update without active course ignored")
		return st, nil
	}

	err := c.Courses.SetCompletion(ctx, index, completed)
	switch errors.Cause(err) {
	case nil:
		return closed(), nil
	case services.ErrCourseNotFound:
		return closed(), err
	}
	return st, err
}

// BeginDelete opens the delete confirmation for the course at index.
func (c *Controller) BeginDelete(ctx context.Context, st State, index int) (State, error) {
	if _, err := c.Courses.Get(ctx, index); err != nil {
		return st, err
	}
	return open(ViewDelete, index), nil
}

// ConfirmDelete removes the active course. Without an open delete overlay
// it does nothing.
func (c *Controller) ConfirmDelete(ctx context.Context, st State) (State, error) {
	index, ok := st.Active()
	if !ok || !st.IsOpen(ViewDelete) {
		c.Log.Debug("confirm delete without active course ignored")
		return st, nil
	}

	err := c.Courses.Remove(ctx, index)
	switch errors.Cause(err) {
	case nil:
		return closed(), nil
	case services.ErrCourseNotFound:
		return closed(), err
	}
	return st, err
}

// Cancel closes whichever overlay is open.
func (c *Controller) Cancel(st State) State {
	return closed()
}

// HandleKey applies the overlay keyboard shortcuts: Enter confirms an open
// update overlay with completed, Escape closes any open overlay.
func (c *Controller) HandleKey(ctx context.Context, st State, key, completed string) (State, error) {
	switch key {
	case KeyEnter:
		if st.IsOpen(ViewUpdate) {
			return c.ConfirmUpdate(ctx, st, completed)
		}
	case KeyEscape:
		if st.View != ViewNone {
			return c.Cancel(st), nil
		}
	}
	return st, nil
}

// Dismiss handles a click outside the overlay v; it closes v only if v is
// the one open.
func (c *Controller) Dismiss(st State, v View) State {
	if st.IsOpen(v) {
		return c.Cancel(st)
	}
	return st
}

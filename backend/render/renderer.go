package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/pkg/errors"
	"skilllist/backend/models"
	"skilllist/backend/ui"
	"skilllist/backend/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// CourseLister reads the current course list.
type CourseLister interface {
	List(ctx context.Context) []models.Course
}

type Row struct {
	Index       int    `json:"index"`
	Position    int    `json:"position"`
	CourseName  string `json:"courseName"`
	Platform    string `json:"platform"`
	Link        string `json:"link"`
	TotalVideos string `json:"totalVideos"`
	Completed   string `json:"completed"`
	PercentDone int    `json:"percentDone"`
	PercentLeft int    `json:"percentLeft"`
}

// AnimationDelay staggers row fade-in by position.
func (r Row) AnimationDelay() string {
	return fmt.Sprintf("%.1fs", float64(r.Index)/10)
}

type TableView struct {
	Count int   `json:"count"`
	Empty bool  `json:"empty"`
	Rows  []Row `json:"rows"`
}

// PageData is everything besides the course list that the page shows.
type PageData struct {
	State  ui.State
	Prompt ui.UpdatePrompt
	Notice string
}

type pageView struct {
	PageData
	Table      TableView
	UpdateOpen bool
	DeleteOpen bool
}

type Renderer struct {
	Courses CourseLister
	tmpl    *template.Template
}

func NewRenderer(courses CourseLister) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Renderer{Courses: courses, tmpl: tmpl}, nil
}

// Table builds the table view from the stored course list.
func (r *Renderer) Table(ctx context.Context) TableView {
	courses := r.Courses.List(ctx)
	view := TableView{
		Count: len(courses),
		Empty: len(courses) == 0,
		Rows:  make([]Row, 0, len(courses)),
	}
	for i, c := range courses {
		completed := c.Completed
		if completed == "" {
			completed = "0"
		}
		view.Rows = append(view.Rows, Row{
			Index:       i,
			Position:    i + 1,
			CourseName:  c.CourseName,
			Platform:    c.Platform,
			Link:        c.Link,
			TotalVideos: c.TotalVideos,
			Completed:   completed,
			PercentDone: utils.PercentDone(c.Completed, c.TotalVideos),
			PercentLeft: utils.PercentLeft(c.Completed, c.TotalVideos),
		})
	}
	return view
}

// Page writes the whole widget document.
func (r *Renderer) Page(ctx context.Context, w io.Writer, data PageData) error {
	view := pageView{
		PageData:   data,
		Table:      r.Table(ctx),
		UpdateOpen: data.State.IsOpen(ui.ViewUpdate),
		DeleteOpen: data.State.IsOpen(ui.ViewDelete),
	}
	return errors.Wrap(r.tmpl.ExecuteTemplate(w, "page", view), "render page")
}

// Fragment writes only the table body and empty-state indicator.
func (r *Renderer) Fragment(ctx context.Context, w io.Writer) error {
	return errors.Wrap(r.tmpl.ExecuteTemplate(w, "table", r.Table(ctx)), "render table")
}

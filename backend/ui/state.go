package ui

// View names an overlay of the widget.
type View string

const (
	ViewNone   View = ""
	ViewUpdate View = "update"
	ViewDelete View = "delete"
)

// State is the modal state of one client: the open overlay and the course
// index it targets. The zero value has no overlay open and no active index.
type State struct {
	View        View `json:"view"`
	ActiveIndex int  `json:"activeIndex"`
	HasActive   bool `json:"hasActive"`
}

func (s State) IsOpen(v View) bool {
	return v != ViewNone && s.View == v
}

// Active returns the targeted index, if any.
func (s State) Active() (int, bool) {
	return s.ActiveIndex, s.HasActive
}

func open(v View, index int) State {
	return State{View: v, ActiveIndex: index, HasActive: true}
}

func closed() State {
	return State{}
}

// ParseView maps a request value to a View; unknown names map to ViewNone.
func ParseView(name string) View {
	switch View(name) {
	case ViewUpdate:
		return ViewUpdate
	case ViewDelete:
		return ViewDelete
	}
	return ViewNone
}

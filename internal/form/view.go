package form

import (
	"github.com/wichananm65/smoothie-order-form/internal/order"
)

// Notice levels, rendered as CSS classes.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notice is a message for the person filling in the form. It never carries
// raw error text.
type Notice struct {
	Level   string
	Message string
}

type Option struct {
	Name     string
	Selected bool
}

// Panel is the nutrition block shown under each selected fruit.
type Panel struct {
	Fruit      string
	LookupKey  string
	Available  bool
	StatusCode int
	JSON       string
	Notice     string
}

// View is everything the page needs to render one response.
type View struct {
	Options       []Option
	Disabled      bool
	NameOnOrder   string
	NameEcho      string
	Selected      []string
	Panels        []Panel
	Notices       []Notice
	MaxSelections int
	CanSubmit     bool
	Order         *order.PersistedOrder
}

func (v *View) notice(level, msg string) {
	v.Notices = append(v.Notices, Notice{Level: level, Message: msg})
}

// HasNotice reports whether the view carries a notice at level.
func (v View) HasNotice(level string) bool {
	for _, n := range v.Notices {
		if n.Level == level {
			return true
		}
	}
	return false
}

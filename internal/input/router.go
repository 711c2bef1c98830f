// Package input turns raw keyboard and mouse events into viewer commands.
package input

import (
	"strings"

	"github.com/rs/zerolog"
)

// Command is a discrete viewer command.
type Command int

const (
	AdvancePage Command = iota
	RetreatPage
	ZoomInAtOrigin
	ZoomOutAtOrigin
	ToggleAlternateMode
	OpenJob
	ShowContextMenu
	Quit
)

var commandNames = [...]string{
	AdvancePage:         "advance-page",
	RetreatPage:         "retreat-page",
	ZoomInAtOrigin:      "zoom-in-at-origin",
	ZoomOutAtOrigin:     "zoom-out-at-origin",
	ToggleAlternateMode: "toggle-alternate-reading-mode",
	OpenJob:             "open-new-job",
	ShowContextMenu:     "show-context-menu",
	Quit:                "quit",
}

func (c Command) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// CommandForKey maps a key name to its command. Names are matched without
// regard to case; unknown keys open the context menu.
func CommandForKey(name string) Command {
	switch strings.ToLower(name) {
	case "pagedown", "next":
		return AdvancePage
	case "pageup", "prior":
		return RetreatPage
	case "z":
		return ZoomInAtOrigin
	case "x":
		return ZoomOutAtOrigin
	case "r":
		return ToggleAlternateMode
	case "o":
		return OpenJob
	case "q":
		return Quit
	}
	return ShowContextMenu
}

// Button is a mouse button.
type Button int

const (
	ButtonPrimary Button = 1 << iota
	ButtonSecondary
	ButtonTertiary
)

// Modifier is a set of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Target is the view state the router drives.
type Target interface {
	NextPage()
	PrevPage()
	ZoomInAtOrigin()
	ZoomOutAtOrigin()
	ZoomIn(x, y float64)
	ZoomOut(x, y float64)
	ToggleAlternateMode()
	Pan(dx, dy float64)
	Recenter()
}

// Shell carries out the commands that leave the view state alone.
type Shell interface {
	OpenJob()
	ShowContextMenu(x, y float64)
	Quit()
}

// menuPos is where a key-invoked context menu appears.
const menuPos = 50

// Router dispatches input events. It keeps the state of the drag gesture in
// progress; it is not safe for concurrent use and belongs to the goroutine
// delivering input events.
type Router struct {
	target    Target
	shell     Shell
	popupMenu bool
	log       zerolog.Logger

	dragging         bool
	anchorX, anchorY float64
	offX, offY       float64

	// set by a recentering press, consumed by the matching release
	recentered bool
}

// Option configures a Router.
type Option func(*Router)

// WithoutPopupMenu makes the secondary button zoom at the pointer instead
// of opening the context menu; with Shift held it zooms out.
func WithoutPopupMenu() Option {
	return func(r *Router) {
		r.popupMenu = false
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// NewRouter returns a router driving t and s.
func NewRouter(t Target, s Shell, opts ...Option) *Router {
	r := &Router{target: t, shell: s, popupMenu: true, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key handles a typed key and returns the command it ran.
func (r *Router) Key(name string) Command {
	c := CommandForKey(name)
	r.log.Debug().Str("key", name).Stringer("command", c).Msg("key")
	r.Dispatch(c)
	return c
}

// Dispatch runs c.
func (r *Router) Dispatch(c Command) {
	switch c {
	case AdvancePage:
		r.target.NextPage()
	case RetreatPage:
		r.target.PrevPage()
	case ZoomInAtOrigin:
		r.target.ZoomInAtOrigin()
	case ZoomOutAtOrigin:
		r.target.ZoomOutAtOrigin()
	case ToggleAlternateMode:
		r.target.ToggleAlternateMode()
	case OpenJob:
		r.shell.OpenJob()
	case Quit:
		r.shell.Quit()
	default:
		r.shell.ShowContextMenu(menuPos, menuPos)
	}
}

// Press handles a mouse button going down at (x, y).
func (r *Router) Press(b Button, m Modifier, x, y float64) {
	if m&ModControl != 0 {
		if b&(ButtonPrimary|ButtonSecondary) != 0 {
			r.recentered = true
			r.target.Recenter()
		}
		return
	}

	switch b {
	case ButtonPrimary:
		r.dragging = true
		r.anchorX, r.anchorY = x, y
		r.offX, r.offY = 0, 0
	case ButtonSecondary, ButtonTertiary:
		if r.popupMenu {
			return
		}
		if m&ModShift != 0 {
			r.target.ZoomOut(x, y)
		} else {
			r.target.ZoomIn(x, y)
		}
	}
}

// Motion handles the pointer moving to (x, y). During a drag it only
// updates the preview offset; no page is requested.
func (r *Router) Motion(x, y float64) {
	if !r.dragging {
		return
	}
	r.offX, r.offY = x-r.anchorX, y-r.anchorY
}

// Release handles a mouse button going up at (x, y). A drag in progress
// ends with a single pan by the whole gesture. The release of a
// recentering press does nothing.
func (r *Router) Release(b Button, m Modifier, x, y float64) {
	if r.dragging && m&ModControl == 0 {
		r.dragging = false
		r.offX, r.offY = 0, 0
		r.target.Pan(r.anchorX-x, r.anchorY-y)
		return
	}
	if r.recentered || m&ModControl != 0 {
		r.recentered = false
		return
	}
	if b&(ButtonSecondary|ButtonTertiary) != 0 && r.popupMenu {
		r.shell.ShowContextMenu(x, y)
	}
}

// Dragging reports whether a drag gesture is in progress.
func (r *Router) Dragging() bool {
	return r.dragging
}

// Preview returns how far the page image should be shifted while a drag
// is in progress.
func (r *Router) Preview() (dx, dy float64) {
	return r.offX, r.offY
}

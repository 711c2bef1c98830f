package gui

import (
	"fyne.io/fyne/v2"

	"gview/internal/input"
	"gview/pkg/viewer"
)

var zoomRatios = []struct {
	label  string
	factor float64
}{
	{"1:8", 1 / 8.0},
	{"1:4", 1 / 4.0},
	{"1:2", 1 / 2.0},
	{"1:1", 1},
	{"2:1", 2},
	{"4:1", 4},
	{"8:1", 8},
}

var zoomResolutions = []struct {
	label string
	res   float64
}{
	{"25 dpi", 25},
	{"72 dpi", 72},
	{"100 dpi", 100},
	{"300 dpi", 300},
	{"600 dpi", 600},
	{"1200 dpi", 1200},
	{"2400 dpi", 2400},
}

// newContextMenu builds the popup menu for the session's current state.
func newContextMenu(s *viewer.Session, sh input.Shell) *fyne.Menu {
	file := fyne.NewMenuItem("File", nil)
	file.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Open", sh.OpenJob),
		fyne.NewMenuItem("Quit", sh.Quit),
	)

	res := fyne.NewMenuItem(s.ResLabel(), nil)
	res.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Decrease Resolution", s.DecreaseStartingRes),
		fyne.NewMenuItem("Increase Resolution", s.IncreaseStartingRes),
	)
	textAlpha := fyne.NewMenuItem("TextAntiAlias", func() { s.SetTextAlpha(!s.TextAlpha()) })
	textAlpha.Checked = s.TextAlpha()
	rtl := fyne.NewMenuItem("RTL", func() { s.SetRTL(!s.RTL()) })
	rtl.Checked = s.RTL()
	options := fyne.NewMenuItem("Options", nil)
	options.ChildMenu = fyne.NewMenu("", res, textAlpha, rtl)

	ratios := make([]*fyne.MenuItem, 0, len(zoomRatios))
	for _, z := range zoomRatios {
		f := z.factor
		action := func() { s.ZoomFactor(f) }
		if f == 1 {
			action = s.ZoomActualSize
		}
		ratios = append(ratios, fyne.NewMenuItem(z.label, action))
	}
	zoom := fyne.NewMenuItem("Zoom", nil)
	zoom.ChildMenu = fyne.NewMenu("", ratios...)

	dpis := make([]*fyne.MenuItem, 0, len(zoomResolutions))
	for _, z := range zoomResolutions {
		r := z.res
		dpis = append(dpis, fyne.NewMenuItem(z.label, func() { s.ZoomToRes(r) }))
	}
	zoomDPI := fyne.NewMenuItem("Zoom DPI", nil)
	zoomDPI.ChildMenu = fyne.NewMenu("", dpis...)

	return fyne.NewMenu("",
		file,
		options,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(s.DPILabel(), func() {}),
		fyne.NewMenuItem("Zoom In", s.ZoomInAtOrigin),
		fyne.NewMenuItem("Zoom Out", s.ZoomOutAtOrigin),
		zoom,
		zoomDPI,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(s.PageLabel(), func() {}),
		fyne.NewMenuItem("Prev. Page", s.PrevPage),
		fyne.NewMenuItem("Next Page", s.NextPage),
	)
}

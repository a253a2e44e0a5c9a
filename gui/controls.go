package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
)

var iconSize = fyne.NewSize(128, 128)
var ghostSize = fyne.NewSize(64, 64)

// controlWidget draws a dragdrop.Control and forwards clicks to it
type controlWidget struct {
	widget.BaseWidget

	control     dragdrop.Control
	appearance  dragdrop.Appearance
	image       *canvas.Image
	tip         *tooltip
	interactive func() bool
}

var _ fyne.Tappable = (*controlWidget)(nil)
var _ desktop.Hoverable = (*controlWidget)(nil)
var _ desktop.Cursorable = (*controlWidget)(nil)

func newControlWidget(control dragdrop.Control, resolver installer.Resolver, c func() fyne.Canvas, interactive func() bool) *controlWidget {
	cw := &controlWidget{}
	cw.init(control, resolver, c, interactive)
	cw.ExtendBaseWidget(cw)
	return cw
}

func (cw *controlWidget) init(control dragdrop.Control, resolver installer.Resolver, c func() fyne.Canvas, interactive func() bool) {
	cw.control = control
	cw.appearance = control.Appearance()
	cw.interactive = interactive

	cw.image = canvas.NewImageFromResource(loadIcon(cw.appearance.Icon, resolver))
	cw.image.FillMode = canvas.ImageFillContain
	cw.image.SetMinSize(iconSize)

	cw.tip = newTooltip(c)
}

func (cw *controlWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cw.image)
}

// setAppearance replaces the cached appearance, for example after
// the installation directory changed.
func (cw *controlWidget) setAppearance(appearance dragdrop.Appearance) {
	cw.appearance = appearance
	cw.tip.hide()
	cw.Refresh()
}

func (cw *controlWidget) enabled() bool {
	return cw.interactive == nil || cw.interactive()
}

func (cw *controlWidget) Tapped(ev *fyne.PointEvent) {
	if !cw.enabled() {
		return
	}
	cw.tip.hide()
	cw.control.HandlePress()
}

func (cw *controlWidget) Cursor() desktop.Cursor {
	return desktopCursor(cw.appearance.Cursor)
}

func (cw *controlWidget) MouseIn(ev *desktop.MouseEvent) {
	if !cw.enabled() {
		return
	}
	cw.tip.show(cw.appearance.Tooltip, ev.AbsolutePosition)
}

func (cw *controlWidget) MouseMoved(ev *desktop.MouseEvent) {
	cw.tip.move(ev.AbsolutePosition)
}

func (cw *controlWidget) MouseOut() {
	cw.tip.hide()
}

// appIcon is the drag source. fyne delivers drags as a stream of
// events, so the gesture is driven through Source.Press and
// Drag.Release rather than a modal loop.
type appIcon struct {
	controlWidget

	source *dragdrop.Source
	// targetAt returns what's under an absolute position, or nil
	targetAt func(pos fyne.Position) dragdrop.Acceptor

	drag    *dragdrop.Drag
	lastPos fyne.Position
	ghost   *widget.PopUp
}

var _ fyne.Draggable = (*appIcon)(nil)

func newAppIcon(source *dragdrop.Source, resolver installer.Resolver, c func() fyne.Canvas, interactive func() bool, targetAt func(pos fyne.Position) dragdrop.Acceptor) *appIcon {
	a := &appIcon{
		source:   source,
		targetAt: targetAt,
	}
	a.init(source, resolver, c, interactive)
	a.ExtendBaseWidget(a)
	return a
}

func (a *appIcon) Dragged(ev *fyne.DragEvent) {
	if a.drag == nil {
		if !a.enabled() {
			return
		}
		a.tip.hide()
		a.drag = a.source.Press()
	}

	a.lastPos = ev.AbsolutePosition
	a.showGhost(ev.AbsolutePosition)
}

func (a *appIcon) DragEnd() {
	if a.drag == nil {
		return
	}
	d := a.drag
	a.drag = nil
	a.hideGhost()

	var target dragdrop.Acceptor
	if a.targetAt != nil {
		target = a.targetAt(a.lastPos)
	}
	d.Release(target)
}

func (a *appIcon) showGhost(at fyne.Position) {
	pos := at.Subtract(fyne.NewPos(ghostSize.Width/2, ghostSize.Height/2))
	if a.ghost == nil {
		c := a.tip.canvas()
		if c == nil {
			return
		}
		img := canvas.NewImageFromResource(a.image.Resource)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(ghostSize)
		img.Translucency = 0.4
		a.ghost = widget.NewPopUp(img, c)
		a.ghost.ShowAtPosition(pos)
		return
	}

	if !a.ghost.Visible() {
		a.ghost.ShowAtPosition(pos)
		return
	}
	a.ghost.Move(pos)
}

func (a *appIcon) hideGhost() {
	if a.ghost != nil {
		a.ghost.Hide()
	}
}

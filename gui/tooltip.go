package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

var tooltipOffset = fyne.NewPos(12, 16)

// tooltip is a non-modal popup that follows the pointer
type tooltip struct {
	canvas func() fyne.Canvas
	label  *widget.Label
	pop    *widget.PopUp
}

func newTooltip(canvas func() fyne.Canvas) *tooltip {
	return &tooltip{canvas: canvas}
}

func (t *tooltip) show(text string, at fyne.Position) {
	if text == "" {
		t.hide()
		return
	}

	if t.pop == nil {
		c := t.canvas()
		if c == nil {
			return
		}
		t.label = widget.NewLabel(text)
		t.pop = widget.NewPopUp(t.label, c)
	}

	t.label.SetText(text)
	t.pop.ShowAtPosition(at.Add(tooltipOffset))
}

func (t *tooltip) move(at fyne.Position) {
	if t.pop != nil && t.pop.Visible() {
		t.pop.Move(at.Add(tooltipOffset))
	}
}

func (t *tooltip) hide() {
	if t.pop != nil {
		t.pop.Hide()
	}
}

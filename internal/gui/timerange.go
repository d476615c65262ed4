package gui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

type timeRange struct {
	Label    string
	Duration time.Duration
}

var timeRanges = []timeRange{
	{"15m", 15 * time.Minute},
	{"1h", time.Hour},
	{"3h", 3 * time.Hour},
	{"6h", 6 * time.Hour},
	{"24h", 24 * time.Hour},
	{"7d", 7 * 24 * time.Hour},
}

// rangeIndex maps a config range label to its timeRanges index.
func rangeIndex(label string) int {
	for i, tr := range timeRanges {
		if tr.Label == label {
			return i
		}
	}
	return 3 // 6h
}

type timeRangeBar struct {
	buttons   []*widget.Button
	container fyne.CanvasObject
}

func newTimeRangeBar(selected int, onSelect func(int)) *timeRangeBar {
	bar := &timeRangeBar{buttons: make([]*widget.Button, len(timeRanges))}

	objects := make([]fyne.CanvasObject, len(timeRanges))
	for i, tr := range timeRanges {
		idx := i
		btn := widget.NewButton(tr.Label, func() {
			bar.setSelected(idx)
			onSelect(idx)
		})
		if i == selected {
			btn.Importance = widget.HighImportance
		}
		bar.buttons[idx] = btn
		objects[idx] = btn
	}

	row := container.New(layout.NewHBoxLayout(), objects...)
	bg := canvas.NewRectangle(color.NRGBA{R: 30, G: 30, B: 30, A: 230})
	bar.container = container.NewStack(bg, container.NewPadded(row))
	return bar
}

func (b *timeRangeBar) setSelected(idx int) {
	for i, btn := range b.buttons {
		if i == idx {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

package gui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/padiauj/battmon/internal/collector"
)

var (
	colorGreenAccent = color.NRGBA{R: 77, G: 191, B: 102, A: 255}
	colorWhiteLabel  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colorStatsBg     = color.NRGBA{R: 40, G: 55, B: 45, A: 120}
)

// statsBar shows the live state of the selected battery above the graph.
type statsBar struct {
	batteryLabel *canvas.Text
	statusLabel  *canvas.Text
	modelLabel   *canvas.Text
	container    fyne.CanvasObject
}

func newStatsBar() *statsBar {
	s := &statsBar{
		batteryLabel: newStatText("--%"),
		statusLabel:  newStatText("--"),
		modelLabel:   newStatText("--"),
	}

	batteryTitle := newLabelText("Battery")
	statusTitle := newLabelText("Status")
	modelTitle := newLabelText("Model")

	bg := canvas.NewRectangle(colorStatsBg)

	row := container.New(layout.NewHBoxLayout(),
		container.NewVBox(batteryTitle, s.batteryLabel),
		layout.NewSpacer(),
		container.NewVBox(statusTitle, s.statusLabel),
		layout.NewSpacer(),
		container.NewVBox(modelTitle, s.modelLabel),
	)

	s.container = container.NewStack(bg, container.NewPadded(row))
	return s
}

// Update refreshes the bar from a live sysfs reading. A nil battery means
// the device has history but is not currently present.
func (s *statsBar) Update(battery *collector.PowerSupply) {
	if battery == nil {
		s.batteryLabel.Text = "--%"
		s.statusLabel.Text = "Not present"
		s.modelLabel.Text = "--"
	} else {
		s.batteryLabel.Text = fmt.Sprintf("%d%%", battery.Capacity)
		s.statusLabel.Text = battery.Status
		s.modelLabel.Text = battery.ModelName
	}
	s.batteryLabel.Refresh()
	s.statusLabel.Refresh()
	s.modelLabel.Refresh()
}

func newStatText(text string) *canvas.Text {
	t := canvas.NewText(text, colorGreenAccent)
	t.TextSize = 18
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

func newLabelText(text string) *canvas.Text {
	t := canvas.NewText(text, colorWhiteLabel)
	t.TextSize = 12
	return t
}

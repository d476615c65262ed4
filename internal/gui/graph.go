package gui

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/padiauj/battmon/internal/battlog"
)

var (
	colGraphBg     = color.NRGBA{R: 31, G: 31, B: 31, A: 230}
	colGrid        = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	colLabel       = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
	colTitle       = color.NRGBA{R: 255, G: 255, B: 255, A: 178}
	colCapacity    = color.NRGBA{R: 77, G: 191, B: 102, A: 255}
	colChargingBar = color.NRGBA{R: 77, G: 191, B: 102, A: 180}
)

const (
	padLeft   = 50
	padRight  = 15
	padTop    = 30
	padBottom = 30

	// Readings further apart than this are not connected: the scheduler
	// was off (machine asleep or cron stopped), not the battery flat.
	gapThreshold = 15 * time.Minute
)

// historyGraph renders battery capacity over a time window as a line chart.
type historyGraph struct {
	widget.BaseWidget

	mu      sync.Mutex
	records []battlog.Record
	from    time.Time
	to      time.Time
}

func newHistoryGraph() *historyGraph {
	g := &historyGraph{}
	g.ExtendBaseWidget(g)
	return g
}

// SetData replaces the plotted window and triggers a redraw.
func (g *historyGraph) SetData(records []battlog.Record, from, to time.Time) {
	g.mu.Lock()
	g.records = records
	g.from = from
	g.to = to
	g.mu.Unlock()
	g.Refresh()
}

func (g *historyGraph) snapshot() ([]battlog.Record, time.Time, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.records, g.from, g.to
}

func (g *historyGraph) CreateRenderer() fyne.WidgetRenderer {
	return &historyGraphRenderer{graph: g}
}

type historyGraphRenderer struct {
	graph   *historyGraph
	size    fyne.Size
	objects []fyne.CanvasObject
}

func (r *historyGraphRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 220)
}

func (r *historyGraphRenderer) Layout(size fyne.Size) {
	r.size = size
	r.rebuild()
}

func (r *historyGraphRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.graph)
}

func (r *historyGraphRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *historyGraphRenderer) Destroy() {}

// rebuild recomputes every canvas primitive for the current size and data.
func (r *historyGraphRenderer) rebuild() {
	w := r.size.Width
	h := r.size.Height

	bg := canvas.NewRectangle(colGraphBg)
	bg.Resize(r.size)
	objects := []fyne.CanvasObject{bg}

	if w < padLeft+padRight+10 || h < padTop+padBottom+10 {
		r.objects = objects
		return
	}

	plotW := w - padLeft - padRight
	plotH := h - padTop - padBottom

	objects = append(objects, newGraphLabel("Battery Level", padLeft, 8, colTitle, 11))

	// Horizontal grid at 25% steps with y-axis labels.
	for i := 0; i <= 4; i++ {
		pct := i * 25
		y := padTop + plotH - plotH*float32(pct)/100
		grid := canvas.NewLine(colGrid)
		grid.Position1 = fyne.NewPos(padLeft, y)
		grid.Position2 = fyne.NewPos(padLeft+plotW, y)
		objects = append(objects, grid)
		objects = append(objects, newGraphLabel(fmt.Sprintf("%d%%", pct), 5, y-7, colLabel, 9))
	}

	records, from, to := r.graph.snapshot()
	span := to.Sub(from)
	if span <= 0 {
		r.objects = objects
		return
	}

	xFor := func(tsMS int64) float32 {
		frac := float64(tsMS-from.UnixMilli()) / float64(span.Milliseconds())
		return padLeft + float32(frac)*plotW
	}
	yFor := func(capacity int) float32 {
		return padTop + plotH - plotH*float32(capacity)/100
	}

	// Vertical time grid with duration-dependent step.
	step, format := timeAxisStep(span)
	for t := from.Truncate(step).Add(step); t.Before(to); t = t.Add(step) {
		x := xFor(t.UnixMilli())
		grid := canvas.NewLine(colGrid)
		grid.Position1 = fyne.NewPos(x, padTop)
		grid.Position2 = fyne.NewPos(x, padTop+plotH)
		objects = append(objects, grid)
		objects = append(objects, newGraphLabel(t.Format(format), x-15, padTop+plotH+5, colLabel, 8))
	}

	// Charging indicator bars below the x-axis.
	for i, rec := range records {
		if rec.Status != "Charging" {
			continue
		}
		x := xFor(rec.TimestampMS)
		barW := float32(2)
		if i+1 < len(records) {
			if next := xFor(records[i+1].TimestampMS) - x; next > 1 {
				barW = next
			}
		}
		bar := canvas.NewRectangle(colChargingBar)
		bar.Move(fyne.NewPos(x, padTop+plotH+2))
		bar.Resize(fyne.NewSize(barW, 4))
		objects = append(objects, bar)
	}

	// Capacity line, broken at scheduler gaps.
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if cur.Time().Sub(prev.Time()) > gapThreshold {
			continue
		}
		seg := canvas.NewLine(colCapacity)
		seg.StrokeWidth = 2
		seg.Position1 = fyne.NewPos(xFor(prev.TimestampMS), yFor(prev.Capacity))
		seg.Position2 = fyne.NewPos(xFor(cur.TimestampMS), yFor(cur.Capacity))
		objects = append(objects, seg)
	}

	r.objects = objects
}

// timeAxisStep picks the x-axis label spacing and format for a window span.
func timeAxisStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 15 * time.Minute, "15:04"
	case span <= 8*time.Hour:
		return time.Hour, "15:04"
	case span <= 2*24*time.Hour:
		return 3 * time.Hour, "15:04"
	default:
		return 24 * time.Hour, "Jan 2"
	}
}

func newGraphLabel(text string, x, y float32, col color.Color, size float32) *canvas.Text {
	t := canvas.NewText(text, col)
	t.TextSize = size
	t.Move(fyne.NewPos(x, y))
	return t
}

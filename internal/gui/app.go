// Package gui renders the battery history window for battmon --graph.
// It reads live state from sysfs, imports the per-device log files into the
// SQLite history index, and plots the selected battery's capacity over time.
package gui

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/padiauj/battmon/internal/battlog"
	"github.com/padiauj/battmon/internal/collector"
	"github.com/padiauj/battmon/internal/config"
	"github.com/padiauj/battmon/internal/storage"
)

// App ties the sysfs reader, the log importer, and the history index to the
// Fyne widgets.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	reader *collector.Reader
	logs   *battlog.Logger
	store  *storage.DB

	stats    *statsBar
	rangeBar *timeRangeBar
	graph    *historyGraph
	selector *widget.Select

	selectedBattery string
	selectedRange   int
}

// Run opens the history window and blocks until it is closed.
func Run(cfg *config.Config, logger *slog.Logger) error {
	store, err := storage.Open(cfg.Paths.DBPath)
	if err != nil {
		return fmt.Errorf("open history index: %w", err)
	}
	defer store.Close()

	a := &App{
		cfg:           cfg,
		log:           logger,
		reader:        collector.NewReader(cfg.Paths.PowerSupplyRoot, logger),
		logs:          battlog.NewLogger(cfg.Paths.LogDir, logger),
		store:         store,
		selectedRange: rangeIndex(cfg.GUI.DefaultRange),
	}

	if err := a.importLogs(); err != nil {
		a.log.Warn("import log files", "err", err)
	}
	a.prune()

	batteries, err := store.Batteries()
	if err != nil {
		return fmt.Errorf("list batteries: %w", err)
	}
	if len(batteries) == 0 {
		// Nothing logged yet; fall back to whatever is present right now.
		if live, err := a.reader.Batteries(); err == nil {
			for _, b := range live {
				batteries = append(batteries, b.BatteryID())
			}
		}
	}
	if len(batteries) == 0 {
		return fmt.Errorf("no battery history in %s and no battery present", cfg.Paths.LogDir)
	}
	a.selectedBattery = batteries[0]

	fa := fyneapp.New()
	win := fa.NewWindow("battmon")
	win.Resize(fyne.NewSize(900, 480))

	a.stats = newStatsBar()
	a.graph = newHistoryGraph()
	a.rangeBar = newTimeRangeBar(a.selectedRange, func(idx int) {
		a.selectedRange = idx
		a.refresh()
	})
	a.selector = widget.NewSelect(batteries, func(id string) {
		a.selectedBattery = id
		a.refresh()
	})
	a.selector.SetSelected(a.selectedBattery)

	content := container.NewBorder(
		container.NewVBox(a.stats.container, container.NewBorder(nil, nil, nil, a.selector, a.rangeBar.container)),
		nil, nil, nil,
		a.graph,
	)
	win.SetContent(content)

	done := make(chan struct{})
	win.SetOnClosed(func() { close(done) })
	go a.refreshLoop(done)

	a.refresh()
	win.ShowAndRun()
	return nil
}

// refreshLoop re-renders on a ticker and immediately after system resume.
func (a *App) refreshLoop(done <-chan struct{}) {
	ticker := time.NewTicker(time.Duration(a.cfg.GUI.RefreshSeconds) * time.Second)
	defer ticker.Stop()

	var wakeCh <-chan struct{}
	wakeMon, err := collector.NewWakeMonitor(a.log)
	if err != nil {
		a.log.Warn("wake monitor unavailable, using ticker only", "err", err)
	} else {
		wakeCh = wakeMon.Wake()
		defer wakeMon.Close()
	}

	for {
		select {
		case <-ticker.C:
			fyne.Do(a.refresh)
		case <-wakeCh:
			fyne.Do(a.refresh)
		case <-done:
			return
		}
	}
}

// refresh re-reads sysfs, pulls in any new log lines for the selected
// battery, and repaints the stats bar and graph.
func (a *App) refresh() {
	live, err := a.reader.Batteries()
	if err != nil {
		a.log.Warn("read power supplies", "err", err)
	}

	var current *collector.PowerSupply
	for i := range live {
		if live[i].BatteryID() == a.selectedBattery {
			current = &live[i]
			break
		}
	}
	a.stats.Update(current)

	if records, err := a.logs.ReadDevice(a.selectedBattery); err != nil {
		a.log.Warn("read device log", "battery", a.selectedBattery, "err", err)
	} else if _, err := a.store.ImportRecords(a.selectedBattery, records); err != nil {
		a.log.Warn("import device log", "battery", a.selectedBattery, "err", err)
	}

	to := time.Now()
	from := to.Add(-timeRanges[a.selectedRange].Duration)
	records, err := a.store.ReadingsInRange(a.selectedBattery, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		a.log.Warn("query history", "battery", a.selectedBattery, "err", err)
		return
	}
	a.graph.SetData(records, from, to)
}

// importLogs indexes every device log file found in the log directory.
func (a *App) importLogs() error {
	ids, err := battlog.Devices(a.cfg.Paths.LogDir)
	if err != nil {
		return err
	}
	for _, id := range ids {
		records, err := a.logs.ReadDevice(id)
		if err != nil {
			a.log.Warn("read log file", "battery", id, "err", err)
			continue
		}
		n, err := a.store.ImportRecords(id, records)
		if err != nil {
			a.log.Warn("import log file", "battery", id, "err", err)
			continue
		}
		if n > 0 {
			a.log.Info("imported readings", "battery", id, "new", n)
		}
	}
	return nil
}

// prune applies the retention policy to the history index.
func (a *App) prune() {
	cutoff := time.Now().AddDate(0, 0, -a.cfg.Cleanup.RetentionDays).UnixMilli()
	n, err := a.store.DeleteOlderThan(cutoff)
	if err != nil {
		a.log.Warn("prune history index", "err", err)
		return
	}
	if n > 0 {
		a.log.Info("pruned history index", "deleted", n)
	}
}

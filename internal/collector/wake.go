package collector

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// WakeMonitor listens for systemd-logind PrepareForSleep signals so the GUI
// can refresh its readings immediately after resume instead of waiting out
// the refresh ticker.
type WakeMonitor struct {
	conn *dbus.Conn
	done chan struct{}
	wake chan struct{}
	log  *slog.Logger
}

// NewWakeMonitor connects to the system bus and subscribes to sleep signals.
func NewWakeMonitor(logger *slog.Logger) (*WakeMonitor, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	err = conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	m := &WakeMonitor{
		conn: conn,
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
		log:  logger,
	}
	go m.listen()
	return m, nil
}

// Wake returns a channel that receives a value each time the system wakes.
func (m *WakeMonitor) Wake() <-chan struct{} {
	return m.wake
}

// Close stops the monitor and releases the bus connection.
func (m *WakeMonitor) Close() {
	close(m.done)
	m.conn.Close()
}

func (m *WakeMonitor) listen() {
	ch := make(chan *dbus.Signal, 16)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)

	for {
		select {
		case sig := <-ch:
			if sig == nil || len(sig.Body) < 1 {
				continue
			}
			entering, ok := sig.Body[0].(bool)
			if !ok {
				continue
			}
			if entering {
				m.log.Info("system going to sleep")
				continue
			}
			m.log.Info("system woke up")
			select {
			case m.wake <- struct{}{}:
			default:
			}
		case <-m.done:
			return
		}
	}
}

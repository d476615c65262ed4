// Package collector reads power-supply state from the kernel's sysfs tree.
package collector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where the kernel exposes power-supply devices on any
// Linux >= 2.6.24 (ACPI moved here from /proc/power_supply).
const DefaultRoot = "/sys/class/power_supply"

// Reader enumerates power supplies under a sysfs root directory.
// Each Scan is a fresh read of the filesystem; nothing is cached.
type Reader struct {
	root string
	log  *slog.Logger
}

// NewReader creates a Reader rooted at root. An empty root means DefaultRoot.
func NewReader(root string, logger *slog.Logger) *Reader {
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{root: root, log: logger}
}

// Root returns the sysfs directory this Reader scans.
func (r *Reader) Root() string {
	return r.root
}

// Scan returns one PowerSupply per immediate subdirectory of the root.
// Battery attributes are extracted only for entries whose type file reads
// "Battery"; a missing or unreadable attribute file is substituted with an
// empty value and never aborts the scan. A missing or unreadable root is an
// environment error returned to the caller.
func (r *Reader) Scan() ([]PowerSupply, error) {
	dirents, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read power-supply root %s: %w", r.root, err)
	}

	var supplies []PowerSupply
	for _, de := range dirents {
		// Real sysfs entries are symlinked directories; ReadDir reports
		// them as symlinks, so only plain files are skipped here.
		if de.Type().IsRegular() {
			continue
		}
		dir := filepath.Join(r.root, de.Name())
		ps := PowerSupply{
			Name: de.Name(),
			Type: r.readAttr(dir, "type"),
		}
		if ps.IsBattery() {
			ps.Status = r.readAttr(dir, "status")
			ps.Capacity = r.readIntAttr(dir, "capacity")
			ps.Manufacturer = r.readAttr(dir, "manufacturer")
			ps.ModelName = r.readAttr(dir, "model_name")
			ps.SerialNumber = r.readAttr(dir, "serial_number")
		}
		supplies = append(supplies, ps)
	}
	return supplies, nil
}

// Batteries returns only the entries whose type is "Battery".
func (r *Reader) Batteries() ([]PowerSupply, error) {
	supplies, err := r.Scan()
	if err != nil {
		return nil, err
	}
	var batteries []PowerSupply
	for _, ps := range supplies {
		if ps.IsBattery() {
			batteries = append(batteries, ps)
		}
	}
	return batteries, nil
}

// readAttr reads one newline-terminated attribute file, returning "" when
// the file is missing or unreadable.
func (r *Reader) readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("read attribute", "supply", filepath.Base(dir), "attr", name, "err", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (r *Reader) readIntAttr(dir, name string) int {
	raw := r.readAttr(dir, name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.log.Warn("parse attribute", "supply", filepath.Base(dir), "attr", name, "value", raw, "err", err)
		return 0
	}
	return v
}

package collector

// PowerSupply holds a snapshot of one entry under the power-supply sysfs root.
// Battery attribute fields are populated only when Type is "Battery"; an
// attribute whose sysfs file is missing or unreadable is left empty.
type PowerSupply struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Status       string `json:"status,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// IsBattery reports whether the entry's declared type is a battery.
func (p PowerSupply) IsBattery() bool {
	return p.Type == "Battery"
}

// BatteryID returns the stable per-device identity used for log filenames:
// manufacturer, model name, and serial number joined with underscores.
// Missing attributes degrade to empty segments rather than failing.
func (p PowerSupply) BatteryID() string {
	return p.Manufacturer + "_" + p.ModelName + "_" + p.SerialNumber
}

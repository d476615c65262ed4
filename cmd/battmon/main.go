// Package main is the battmon entrypoint: a Linux battery monitor that logs
// sysfs power-supply readings to per-device files and graphs their history.
package main

import "github.com/padiauj/battmon/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// systemdRuntimeDir exists only when systemd is the running init.
const systemdRuntimeDir = "/run/systemd/system"

// SystemdPresent reports whether the host runs systemd.
func SystemdPresent() bool {
	info, err := os.Stat(systemdRuntimeDir)
	return err == nil && info.IsDir()
}

// SystemdCollector lists failed systemd units.
type SystemdCollector struct {
	// User also lists failed units of the user manager.
	User bool
	// Run executes systemctl. Nil looks it up in PATH.
	Run CommandRunner
}

// NewSystemdCollector returns a collector that shells out to systemctl.
func NewSystemdCollector(user bool) *SystemdCollector {
	return &SystemdCollector{User: user}
}

func (c *SystemdCollector) Collect(ctx context.Context) (section.Renderable, error) {
	run := c.Run
	if run == nil {
		if !commandExists("systemctl") {
			return nil, fmt.Errorf("systemctl not found in PATH")
		}
		run = runCmd
	}

	units, err := c.failed(ctx, run)
	if err != nil {
		return nil, err
	}
	if c.User {
		userUnits, err := c.failed(ctx, run, "--user")
		if err != nil {
			return nil, err
		}
		units = append(units, userUnits...)
	}
	return FailedUnits(units), nil
}

func (c *SystemdCollector) failed(ctx context.Context, run CommandRunner, extra ...string) ([]string, error) {
	args := append(append([]string{}, extra...), "--no-legend", "--plain", "--failed")
	out, err := run(ctx, "systemctl", args...)
	if err != nil {
		return nil, fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return ParseFailedUnits(out), nil
}

// ParseFailedUnits extracts the unit name from each line of systemctl
// output.
func ParseFailedUnits(out string) []string {
	var units []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		units = append(units, fields[0])
	}
	return units
}

// FailedUnits renders one red unit name per line.
type FailedUnits []string

func (u FailedUnits) Render(l render.Layout) string {
	var b strings.Builder
	for _, name := range u {
		b.WriteString(l.Paint(render.Style{Color: render.Red}, name))
		b.WriteString("\n")
	}
	return b.String()
}

package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// HddtempProbe reads drive temperatures from an hddtemp daemon. The daemon
// writes every record on connect and closes the connection.
type HddtempProbe struct {
	Addr    string
	Timeout time.Duration
	Dial    func(ctx context.Context, network, addr string) (net.Conn, error)
	// Resolve turns a device path into its canonical form.
	Resolve func(path string) string
}

// NewHddtempProbe returns a probe for the daemon at addr.
func NewHddtempProbe(addr string) *HddtempProbe {
	d := &net.Dialer{}
	return &HddtempProbe{
		Addr:    addr,
		Timeout: time.Second,
		Dial:    d.DialContext,
		Resolve: resolveDevice,
	}
}

func resolveDevice(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// Readings connects to the daemon and parses its report.
func (p *HddtempProbe) Readings(ctx context.Context) ([]Reading, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	conn, err := p.Dial(ctx, "tcp", p.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect to hddtemp at %s: %w", p.Addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read hddtemp report: %w", err)
	}
	return ParseHddtemp(string(data), p.Resolve), nil
}

// ParseHddtemp parses "|dev|model|temp|unit|" records. Drives reporting no
// numeric temperature (sleeping, unknown) are skipped. Fahrenheit values
// are converted.
func ParseHddtemp(data string, resolve func(string) string) []Reading {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}

	fields := strings.Split(data, "|")
	var out []Reading
	for i := 0; i+5 <= len(fields); i += 5 {
		rec := fields[i : i+5]
		temp, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rec[4]), "F") {
			temp = int(float64(temp-32)*5/9 + 0.5)
		}
		name := fmt.Sprintf("%s (%s)", resolve(rec[1]), strings.TrimSpace(rec[2]))
		out = append(out, NewReading(name, KindDrive, temp, 0, 0))
	}
	return out
}

package metrics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/tw93/motd/internal/config"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// SensorKind selects the threshold heuristics for a sensor.
type SensorKind int

const (
	KindOther SensorKind = iota
	KindCPU
	KindDrive
)

func (k SensorKind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindDrive:
		return "drive"
	default:
		return "other"
	}
}

var (
	cpuSensorHints   = []string{"cpu", "core", "package", "k10temp", "tctl", "tdie"}
	driveSensorHints = []string{"nvme", "drivetemp", "hddtemp"}
)

// ClassifySensor guesses the sensor kind from its name.
func ClassifySensor(name string) SensorKind {
	lower := strings.ToLower(name)
	for _, hint := range cpuSensorHints {
		if strings.Contains(lower, hint) {
			return KindCPU
		}
	}
	for _, hint := range driveSensorHints {
		if strings.Contains(lower, hint) {
			return KindDrive
		}
	}
	return KindOther
}

// Thresholds derives the warning and critical temperatures for a sensor
// from its reported high and critical trip points. Zero means unknown.
func Thresholds(kind SensorKind, high, crit int) (warning, critical int) {
	switch {
	case high > 0 && crit > 0:
		hi, cr := min(high, crit), max(high, crit)
		gap := cr - hi
		delta := 5
		if kind == KindCPU {
			delta = gap / 2
		} else if gap > 20 {
			hi = cr - 20
		}
		return hi - delta, hi
	case high > 0 || crit > 0:
		hi := max(high, crit)
		delta := 5
		if kind == KindCPU {
			delta = 10
		}
		return hi - delta, hi
	}

	switch kind {
	case KindCPU:
		return 60, 75
	case KindDrive:
		return 45, 55
	default:
		return 50, 60
	}
}

// Reading is one temperature probe, in whole degrees Celsius.
type Reading struct {
	Name     string
	Kind     SensorKind
	Temp     int
	Warning  int
	Critical int
}

// NewReading builds a reading with thresholds derived from the trip points.
func NewReading(name string, kind SensorKind, temp, high, crit int) Reading {
	warning, critical := Thresholds(kind, high, crit)
	return Reading{Name: name, Kind: kind, Temp: temp, Warning: warning, Critical: critical}
}

// Style colors a reading yellow from its warning and red from its critical
// temperature.
func (r Reading) Style() render.Style {
	switch {
	case r.Temp >= r.Critical:
		return render.Style{Color: render.Red}
	case r.Temp >= r.Warning:
		return render.Style{Color: render.Yellow}
	default:
		return render.Plain
	}
}

// TempCollector gathers hardware sensor and drive temperatures.
type TempCollector struct {
	Config  config.TempConfig
	Sensors func(ctx context.Context) ([]host.TemperatureStat, error)
	// Drives is nil when the hddtemp probe is disabled.
	Drives *HddtempProbe
	Log    logger.Logger
}

// NewTempCollector returns a collector backed by gopsutil and, when an
// address is configured, the hddtemp daemon.
func NewTempCollector(cfg config.TempConfig, log logger.Logger) *TempCollector {
	c := &TempCollector{
		Config:  cfg,
		Sensors: host.SensorsTemperaturesWithContext,
		Log:     log,
	}
	if cfg.HddtempAddr != "" {
		c.Drives = NewHddtempProbe(cfg.HddtempAddr)
	}
	return c
}

func celsius(v float64) int {
	return int(math.Round(v))
}

func (c *TempCollector) Collect(ctx context.Context) (section.Renderable, error) {
	log := orNoop(c.Log)

	stats, err := c.Sensors(ctx)
	if err != nil {
		// gopsutil returns partial results alongside per-sensor errors.
		if len(stats) == 0 {
			return nil, fmt.Errorf("read sensors: %w", err)
		}
		log.Debug("some sensors could not be read: %v", err)
	}

	var readings []Reading
	for _, st := range stats {
		if c.Config.HwmonLabelBlacklist.Match(st.SensorKey) {
			log.Debug("skipping blacklisted sensor %s", st.SensorKey)
			continue
		}
		temp := celsius(st.Temperature)
		if temp <= 0 {
			continue
		}
		readings = append(readings, NewReading(st.SensorKey, ClassifySensor(st.SensorKey),
			temp, celsius(st.High), celsius(st.Critical)))
	}

	if c.Drives != nil {
		drives, err := c.Drives.Readings(ctx)
		if err != nil {
			log.Debug("hddtemp unavailable: %v", err)
		}
		readings = append(readings, drives...)
	}

	return Temperatures{Readings: readings}, nil
}

// Temperatures renders one aligned, colored line per reading.
type Temperatures struct {
	Readings []Reading
}

func (t Temperatures) Render(l render.Layout) string {
	if len(t.Readings) == 0 {
		return ""
	}

	width := 0
	for _, r := range t.Readings {
		width = max(width, utf8.RuneCountInString(r.Name))
	}

	var b strings.Builder
	for _, r := range t.Readings {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(r.Name))
		line := fmt.Sprintf("%s: %s%d °C", r.Name, pad, r.Temp)
		b.WriteString(l.Paint(r.Style(), line))
		b.WriteString("\n")
	}
	return b.String()
}

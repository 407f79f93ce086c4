// Package metrics holds the dashboard's data collectors and the renderers
// for what they collect.
package metrics

import (
	"fmt"
	"strings"

	"github.com/tw93/motd/internal/config"
	"github.com/tw93/motd/internal/errors"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/section"
)

// Key is the one-letter name of a section on the command line.
type Key string

const (
	KeyLoad    Key = "l"
	KeyMemory  Key = "m"
	KeySwap    Key = "s"
	KeyFS      Key = "f"
	KeyTemps   Key = "t"
	KeyNetwork Key = "n"
	KeySystemd Key = "u"
)

var keyTitles = map[Key]string{
	KeyLoad:    "Load",
	KeyMemory:  "Memory usage",
	KeySwap:    "Swap usage",
	KeyFS:      "Filesystem usage",
	KeyTemps:   "Hardware temperatures",
	KeyNetwork: "Network",
	KeySystemd: "Systemd failed units",
}

var keyHelp = map[Key]string{
	KeyLoad:    "system load",
	KeyMemory:  "memory",
	KeySwap:    "swap",
	KeyFS:      "filesystem usage",
	KeyTemps:   "hardware temperatures",
	KeyNetwork: "network interface stats",
	KeySystemd: "systemd failed units",
}

// AllKeys lists every section in default display order.
func AllKeys() []Key {
	return []Key{KeyLoad, KeyMemory, KeySwap, KeyFS, KeyTemps, KeyNetwork, KeySystemd}
}

// DefaultKeys is AllKeys without the systemd section on hosts not running
// systemd.
func DefaultKeys(systemd bool) []Key {
	var keys []Key
	for _, k := range AllKeys() {
		if k == KeySystemd && !systemd {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// Title is the section's display name.
func (k Key) Title() string {
	return keyTitles[k]
}

// ParseKey validates a section letter.
func ParseKey(s string) (Key, error) {
	k := Key(strings.TrimSpace(s))
	if _, ok := keyTitles[k]; !ok {
		return "", errors.NewUnknownSection(s, KeyList())
	}
	return k, nil
}

// ParseKeys validates letters and drops repeats, keeping the first one.
func ParseKeys(letters []string) ([]Key, error) {
	seen := make(map[Key]bool, len(letters))
	keys := make([]Key, 0, len(letters))
	for _, s := range letters {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}

// KeyList is the comma separated list of valid letters.
func KeyList() string {
	parts := make([]string, 0, len(keyTitles))
	for _, k := range AllKeys() {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, ", ")
}

// KeyUsage describes every letter for the --sections help text.
func KeyUsage() string {
	parts := make([]string, 0, len(keyHelp))
	for _, k := range AllKeys() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, keyHelp[k]))
	}
	return strings.Join(parts, ". ") + "."
}

// Registry builds the collectors for one run. Memory and swap share a
// single memory snapshot.
type Registry struct {
	Config *config.Config
	Log    logger.Logger
	memory *MemorySource
}

// NewRegistry returns a registry for cfg.
func NewRegistry(cfg *config.Config, log logger.Logger) *Registry {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Registry{Config: cfg, Log: orNoop(log), memory: NewMemorySource()}
}

// Collector returns the collector for k.
func (r *Registry) Collector(k Key) section.Collector {
	switch k {
	case KeyLoad:
		return NewLoadCollector()
	case KeyMemory:
		return &MemoryCollector{Source: r.memory}
	case KeySwap:
		return &SwapCollector{Source: r.memory}
	case KeyFS:
		return NewFSCollector(r.Config.FS, r.Log)
	case KeyTemps:
		return NewTempCollector(r.Config.Temp, r.Log)
	case KeyNetwork:
		return NewNetCollector()
	case KeySystemd:
		return NewSystemdCollector(r.Config.Systemd.User)
	default:
		panic(fmt.Sprintf("metrics: unknown section key %q", string(k)))
	}
}

// Sections returns titled sections for keys, in order.
func (r *Registry) Sections(keys []Key) []section.Section {
	out := make([]section.Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, section.Section{Title: k.Title(), Collector: r.Collector(k)})
	}
	return out
}

func orNoop(l logger.Logger) logger.Logger {
	if l == nil {
		return logger.Noop()
	}
	return l
}

package config

import "regexp"

// Config is the motd configuration file model.
type Config struct {
	FS      FSConfig      `mapstructure:"fs"`
	Temp    TempConfig    `mapstructure:"temp"`
	Systemd SystemdConfig `mapstructure:"systemd"`
}

// FSConfig controls which mounts the filesystem section reports.
type FSConfig struct {
	// MountTypeBlacklist excludes mounts whose filesystem type matches.
	MountTypeBlacklist Patterns `mapstructure:"mount_type_blacklist"`
	// MountPathBlacklist excludes mounts whose mount point matches.
	MountPathBlacklist Patterns `mapstructure:"mount_path_blacklist"`
}

// TempConfig controls the hardware temperatures section.
type TempConfig struct {
	// HwmonLabelBlacklist excludes sensors whose label matches.
	HwmonLabelBlacklist Patterns `mapstructure:"hwmon_label_blacklist"`
	// HddtempAddr is the hddtemp daemon address. Empty disables the probe.
	HddtempAddr string `mapstructure:"hddtemp_addr"`
}

// SystemdConfig controls the failed units section.
type SystemdConfig struct {
	// User also lists failed units of the user manager.
	User bool `mapstructure:"user"`
}

// Patterns is a list of unanchored regular expressions.
type Patterns []*regexp.Regexp

// Match reports whether any pattern matches s.
func (p Patterns) Match(s string) bool {
	for _, re := range p {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Strings returns the source text of each pattern.
func (p Patterns) Strings() []string {
	out := make([]string, len(p))
	for i, re := range p {
		out[i] = re.String()
	}
	return out
}

// DefaultHddtempAddr is where the hddtemp daemon listens by default.
const DefaultHddtempAddr = "127.0.0.1:7634"

// DefaultConfig returns the configuration used when no file is found.
// SYSTIN and CPUTIN are motherboard probes known to report garbage; sensor
// names are "<chip>_<label>" in lower case.
func DefaultConfig() *Config {
	return &Config{
		Temp: TempConfig{
			HwmonLabelBlacklist: Patterns{
				regexp.MustCompile(`(?i)(^|_)systin$`),
				regexp.MustCompile(`(?i)(^|_)cputin$`),
			},
			HddtempAddr: DefaultHddtempAddr,
		},
	}
}

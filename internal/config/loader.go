package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/tw93/motd/internal/errors"
	"github.com/tw93/motd/internal/logger"
)

const (
	// AppDir is the directory name under each XDG config directory.
	AppDir = "motd"
	// ConfigFileName is the config file name inside AppDir.
	ConfigFileName = "config.toml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Check the path given to --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid TOML")
	}

	return parseConfig(v, path)
}

// SearchPaths lists candidate config files in lookup order:
// $XDG_CONFIG_HOME (or ~/.config), then each entry of $XDG_CONFIG_DIRS
// (or /etc/xdg).
func SearchPaths() []string {
	var dirs []string

	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		dirs = append(dirs, home)
	} else if userHome, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(userHome, ".config"))
	}

	system := os.Getenv("XDG_CONFIG_DIRS")
	if system == "" {
		system = "/etc/xdg"
	}
	for _, d := range filepath.SplitList(system) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}

	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, filepath.Join(d, AppDir, ConfigFileName))
	}
	return paths
}

// Find returns the explicit path when given, otherwise the first existing
// file from SearchPaths. An empty result means no config file.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// LoadOrDefault loads the config found by Find, or returns defaults when
// there is none.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		logger.Default().Debug("no config file found, using defaults")
		return DefaultConfig(), nil
	}

	logger.Default().Debug("using config file %s", path)
	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	// Defaults come from viper, so decode into a zero value.
	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(regexpHook())); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the TOML syntax and regular expressions in "+path)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("fs.mount_type_blacklist", def.FS.MountTypeBlacklist.Strings())
	v.SetDefault("fs.mount_path_blacklist", def.FS.MountPathBlacklist.Strings())
	v.SetDefault("temp.hwmon_label_blacklist", def.Temp.HwmonLabelBlacklist.Strings())
	v.SetDefault("temp.hddtemp_addr", def.Temp.HddtempAddr)
	v.SetDefault("systemd.user", def.Systemd.User)
}

var regexpType = reflect.TypeOf(&regexp.Regexp{})

// regexpHook compiles strings decoded into *regexp.Regexp fields.
func regexpHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != regexpType {
			return data, nil
		}
		s := data.(string)
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", s, err)
		}
		return re, nil
	}
}

// Describe renders cfg as short key = value lines for debug output.
func Describe(cfg *Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fs.mount_type_blacklist = %q\n", cfg.FS.MountTypeBlacklist.Strings())
	fmt.Fprintf(&b, "fs.mount_path_blacklist = %q\n", cfg.FS.MountPathBlacklist.Strings())
	fmt.Fprintf(&b, "temp.hwmon_label_blacklist = %q\n", cfg.Temp.HwmonLabelBlacklist.Strings())
	fmt.Fprintf(&b, "temp.hddtemp_addr = %q\n", cfg.Temp.HddtempAddr)
	fmt.Fprintf(&b, "systemd.user = %t\n", cfg.Systemd.User)
	return b.String()
}

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/powerstat/powerstat/pkg/powersupply"
	"github.com/powerstat/powerstat/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		PowerSupplyRoot: ptr.To(powersupply.DefaultRoot),
		// Matches the historical behavior: an entry whose type cannot be
		// read aborts the report.
		SkipUnreadable: ptr.To(false),
		WatchSchedule:  ptr.To("@every 30s"),
		DaemonSocket:   ptr.To("/var/run/powerstat.sock"),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

type RawFileConfig struct {
	PowerSupplyRoot *string `json:"powerSupplyRoot,omitempty" toml:"power_supply_root,omitempty"`
	SkipUnreadable  *bool   `json:"skipUnreadable,omitempty" toml:"skip_unreadable,omitempty"`
	WatchSchedule   *string `json:"watchSchedule,omitempty" toml:"watch_schedule,omitempty"`
	DaemonSocket    *string `json:"daemonSocket,omitempty" toml:"daemon_socket,omitempty"`
}

func (f *File) PowerSupplyRoot() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.PowerSupplyRoot, *defaultFileConfig.PowerSupplyRoot)
}

func (f *File) SkipUnreadable() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.SkipUnreadable, *defaultFileConfig.SkipUnreadable)
}

func (f *File) WatchSchedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.WatchSchedule, *defaultFileConfig.WatchSchedule)
}

func (f *File) DaemonSocket() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.DaemonSocket, *defaultFileConfig.DaemonSocket)
}

func (f *File) SetPowerSupplyRoot(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.PowerSupplyRoot = &s
}

func (f *File) SetSkipUnreadable(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.SkipUnreadable = &b
}

func (f *File) SetWatchSchedule(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.WatchSchedule = &s
}

func (f *File) SetDaemonSocket(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DaemonSocket = &s
}

func (f *File) isTOML() bool {
	return strings.EqualFold(filepath.Ext(f.filepath), ".toml")
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.filepath == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isTOML() {
		err = toml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	if err := conf.validate(); err != nil {
		return pkgerrors.Wrapf(err, "invalid config in file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return pkgerrors.New("config path is empty")
	}

	var data bytes.Buffer
	if f.isTOML() {
		if err := toml.NewEncoder(&data).Encode(f.c); err != nil {
			return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
		}
	} else {
		enc := json.NewEncoder(&data)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f.c); err != nil {
			return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
		}
	}

	if err := os.WriteFile(f.filepath, data.Bytes(), 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"powerSupplyRoot": f.PowerSupplyRoot(),
		"skipUnreadable":  f.SkipUnreadable(),
		"watchSchedule":   f.WatchSchedule(),
		"daemonSocket":    f.DaemonSocket(),
	}
}

func (c *RawFileConfig) validate() error {
	if c.PowerSupplyRoot != nil {
		if err := validatePath("powerSupplyRoot", *c.PowerSupplyRoot); err != nil {
			return err
		}
	}
	if c.DaemonSocket != nil {
		if err := validatePath("daemonSocket", *c.DaemonSocket); err != nil {
			return err
		}
	}
	if c.WatchSchedule != nil && strings.TrimSpace(*c.WatchSchedule) == "" {
		return fmt.Errorf("watchSchedule must not be empty")
	}
	return nil
}

func validatePath(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	if !filepath.IsAbs(value) {
		return fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return nil
}

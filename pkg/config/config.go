package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. A missing file is not an error; the
// caller gets defaults and env/flags still apply on top.
func Load(path string) (*Config, bool, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, true, nil
}

// Flags holds command-line values and which of them were explicitly
// set; explicit flags win over env and file.
type Flags struct {
	Addr    string
	DataDir string
	Config  string
	Set     map[string]bool
}

// ParseCommandFlags parses the process flags once.
func ParseCommandFlags() Flags {
	addr := flag.String("addr", "", "listen address (host:port)")
	dataDir := flag.String("data", "", "data directory for messages and settings")
	cfgPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addr, DataDir: *dataDir, Config: *cfgPath, Set: set}
}

// ResolveConfigPath picks the config file path: flag wins, then the
// HEREAFTER_CONFIG env var, then ./hereafter.yaml.
func ResolveConfigPath(f Flags) string {
	if f.Set["config"] {
		return f.Config
	}
	if p := os.Getenv("HEREAFTER_CONFIG"); p != "" {
		return p
	}
	return "hereafter.yaml"
}

// applyEnv overlays HEREAFTER_* env vars onto cfg and reports which
// keys were taken from the environment.
func applyEnv(cfg *Config) []string {
	var used []string
	if v := os.Getenv("HEREAFTER_ADDR"); v != "" {
		if host, port, ok := splitAddr(v); ok {
			cfg.Server.Address = host
			cfg.Server.Port = port
			used = append(used, "HEREAFTER_ADDR")
		}
	}
	if v := os.Getenv("HEREAFTER_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
		used = append(used, "HEREAFTER_DATA_DIR")
	}
	if v := os.Getenv("HEREAFTER_UNLOCK_CRON"); v != "" {
		cfg.Unlock.Cron = v
		used = append(used, "HEREAFTER_UNLOCK_CRON")
	}
	if v := os.Getenv("HEREAFTER_UNLOCK_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Unlock.Enabled = b
			used = append(used, "HEREAFTER_UNLOCK_ENABLED")
		}
	}
	if v := os.Getenv("HEREAFTER_RADIUS_METERS"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
			cfg.Proximity.RadiusMeters = r
			used = append(used, "HEREAFTER_RADIUS_METERS")
		}
	}
	if v := os.Getenv("HEREAFTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
		used = append(used, "HEREAFTER_LOG_LEVEL")
	}
	return used
}

func splitAddr(addr string) (host string, port int, ok bool) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return "", 0, false
	}
	p, err := strconv.Atoi(addr[i+1:])
	if err != nil {
		return "", 0, false
	}
	return addr[:i], p, true
}

// Effective is the fully resolved configuration plus provenance info
// for the startup banner.
type Effective struct {
	Config  *Config
	Source  string
	EnvUsed []string
}

// LoadEffective resolves the final configuration: defaults, then file,
// then env, then explicit flags.
func LoadEffective(f Flags) (Effective, error) {
	path := ResolveConfigPath(f)
	cfg, fromFile, err := Load(path)
	if err != nil {
		return Effective{}, err
	}
	envUsed := applyEnv(cfg)

	if f.Set["addr"] {
		if host, port, ok := splitAddr(f.Addr); ok {
			cfg.Server.Address = host
			cfg.Server.Port = port
		} else {
			return Effective{}, fmt.Errorf("invalid -addr value: %s", f.Addr)
		}
	}
	if f.Set["data"] {
		cfg.Storage.DataDir = f.DataDir
	}

	src := "defaults"
	switch {
	case fromFile && len(envUsed) > 0:
		src = fmt.Sprintf("file:%s+env", path)
	case fromFile:
		src = "file:" + path
	case len(envUsed) > 0:
		src = "env"
	}
	if len(f.Set) > 0 {
		src += "+flags"
	}
	return Effective{Config: cfg, Source: src, EnvUsed: envUsed}, nil
}

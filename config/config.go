package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

// MirrorConfig describes the remote catalog mirror endpoint. The mirror
// accepts the full product list as a JSON body on write and returns
// {success, products} on read.
type MirrorConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Addr       string `yaml:"addr" json:"addr"`
	Token      string `yaml:"token" json:"token"`
	TimeoutSec int    `yaml:"timeout_sec" json:"timeout_sec"`
	// DebounceMs is the quiet period after the last catalog mutation
	// before the merged catalog is pushed to the mirror.
	DebounceMs int `yaml:"debounce_ms" json:"debounce_ms"`
}

type MailConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	SmtpHost string `yaml:"smtp_host" json:"smtp_host"`
	SmtpPort int    `yaml:"smtp_port" json:"smtp_port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	NotifyTo string `yaml:"notify_to" json:"notify_to"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Mirror   MirrorConfig `yaml:"mirror" json:"mirror"`
	Mail     MailConfig   `yaml:"mail" json:"mail"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "aerotools",
		Location: "Europe/Paris",
		Workdir:  "/var/aerotools",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "aerotools",
		User:   "postgres",
		Passwd: "",
	},
	Mirror: MirrorConfig{
		Enabled:    false,
		Addr:       "",
		TimeoutSec: 10,
		DebounceMs: 1000,
	},
	Mail: MailConfig{
		Enabled:  false,
		SmtpPort: 587,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/aerotools/aerotools.log",
	},
}

// WriteDefaultConfig writes the default configuration as YAML.
func WriteDefaultConfig(cfile string) error {
	data, err := yaml.Marshal(DefaultAppConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(cfile, data, 0o644)
}

func setEnvStrValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	appConfig := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg := new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err == nil {
				appConfig = cfg
			}
		}
	}

	setEnvStrValue("AEROTOOLS_SYSTEM_WORKDIR", &appConfig.System.Workdir)
	setEnvBoolValue("AEROTOOLS_SYSTEM_DEBUG", &appConfig.System.Debug)
	setEnvStrValue("AEROTOOLS_DB_HOST", &appConfig.Database.Host)
	setEnvStrValue("AEROTOOLS_DB_NAME", &appConfig.Database.Name)
	setEnvStrValue("AEROTOOLS_DB_USER", &appConfig.Database.User)
	setEnvStrValue("AEROTOOLS_DB_PWD", &appConfig.Database.Passwd)
	setEnvStrValue("AEROTOOLS_MIRROR_ADDR", &appConfig.Mirror.Addr)
	setEnvStrValue("AEROTOOLS_MIRROR_TOKEN", &appConfig.Mirror.Token)
	setEnvStrValue("AEROTOOLS_SMTP_HOST", &appConfig.Mail.SmtpHost)
	setEnvStrValue("AEROTOOLS_SMTP_PWD", &appConfig.Mail.Password)

	if appConfig.Logger.Filename == "" {
		appConfig.Logger.Filename = path.Join(appConfig.System.Workdir, "aerotools.log")
	}

	return appConfig
}

package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system level configuration
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// AssistantConfig language model assistant configuration
type AssistantConfig struct {
	ApiUrl string `yaml:"api_url" json:"api_url"`
	ApiKey string `yaml:"api_key" json:"api_key"`
	Model  string `yaml:"model" json:"model"`
	// Timeout bounds each model call, in seconds
	Timeout int `yaml:"timeout" json:"timeout"`
	// MaxCandidates caps how many retrieved products are serialized
	// into the synthesis prompt
	MaxCandidates int `yaml:"max_candidates" json:"max_candidates"`
}

// CallTimeout returns the per-call model timeout as a duration,
// defaulting to 30s when unset.
func (c AssistantConfig) CallTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Database  DBConfig        `yaml:"database" json:"database"`
	Assistant AssistantConfig `yaml:"assistant" json:"assistant"`
	Logger    LogConfig       `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return ensureDir(c.System.Workdir + "/logs")
}

func (c *AppConfig) GetDataDir() string {
	return ensureDir(c.System.Workdir + "/data")
}

func ensureDir(path string) string {
	if _, err := os.Stat(path); err != nil {
		_ = os.MkdirAll(path, 0o755)
	}
	return path
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Asisbot",
		Location: "America/Santiago",
		Workdir:  "/var/asisbot",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-asisbot-1816-9e4e-0ab8-secret",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "asisbot_v1",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Assistant: AssistantConfig{
		ApiUrl:        "https://api.openai.com/v1/chat/completions",
		Model:         "gpt-4-turbo",
		Timeout:       30,
		MaxCandidates: 40,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "asisbot.log",
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the YAML configuration file and applies
// environment variable overrides. A nil result never occurs; missing
// file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	appconfig := new(AppConfig)
	*appconfig = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, appconfig)
		}
	}

	setEnvValue("ASISBOT_SYSTEM_WORKDIR", &appconfig.System.Workdir)
	setEnvBoolValue("ASISBOT_SYSTEM_DEBUG", &appconfig.System.Debug)

	setEnvValue("ASISBOT_WEB_HOST", &appconfig.Web.Host)
	setEnvValue("ASISBOT_WEB_SECRET", &appconfig.Web.Secret)
	setEnvIntValue("ASISBOT_WEB_PORT", &appconfig.Web.Port)

	setEnvValue("ASISBOT_DB_TYPE", &appconfig.Database.Type)
	setEnvValue("ASISBOT_DB_HOST", &appconfig.Database.Host)
	setEnvIntValue("ASISBOT_DB_PORT", &appconfig.Database.Port)
	setEnvValue("ASISBOT_DB_NAME", &appconfig.Database.Name)
	setEnvValue("ASISBOT_DB_USER", &appconfig.Database.User)
	setEnvValue("ASISBOT_DB_PWD", &appconfig.Database.Passwd)

	setEnvValue("ASISBOT_OPENAI_API_URL", &appconfig.Assistant.ApiUrl)
	setEnvValue("ASISBOT_OPENAI_API_KEY", &appconfig.Assistant.ApiKey)
	setEnvValue("ASISBOT_OPENAI_MODEL", &appconfig.Assistant.Model)
	setEnvIntValue("ASISBOT_OPENAI_TIMEOUT", &appconfig.Assistant.Timeout)
	setEnvIntValue("ASISBOT_OPENAI_MAX_CANDIDATES", &appconfig.Assistant.MaxCandidates)

	setEnvValue("ASISBOT_LOGGER_MODE", &appconfig.Logger.Mode)
	setEnvBoolValue("ASISBOT_LOGGER_FILE_ENABLE", &appconfig.Logger.FileEnable)

	return appconfig
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации vec3calc.

type Config struct {
	Log  LogConfig  `yaml:"log"`
	Calc CalcConfig `yaml:"calc"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
	Dir    string `yaml:"dir"`
}

type CalcConfig struct {
	// Element - тип компонент по умолчанию для скриптов без поля element
	Element string `yaml:"element"`
}

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultElement   = "float"
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Calc: CalcConfig{
			Element: defaultElement,
		},
	}
}

// GetLevel возвращает уровень логирования с поддержкой fallback значений
func (l *LogConfig) GetLevel() string {
	return getWithEnvFallback(l.Level, "VEC3_LOG_LEVEL", defaultLogLevel)
}

// GetFormat возвращает формат логов с поддержкой fallback значений
func (l *LogConfig) GetFormat() string {
	return getWithEnvFallback(l.Format, "VEC3_LOG_FORMAT", defaultLogFormat)
}

// GetElement возвращает тип компонент с поддержкой fallback значений
func (c *CalcConfig) GetElement() string {
	return getWithEnvFallback(c.Element, "VEC3_ELEMENT", defaultElement)
}

// getWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getWithEnvFallback(configValue, envVar, defaultValue string) string {
	if v := strings.TrimSpace(configValue); v != "" {
		return v
	}

	if envVal := strings.TrimSpace(os.Getenv(envVar)); envVal != "" {
		return envVal
	}

	return defaultValue
}

// Validate проверяет значения, заданные явно
func (c *Config) Validate() error {
	switch format := c.Log.GetFormat(); format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: неизвестный формат %q", format)
	}

	switch element := c.Calc.GetElement(); element {
	case "int", "float":
	default:
		return fmt.Errorf("calc.element: неизвестный тип %q", element)
	}
	return nil
}

// Marshal сериализует конфигурацию в YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// LoadOrEmpty работает как Load, но без файла возвращает пустой Config.
// Пустые поля заполняются геттерами из ENV или значениями по умолчанию.
func LoadOrEmpty(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV VEC3_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VEC3_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

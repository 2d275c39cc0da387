package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки (без учета регистра)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case TRACE:
		return zerolog.TraceLevel
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Options задает параметры создания логгера
type Options struct {
	Level LogLevel
	// JSON выключает ConsoleWriter и пишет строки JSON
	JSON bool
	// Dir - каталог для файла логов; пустая строка отключает запись в файл
	Dir string
	// Out - поток для консольного вывода, по умолчанию os.Stderr
	Out io.Writer
}

// Logger представляет систему логирования для одного компонента
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// defaultLogger используется пакетными функциями Trace/Debug/Info/Warn/Error
var defaultLogger = newConsoleLogger("", os.Stderr, INFO, false)

func init() {
	// Фильтрация выполняется уровнем каждого Logger
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func newConsoleLogger(component string, out io.Writer, level LogLevel, asJSON bool) *Logger {
	var w io.Writer = out
	if !asJSON {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return &Logger{zl: buildZerolog(w, component, level)}
}

func buildZerolog(w io.Writer, component string, level LogLevel) zerolog.Logger {
	ctx := zerolog.New(w).Level(level.zerolog()).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return ctx.Logger()
}

// NewLoggerWithOptions создает логгер компонента.
// Если задан Dir, все сообщения дублируются в файл <component>_<время>.log.
func NewLoggerWithOptions(component string, opts Options) (*Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if !opts.JSON {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	if opts.Dir == "" {
		return &Logger{zl: buildZerolog(console, component, opts.Level)}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", opts.Dir, err)
	}

	name := component
	if name == "" {
		name = "vec3calc"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.log", name, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	w := zerolog.MultiLevelWriter(console, file)
	return &Logger{zl: buildZerolog(w, component, opts.Level), file: file}, nil
}

// SetLevel меняет минимальный уровень логгера
func (l *Logger) SetLevel(level LogLevel) {
	l.zl = l.zl.Level(level.zerolog())
}

// Close закрывает файл логов, если он открыт
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Trace(format string, args ...interface{}) { l.zl.Trace().Msgf(format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.zl.Debug().Msgf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.zl.Info().Msgf(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.zl.Warn().Msgf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.zl.Error().Msgf(format, args...) }

// With возвращает дочерний логгер с дополнительным строковым полем
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// InitDefaultLogger инициализирует глобальный логгер
func InitDefaultLogger(component string) error {
	return InitDefaultLoggerWithOptions(component, Options{Level: INFO})
}

// InitDefaultLoggerWithOptions инициализирует глобальный логгер с параметрами
func InitDefaultLoggerWithOptions(component string, opts Options) error {
	logger, err := NewLoggerWithOptions(component, opts)
	if err != nil {
		return err
	}
	_ = defaultLogger.Close()
	defaultLogger = logger
	return nil
}

// CloseDefaultLogger закрывает глобальный логгер
func CloseDefaultLogger() {
	_ = defaultLogger.Close()
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) {
	defaultLogger.Trace(format, args...)
}

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

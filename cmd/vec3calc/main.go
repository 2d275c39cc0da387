package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/vec3math/internal/calc"
	"github.com/annel0/vec3math/internal/config"
	"github.com/annel0/vec3math/internal/logging"
)

var CLI struct {
	Debug       bool   `help:"Включить отладочное логирование."`
	ConfigFile  string `help:"Файл конфигурации (YAML)." type:"path" name:"config" env:"VEC3_CONFIG"`
	MetricsFile string `help:"Записать метрики Prometheus в текстовый файл." type:"path"`

	Eval struct {
		Scripts []string `arg:"" name:"scripts" help:"Скрипты с операциями над векторами." type:"existingfile"`
	} `cmd:"" help:"Выполнить скрипты."`

	Config struct {
	} `cmd:"" help:"Вывести конфигурацию по умолчанию."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vec3calc"),
		kong.Description("калькулятор трехмерных векторов"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	switch ctx.Command() {
	case "eval <scripts>":
		if err := evalCommand(CLI.Eval.Scripts); err != nil {
			writeError(err)
		}
	case "config":
		data, err := config.Default().Marshal()
		if err != nil {
			writeError(err)
		}
		os.Stdout.Write(data)
	}
}

func loggerOptions(cfg *config.Config) (logging.Options, error) {
	level, err := logging.ParseLevel(cfg.Log.GetLevel())
	if err != nil {
		return logging.Options{}, err
	}
	if CLI.Debug {
		level = logging.DEBUG
	}
	return logging.Options{
		Level: level,
		JSON:  cfg.Log.GetFormat() == "json",
		Dir:   cfg.Log.Dir,
	}, nil
}

func evalCommand(scripts []string) error {
	cfg, err := config.LoadOrEmpty(CLI.ConfigFile)
	if err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}

	opts, err := loggerOptions(cfg)
	if err != nil {
		return err
	}
	if err := logging.InitDefaultLoggerWithOptions("vec3calc", opts); err != nil {
		return err
	}
	defer logging.CloseDefaultLogger()

	manager := logging.GetLoggerManager()
	manager.Configure(logging.Options{Level: opts.Level, JSON: opts.JSON})
	defer manager.CloseAll()

	cli := logging.GetCLILogger()
	if CLI.Debug {
		cli.Warn("debug logging enabled")
	}

	registry := prometheus.NewRegistry()
	evaluator := calc.NewEvaluator(
		calc.WithLogger(logging.GetCalcLogger()),
		calc.WithMetrics(calc.NewMetrics(registry)),
		calc.WithDefaultElement(cfg.Calc.GetElement()),
	)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var failed []error
	for _, path := range scripts {
		script, err := calc.LoadScript(path)
		if err != nil {
			cli.Error("Ошибка загрузки %s: %v", path, err)
			failed = append(failed, err)
			continue
		}

		report, err := evaluator.Evaluate(runCtx, script)
		if report != nil {
			if werr := report.Write(os.Stdout); werr != nil {
				return werr
			}
		}
		if err != nil {
			cli.Error("❌ %s: %v", path, err)
			failed = append(failed, fmt.Errorf("%s: %w", path, err))
			if errors.Is(err, context.Canceled) {
				break
			}
		}
	}

	if CLI.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(CLI.MetricsFile, registry); err != nil {
			cli.Error("Ошибка записи метрик: %v", err)
		}
	}

	return errors.Join(failed...)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mobo140/igbot-cli/cmd/root"
	"github.com/Mobo140/igbot-cli/internal/clients/accounts"
	"github.com/Mobo140/igbot-cli/internal/clients/auth"
	"github.com/Mobo140/igbot-cli/internal/clients/transport"
	"github.com/Mobo140/igbot-cli/internal/clipboard"
	"github.com/Mobo140/igbot-cli/internal/config"
	"github.com/Mobo140/igbot-cli/internal/config/env"
	"github.com/Mobo140/igbot-cli/internal/dashboard"
	"github.com/Mobo140/igbot-cli/internal/session"
	"github.com/Mobo140/igbot-cli/internal/storage"
	"github.com/Mobo140/platform_common/pkg/closer"
	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/Mobo140/platform_common/pkg/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logsMaxSize      = 10
	logsMaxBackups   = 3
	logsMaxAge       = 7
	igbotServiceName = "igbot-cli"
)

// App holds the configured clients and the dashboard state.
type App struct {
	configPath  string
	loggerLevel string

	session    *session.Store
	dashboard  *dashboard.ViewModel
	clipboard  *clipboard.Copier
	contactURL string
}

func main() {
	// Flags are parsed before the commands exist so the config path is known.
	if err := root.RootCmd.ParseFlags(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, root.ConfigPath)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	root.InitCommands(root.Deps{
		Session:    app.session,
		Dashboard:  app.dashboard,
		Clipboard:  app.clipboard,
		ContactURL: app.contactURL,
	})

	err = root.RootCmd.ExecuteContext(ctx)

	closer.CloseAll()
	closer.Wait()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewApp loads the config and wires the API clients, the session store and
// the dashboard view-model.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	app := &App{
		configPath:  configPath,
		loggerLevel: root.LogLevel,
	}

	err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	err = app.initLogger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %v", err)
	}

	err = initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to init tracer: %v", err)
	}

	err = app.initDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init dashboard: %v", err)
	}

	return app, nil
}

func (a *App) initLogger(_ context.Context) error {
	level, err := getAtomicLevel(a.loggerLevel)
	if err != nil {
		return err
	}

	logger.Init(getCore(level))

	return nil
}

func getCore(level zap.AtomicLevel) zapcore.Core {
	// Console logs go to stderr so command output stays clean.
	stderr := zapcore.AddSync(os.Stderr)

	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/app.log",
		MaxSize:    logsMaxSize, // megabytes
		MaxBackups: logsMaxBackups,
		MaxAge:     logsMaxAge, // days
	})

	productionCfg := zap.NewProductionEncoderConfig()
	productionCfg.TimeKey = "timestamp"
	productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(developmentCfg)
	fileEncoder := zapcore.NewJSONEncoder(productionCfg)

	return zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, stderr, level),
		zapcore.NewCore(fileEncoder, file, level),
	)
}

func getAtomicLevel(logLevel string) (zap.AtomicLevel, error) {
	var level zapcore.Level
	if err := level.Set(logLevel); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("failed to set log level: %w", err)
	}

	return zap.NewAtomicLevelAt(level), nil
}

func (a *App) initDashboard(_ context.Context) error {
	apiCfg, err := APIClientConfig()
	if err != nil {
		return err
	}

	storageCfg, err := StorageConfig()
	if err != nil {
		return err
	}

	st, err := storage.OpenFile(storageCfg.CredentialsFile())
	if err != nil {
		return fmt.Errorf("failed to open credentials file: %w", err)
	}

	a.contactURL = ContactConfig().ContactURL()

	tr := transport.New(apiCfg.BaseURL(), apiCfg.Timeout())

	a.session = session.New(auth.NewAuthClient(tr), st, a.contactURL)
	a.dashboard = dashboard.New(accounts.NewAccountsClient(tr, a.session), a.session, tr.BaseURL())
	a.clipboard = clipboard.New()

	closer.Add(func() error {
		a.dashboard.Flush()
		a.dashboard.Dispose()
		a.session.Dispose()

		return st.Close()
	})

	return nil
}

func APIClientConfig() (config.APIClientConfig, error) {
	cfg, err := env.NewAPIClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load api client config: %w", err)
	}

	return cfg, nil
}

func StorageConfig() (config.StorageConfig, error) {
	cfg, err := env.NewStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	return cfg, nil
}

func ContactConfig() config.ContactConfig {
	return env.NewContactConfig()
}

func initTracer() error {
	cfg, err := JaegerConfig()
	if err != nil {
		return err
	}
	if !cfg.Enabled() {
		logger.Debug("tracing disabled")

		return nil
	}

	tracing.Init(logger.Logger(), igbotServiceName, cfg.Address())

	return nil
}

func JaegerConfig() (config.JaegerConfig, error) {
	cfg, err := env.NewJaegerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load jaeger config: %w", err)
	}

	return cfg, nil
}

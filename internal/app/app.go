package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/lledoind/aerotools/config"
	"github.com/lledoind/aerotools/internal/catalog"
	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/mailer"
	"github.com/lledoind/aerotools/internal/mirror"
	"github.com/lledoind/aerotools/internal/quote"
	"github.com/lledoind/aerotools/internal/shop"
	"github.com/lledoind/aerotools/internal/store"
	"github.com/lledoind/aerotools/pkg/metrics"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	stateStore    store.Store
	bus           EventBus.Bus
	catalog       *catalog.Catalog
	shopStore     *shop.CatalogStore
	quoteStore    *quote.Store
	mailSender    *mailer.Sender
	sched         *cron.Cron
	configManager *ConfigManager
}

// Ensure Application implements all interfaces
var (
	_ DBProvider            = (*Application)(nil)
	_ ConfigProvider        = (*Application)(nil)
	_ SettingsProvider      = (*Application)(nil)
	_ SchedulerProvider     = (*Application)(nil)
	_ ConfigManagerProvider = (*Application)(nil)
	_ AppContext            = (*Application)(nil)
)

var gapp *Application

// GApp returns the global application instance.
func GApp() *Application {
	return gapp
}

func NewApplication(appConfig *config.AppConfig) *Application {
	gapp = &Application{appConfig: appConfig}
	return gapp
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before loading configs
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	// Local state store for the catalog overlay and the quote cart
	boltStore, err := store.NewBoltStore(filepath.Join(cfg.System.Workdir, "data", "aerotools.db"))
	if err != nil {
		zap.S().Fatalf("failed to open state store: %v", err)
	}
	a.stateStore = boltStore

	a.bus = EventBus.New()

	// Compatibility catalog is embedded read-only reference data
	a.catalog, err = catalog.Load()
	if err != nil {
		zap.S().Fatalf("failed to load compatibility catalog: %v", err)
	}
	zap.S().Infof("compatibility catalog loaded: %d helicopters, %d parts",
		len(a.catalog.Helicopters()), len(a.catalog.Parts()))

	var mirrorClient shop.Mirror
	if cfg.Mirror.Enabled {
		mirrorClient = mirror.NewClient(cfg.Mirror)
	}
	debounce := time.Duration(cfg.Mirror.DebounceMs) * time.Millisecond
	a.shopStore = shop.NewCatalogStore(a.stateStore, a.bus, mirrorClient, debounce)

	loadCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a.shopStore.Load(loadCtx)
	cancel()

	a.quoteStore = quote.NewStore(a.stateStore)
	a.quoteStore.Load()

	a.mailSender = mailer.NewSender(cfg.Mail)

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkSettings()
	}()

	// Initialize the configuration manager
	a.configManager = NewConfigManager(a)

	a.initJob()
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Catalog returns the embedded compatibility catalog
func (a *Application) Catalog() *catalog.Catalog {
	return a.catalog
}

// ShopStore returns the merged shop catalog store
func (a *Application) ShopStore() *shop.CatalogStore {
	return a.shopStore
}

// QuoteStore returns the quote aggregation store
func (a *Application) QuoteStore() *quote.Store {
	return a.quoteStore
}

// Mailer returns the quote request mail sender
func (a *Application) Mailer() *mailer.Sender {
	return a.mailSender
}

// StateStore returns the local key-value state store
func (a *Application) StateStore() store.Store {
	return a.stateStore
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}

	if a.shopStore != nil {
		a.shopStore.Stop()
	}

	if a.mailSender != nil {
		a.mailSender.Release()
	}

	if a.stateStore != nil {
		_ = a.stateStore.Close()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}

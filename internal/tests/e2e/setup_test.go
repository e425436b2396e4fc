package e2e

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/coursegate/internal/app"
	"github.com/you/coursegate/internal/config"
	testconfig "github.com/you/coursegate/internal/tests/config"
)

// TestSuite holds the E2E test infrastructure: the assembled service on an
// in-memory database and an in-process Redis
type TestSuite struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Mini      *miniredis.Miniredis
	Container *app.Container
}

// NewTestSuite assembles a fresh service for one test
func NewTestSuite(t *testing.T) *TestSuite {
	t.Helper()

	cfg := testconfig.LoadTestConfig(t, nil)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	mini := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	c, err := app.Assemble(cfg, zap.NewNop(), db, rdb)
	if err != nil {
		t.Fatalf("Failed to assemble service: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return &TestSuite{Config: cfg, DB: db, Redis: rdb, Mini: mini, Container: c}
}

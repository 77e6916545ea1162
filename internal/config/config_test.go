package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ecis/inspection-gin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadConfigFromFile 测试从配置文件加载配置
func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8088
database:
  driver: "sqlite"
  dbname: "ecis.db"
api:
  key: "secret"
notification:
  webhooks:
    - "http://hooks.local/ecis"
quote:
  default_assignee: "sales-001"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ecis.db", cfg.Database.DBName)
	assert.Equal(t, "secret", cfg.API.Key)
	assert.Equal(t, []string{"http://hooks.local/ecis"}, cfg.Notification.Webhooks)
	assert.Equal(t, "sales-001", cfg.Quote.DefaultAssignee)
	// 未配置的项使用默认值
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Equal(t, 5, cfg.API.QuoteBurst)
}

// TestLoadConfigFromEnv 测试从环境变量加载配置
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_SERVER_HOST", "10.0.0.5")
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_API_KEY", "env-secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.API.Key)
}

// TestLoadConfigMissingFile 测试指定的配置文件不存在
func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestConfigDefaults 测试配置默认值
func TestConfigDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 3, cfg.Notification.MaxRetries)
}

// TestConfigValidate 测试配置校验
func TestConfigValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	// 生产环境必须配置 API 密钥
	cfg = config.Default()
	cfg.Env = "production"
	assert.Error(t, cfg.Validate())
	cfg.API.KeyHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, cfg.Validate())
}

// TestIsProduction 测试生产环境判断
func TestIsProduction(t *testing.T) {
	assert.False(t, config.IsProduction(nil))
	assert.False(t, config.IsProduction(&config.Config{Env: "development"}))
	assert.True(t, config.IsProduction(&config.Config{Env: "production"}))
}

// TestConfigWatcherReload 测试配置文件变更后重新加载
func TestConfigWatcherReload(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
log:
  level: "info"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	watcher := config.NewConfigWatcher(cfg, path)
	var mu sync.Mutex
	var reloaded *config.Config
	watcher.OnConfigChange(func(c *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = c
	})
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
log:
  level: "warn"
`), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil && reloaded.Log.Level == "warn"
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, "warn", watcher.GetConfig().Log.Level)
	// 重新加载时保留默认值
	assert.Equal(t, "postgres", watcher.GetConfig().Database.Driver)
}

// TestConfigWatcherRejectsInvalid 测试不合法的配置不会生效
func TestConfigWatcherRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	watcher := config.NewConfigWatcher(cfg, path)
	var mu sync.Mutex
	var reloadErr error
	watcher.OnError(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reloadErr = err
	})
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
database:
  driver: "oracle"
`), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloadErr != nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.Same(t, cfg, watcher.GetConfig())
}

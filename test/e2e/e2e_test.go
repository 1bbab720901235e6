// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopping-agent/internal/api"
	"shopping-agent/internal/catalog"
	"shopping-agent/internal/common/config"
	apihttp "shopping-agent/internal/common/http"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/pipeline"
	"shopping-agent/internal/session"
)

const keyPrefix = "e2e:session:"

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog = logger.New("warn", "console")
	code := m.Run()
	_ = zapLog.Sync()
	os.Exit(code)
}

type stack struct {
	client *apihttp.Client
	redis  *miniredis.Miniredis
}

// startStack wires the API exactly as cmd/shopping-api does, from a config file
// selecting a file catalog and a redis session store.
func startStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	data, err := catalog.Marshal(catalog.SeedProducts())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(catalogPath, data, 0o644))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
app:
  name: shopping-agent
  version: e2e
database:
  redis:
    address: %s
session:
  store: redis
  ttl_hours: 24
  key_prefix: "%s"
catalog:
  source: file
  file_path: %s
`, mr.Addr(), keyPrefix, catalogPath)), 0o644))

	cfg, err := config.LoadFromFile(configPath)
	require.NoError(t, err)

	log := logger.NewZapAdapter(zapLog)

	products, closeCatalog, err := catalog.Open(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeCatalog() })

	store, closeStore, err := session.Open(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	stages, err := pipeline.NewStages(log)
	require.NoError(t, err)
	sessions := session.NewManager(store, session.OptionsFromConfig(cfg.Session), log)
	orchestrator := pipeline.New(stages, products, sessions, log, pipeline.WithSeed(42))

	srv := httptest.NewServer(api.NewRouter(api.New(orchestrator, cfg.App.Version, log), 5*time.Second))
	t.Cleanup(srv.Close)

	return &stack{client: apihttp.NewClient(srv.URL, 5*time.Second), redis: mr}
}

func apiError(t *testing.T, err error) *apihttp.APIError {
	t.Helper()
	var apiErr *apihttp.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr
}

// ==========================
// Shopping conversation
// ==========================

func TestShoppingConversation(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	health, err := s.client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "e2e", health["version"])

	id, err := s.client.CreateSession(ctx)
	require.NoError(t, err)
	assert.True(t, s.redis.Exists(keyPrefix+id))

	greeting, err := s.client.Chat(ctx, id, "こんにちは")
	require.NoError(t, err)
	assert.Equal(t, id, greeting.SessionID)
	assert.Nil(t, greeting.TotalCount)

	search, err := s.client.Chat(ctx, id, "安いスマホを探したい")
	require.NoError(t, err)
	require.NotNil(t, search.TotalCount)
	assert.Equal(t, 4, *search.TotalCount)
	require.Len(t, search.Products, 4)
	assert.Equal(t, "clothing_001", search.Products[0].ID)
	assert.Contains(t, search.Message, "検索結果: 4件")

	favorites, err := s.client.AddFavorite(ctx, id, search.Products[0].ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "clothing_001", favorites[0].ID)

	// adding the same product twice keeps one entry
	favorites, err = s.client.AddFavorite(ctx, id, "clothing_001")
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	_, err = s.client.AddFavorite(ctx, id, "missing_999")
	assert.Equal(t, "PRODUCT_NOT_FOUND", apiError(t, err).Code)

	require.NoError(t, s.client.DeleteSession(ctx, id))
	assert.False(t, s.redis.Exists(keyPrefix+id))

	_, err = s.client.AddFavorite(ctx, id, "clothing_001")
	apiErr := apiError(t, err)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "SESSION_NOT_FOUND", apiErr.Code)
}

func TestDirectSearch(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	anonymous, err := s.client.Search(ctx, "", "iPhone")
	require.NoError(t, err)
	require.Equal(t, 1, anonymous.TotalCount)
	assert.Equal(t, "phone_001", anonymous.Products[0].ID)

	_, err = s.client.Search(ctx, "", "   ")
	apiErr := apiError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
}

func TestChatValidation(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	_, err := s.client.Chat(ctx, "", "   ")
	assert.Equal(t, "VALIDATION_FAILED", apiError(t, err).Code)

	_, err = s.client.Chat(ctx, "not-a-uuid", "こんにちは")
	assert.Equal(t, 400, apiError(t, err).Status)

	assert.Empty(t, s.redis.Keys())
}

func TestSessionsExpire(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	res, err := s.client.Chat(ctx, "", "こんにちは")
	require.NoError(t, err)
	require.True(t, s.redis.Exists(keyPrefix+res.SessionID))

	s.redis.FastForward(25 * time.Hour)

	_, err = s.client.AddFavorite(ctx, res.SessionID, "phone_001")
	assert.Equal(t, "SESSION_NOT_FOUND", apiError(t, err).Code)
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"shopping-agent/internal/catalog"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/models"
	"shopping-agent/internal/session"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) All(context.Context) ([]models.Product, error) {
	return nil, errors.New("catalog offline")
}

func (failingProvider) Get(context.Context, string) (models.Product, error) {
	return models.Product{}, errors.New("catalog offline")
}

func newTestOrchestrator(t *testing.T, provider catalog.Provider, opts ...Option) (*Orchestrator, *session.MemoryStore) {
	t.Helper()
	log := logger.NewTestLogger(t)

	stages, err := NewStages(log)
	require.NoError(t, err)

	store := session.NewMemoryStore(24 * time.Hour)
	manager := session.NewManager(store, session.DefaultOptions(), log)
	return New(stages, provider, manager, log, opts...), store
}

func seedCatalog() catalog.Provider {
	return catalog.NewMemory(catalog.SeedProducts())
}

func productIDs(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func hasPrefixIn(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// ==========================
// HandleMessage
// ==========================

func TestOrchestrator_HandleMessage(t *testing.T) {
	synthCfg := synthesizeresponse.DefaultConfig()
	greetings := synthCfg.Templates[synthesizeresponse.PoolGreeting]
	noResults := synthCfg.Templates[synthesizeresponse.PoolNoResults]

	tests := []struct {
		name           string
		message        string
		wantErr        bool
		validateOutput func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult)
	}{
		{
			name:    "greeting answers from the greeting pool without a search",
			message: "こんにちは",
			validateOutput: func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult) {
				assert.Equal(t, models.IntentGreeting, res.Intent.Type)
				assert.Contains(t, greetings, res.Message)
				assert.Equal(t, o.stages.Synthesizer.IntentSuggestions(models.IntentGreeting), res.Suggestions)
				assert.Nil(t, res.Products)
				assert.Nil(t, res.TotalCount)
				assert.False(t, res.RequiresAction)
			},
		},
		{
			name:    "search intent filters by accumulated preferences",
			message: "安いスマホを探したい",
			validateOutput: func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult) {
				assert.Equal(t, models.IntentProductSearch, res.Intent.Type)
				assert.False(t, res.Intent.Fallback)
				require.NotNil(t, res.TotalCount)
				assert.Equal(t, 4, *res.TotalCount)
				assert.Equal(t, []string{"clothing_001", "clothing_002", "book_001", "food_001"}, productIDs(res.Products))
				assert.True(t, res.RequiresAction)
				assert.Contains(t, res.Message, "検索結果: 4件")
				assert.Equal(t, o.stages.Synthesizer.ResultSuggestions(res.Products), res.Suggestions)
			},
		},
		{
			name:    "unrecognized input searches with the message as query",
			message: "iPhone",
			validateOutput: func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult) {
				assert.True(t, res.Intent.Fallback)
				assert.InDelta(t, 0.5, res.Intent.Confidence, 1e-9)
				require.NotNil(t, res.TotalCount)
				assert.Equal(t, 1, *res.TotalCount)
				assert.Equal(t, []string{"phone_001"}, productIDs(res.Products))
				assert.Contains(t, res.Message, "【iPhone 15】")
			},
		},
		{
			name:    "brand name alone finds the single product",
			message: "Nike",
			validateOutput: func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult) {
				assert.True(t, res.Intent.Fallback)
				require.NotNil(t, res.TotalCount)
				assert.Equal(t, 1, *res.TotalCount)
				assert.Equal(t, []string{"clothing_001"}, productIDs(res.Products))
				assert.True(t, res.RequiresAction)
				assert.Contains(t, res.Message, "【Nike Air Max 270】")
				assert.NotContains(t, res.Message, "検索結果:")
			},
		},
		{
			name:    "unknown product offers to broaden the search",
			message: "xyz-nonexistent",
			validateOutput: func(t *testing.T, o *Orchestrator, res *models.ChatTurnResult) {
				assert.True(t, res.Intent.Fallback)
				require.NotNil(t, res.TotalCount)
				assert.Equal(t, 0, *res.TotalCount)
				assert.Empty(t, res.Products)
				assert.False(t, res.RequiresAction)
				assert.True(t, hasPrefixIn(res.Message, noResults), "unexpected reply %q", res.Message)
				assert.Equal(t, synthCfg.BroadenSearch, res.Suggestions)
			},
		},
		{
			name:    "blank message is rejected",
			message: " \n\t ",
			wantErr: true,
		},
		{
			name:    "markup only message is rejected",
			message: "<b></b>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, store := newTestOrchestrator(t, seedCatalog(), WithSeed(7))
			ctx := context.Background()

			res, err := o.HandleMessage(ctx, "", tt.message)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				live, _ := store.List(ctx)
				assert.Empty(t, live)
				return
			}
			require.NoError(t, err)
			_, err = uuid.Parse(res.SessionID)
			assert.NoError(t, err)

			sess, err := o.GetSession(ctx, res.SessionID)
			require.NoError(t, err)
			require.Len(t, sess.ConversationHistory, 2)
			assert.Equal(t, models.RoleUser, sess.ConversationHistory[0].Role)
			assert.Equal(t, res.Message, sess.ConversationHistory[1].Text)

			if tt.validateOutput != nil {
				tt.validateOutput(t, o, res)
			}
		})
	}
}

func TestOrchestrator_HandleMessageMatchesSpecialCharacters(t *testing.T) {
	tee := models.Product{
		ID:          "clothing_hm",
		Name:        "H&M Basic Tee",
		Price:       1500,
		Description: "Everyday cotton tee",
		Category:    "clothing",
		Brand:       "H&M",
		Rating:      4.1,
	}
	provider := catalog.NewMemory(append(catalog.SeedProducts(), tee))
	o, _ := newTestOrchestrator(t, provider, WithSeed(3))
	ctx := context.Background()

	for _, message := range []string{"H&M Basic Tee", "H&M", "<b>H&M</b>"} {
		t.Run(message, func(t *testing.T) {
			res, err := o.HandleMessage(ctx, "", message)
			require.NoError(t, err)
			assert.True(t, res.Intent.Fallback)
			require.NotNil(t, res.TotalCount)
			assert.Equal(t, 1, *res.TotalCount)
			assert.Equal(t, []string{"clothing_hm"}, productIDs(res.Products))

			sess, err := o.GetSession(ctx, res.SessionID)
			require.NoError(t, err)
			assert.Contains(t, sess.ConversationHistory[0].Text, "H&amp;M")
			require.Len(t, sess.SearchHistory, 1)
			assert.Contains(t, sess.SearchHistory[0].Query, "H&amp;M")
		})
	}
}

func TestOrchestrator_PreferencesAccumulate(t *testing.T) {
	o, _ := newTestOrchestrator(t, seedCatalog(), WithSeed(1))
	ctx := context.Background()
	id := uuid.NewString()

	first, err := o.HandleMessage(ctx, id, "安いスマホを探したい")
	require.NoError(t, err)
	assert.Equal(t, id, first.SessionID)
	assert.Equal(t, 4, *first.TotalCount)

	second, err := o.HandleMessage(ctx, id, "Nikeの靴を探したい")
	require.NoError(t, err)
	require.NotNil(t, second.TotalCount)
	assert.Equal(t, []string{"clothing_001"}, productIDs(second.Products))

	sess, err := o.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PriceLow, sess.Preferences.PriceRange)
	assert.Equal(t, []string{"Nike"}, sess.Preferences.Brands)
	assert.Len(t, sess.ConversationHistory, 4)
	require.Len(t, sess.SearchHistory, 2)
	assert.Equal(t, 1, sess.SearchHistory[1].ResultCount)
}

func TestOrchestrator_CatalogFailureDegrades(t *testing.T) {
	o, _ := newTestOrchestrator(t, failingProvider{}, WithSeed(3))

	res, err := o.HandleMessage(context.Background(), "", "安いスマホを探したい")
	require.NoError(t, err)
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, 0, *res.TotalCount)
	assert.Empty(t, res.Products)
	assert.False(t, res.RequiresAction)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, []string{"価格を変更して検索", "カテゴリを変更して検索", "別のキーワードで検索"}, res.Suggestions)
}

func TestOrchestrator_CancelledTurnDoesNotCommit(t *testing.T) {
	o, store := newTestOrchestrator(t, seedCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.HandleMessage(ctx, "s-cancelled", "こんにちは")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.CodeOf(err))

	live, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestOrchestrator_SeedIsReproducible(t *testing.T) {
	a, _ := newTestOrchestrator(t, seedCatalog(), WithSeed(99))
	b, _ := newTestOrchestrator(t, seedCatalog(), WithSeed(99))

	for _, msg := range []string{"こんにちは", "ヘルプ", "さようなら"} {
		ra, err := a.HandleMessage(context.Background(), "", msg)
		require.NoError(t, err)
		rb, err := b.HandleMessage(context.Background(), "", msg)
		require.NoError(t, err)
		assert.Equal(t, ra.Message, rb.Message, msg)
	}
}

// ==========================
// Concurrency
// ==========================

func TestOrchestrator_ConcurrentTurnsSameSession(t *testing.T) {
	o, _ := newTestOrchestrator(t, seedCatalog())
	ctx := context.Background()
	id := uuid.NewString()

	const turns = 20
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := "こんにちは"
			if i%2 == 1 {
				msg = "安いスマホを探したい"
			}
			_, err := o.HandleMessage(ctx, id, msg)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sess, err := o.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.ConversationHistory, 2*turns)
	assert.Equal(t, turns, sess.UserMessageCount())
	assert.Len(t, sess.SearchHistory, turns/2)
}

func TestOrchestrator_ConcurrentSessionsAreIndependent(t *testing.T) {
	o, _ := newTestOrchestrator(t, seedCatalog())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			for j := 0; j < 3; j++ {
				_, err := o.HandleMessage(ctx, id, "こんにちは")
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	stats, err := o.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.ActiveSessions)
	assert.Equal(t, 15, stats.TotalConversations)
}

func TestStages_JobHandlersCoverRegistry(t *testing.T) {
	stages, err := NewStages(logger.NewNoOpLogger())
	require.NoError(t, err)

	handlers := stages.JobHandlers()
	assert.Len(t, handlers, 5)
	for _, taskType := range []string{"classify-intent", "extract-preferences", "filter-products", "rank-products", "synthesize-response"} {
		assert.Contains(t, handlers, taskType)
	}
}

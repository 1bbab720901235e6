package pipeline

import (
	"context"
	"errors"

	"shopping-agent/internal/catalog"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/models"
	"shopping-agent/internal/session"
	extractpreferences "shopping-agent/internal/workers/preference/extract-preferences"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"
)

const (
	DefaultListLimit     = 10
	DefaultHistoryLimit  = 20
	emptyQuery           = "検索クエリが空です"
	emptyComparisonInput = "比較する商品IDが指定されていません"
)

// ComparisonReport pairs a comparison with its rendered Japanese summary.
type ComparisonReport struct {
	Comparison *models.Comparison `json:"comparison"`
	Summary    string             `json:"summary"`
}

// PreferenceView is the read model of a session's accumulated preferences.
type PreferenceView struct {
	Preferences models.Preferences `json:"preferences"`
	Summary     string             `json:"summary"`
}

// SettingsPatch carries the settings to overwrite. Nil fields are left unchanged.
type SettingsPatch struct {
	Language      *string `json:"language,omitempty"`
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
}

// ==========================
// Sessions
// ==========================

func (o *Orchestrator) CreateSession(ctx context.Context) (*models.Session, error) {
	return o.sessions.Create(ctx)
}

func (o *Orchestrator) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return o.sessions.Get(ctx, id)
}

func (o *Orchestrator) DeleteSession(ctx context.Context, id string) error {
	return o.sessions.Delete(ctx, id)
}

func (o *Orchestrator) SessionSummary(ctx context.Context, id string) (string, error) {
	s, err := o.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return synthesizeresponse.SessionSummaryText(s), nil
}

func (o *Orchestrator) Stats(ctx context.Context) (session.Stats, error) {
	return o.sessions.Stats(ctx)
}

// UpdateSettings merges patch into the session settings.
func (o *Orchestrator) UpdateSettings(ctx context.Context, id string, patch SettingsPatch) (models.Settings, error) {
	s, err := o.sessions.Update(ctx, id, false, func(s *models.Session) error {
		if patch.Language != nil {
			s.Settings.Language = *patch.Language
		}
		if patch.Theme != nil {
			s.Settings.Theme = *patch.Theme
		}
		if patch.Notifications != nil {
			s.Settings.Notifications = *patch.Notifications
		}
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	return s.Settings, nil
}

// SearchHistory returns the last limit searches, oldest first.
func (o *Orchestrator) SearchHistory(ctx context.Context, id string, limit int) ([]models.SearchRecord, error) {
	s, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history := s.SearchHistory
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// ==========================
// Preferences
// ==========================

func (o *Orchestrator) Preferences(ctx context.Context, id string) (*PreferenceView, error) {
	s, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PreferenceView{
		Preferences: s.Preferences,
		Summary:     extractpreferences.Summary(s.Preferences),
	}, nil
}

// ClearPreferences is the only operation that shrinks preferences.
func (o *Orchestrator) ClearPreferences(ctx context.Context, id string) error {
	_, err := o.sessions.Update(ctx, id, false, func(s *models.Session) error {
		s.Preferences = extractpreferences.Clear()
		return nil
	})
	if err == nil {
		o.logger.Info("preferences cleared", map[string]interface{}{"sessionId": id})
	}
	return err
}

// ==========================
// Favorites
// ==========================

// AddFavorite stores the product in the session favorites. Adding a favorite twice is a no-op.
func (o *Orchestrator) AddFavorite(ctx context.Context, id, productID string) ([]models.Product, error) {
	product, err := o.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	s, err := o.sessions.Update(ctx, id, false, func(s *models.Session) error {
		s.AddFavorite(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Favorites, nil
}

func (o *Orchestrator) RemoveFavorite(ctx context.Context, id, productID string) error {
	_, err := o.sessions.Update(ctx, id, false, func(s *models.Session) error {
		if !s.RemoveFavorite(productID) {
			return apperrors.NewProductNotFoundError(productID)
		}
		return nil
	})
	return err
}

func (o *Orchestrator) ListFavorites(ctx context.Context, id string) ([]models.Product, error) {
	s, err := o.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Favorites, nil
}

// ==========================
// Catalog
// ==========================

// SearchProducts runs filter and rank outside a chat turn. With a session id the session's
// preferences apply and the search is recorded in its history.
func (o *Orchestrator) SearchProducts(ctx context.Context, id, query string) (*models.SearchResult, error) {
	if blank(query) {
		return nil, apperrors.NewValidationError(emptyQuery)
	}

	if id == "" {
		return o.search(ctx, query, models.Preferences{})
	}

	var result *models.SearchResult
	_, err := o.sessions.Update(ctx, id, false, func(s *models.Session) error {
		r, err := o.search(ctx, query, s.Preferences)
		if err != nil {
			return err
		}
		s.AppendSearch(models.SearchRecord{
			Query:       query,
			ResultCount: r.TotalCount,
			Timestamp:   o.now(),
		}, o.sessions.Options().MaxSearchHistory)
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	p, err := o.catalog.Get(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return models.Product{}, apperrors.NewProductNotFoundError(productID)
	}
	if err != nil {
		return models.Product{}, apperrors.NewCatalogUnavailableError(err)
	}
	return p, nil
}

func (o *Orchestrator) Compare(ctx context.Context, ids []string) (*ComparisonReport, error) {
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError(emptyComparisonInput)
	}
	c, err := catalog.Compare(ctx, o.catalog, ids)
	if err != nil {
		return nil, catalogError(err)
	}
	return &ComparisonReport{Comparison: c, Summary: synthesizeresponse.ComparisonText(c)}, nil
}

func (o *Orchestrator) Popular(ctx context.Context, category string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	products, err := catalog.Popular(ctx, o.catalog, category, limit)
	if err != nil {
		return nil, catalogError(err)
	}
	return products, nil
}

func (o *Orchestrator) Recommended(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	products, err := catalog.Recommended(ctx, o.catalog, limit, o.rng())
	if err != nil {
		return nil, catalogError(err)
	}
	return products, nil
}

func (o *Orchestrator) Suggest(ctx context.Context, query string) ([]string, error) {
	if blank(query) {
		return []string{}, nil
	}
	suggestions, err := catalog.Suggest(ctx, o.catalog, query)
	if err != nil {
		return nil, catalogError(err)
	}
	return suggestions, nil
}

// catalogError keeps coded errors and wraps provider failures.
func catalogError(err error) error {
	var se *apperrors.StandardError
	if errors.As(err, &se) {
		return err
	}
	return apperrors.NewCatalogUnavailableError(err)
}

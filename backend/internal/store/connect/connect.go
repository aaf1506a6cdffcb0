// Package connect opens the store selected by configuration.
package connect

import (
	"context"

	"go.uber.org/zap"

	"instavibe/backend/internal/store"
	"instavibe/backend/internal/store/pgstore"
	"instavibe/backend/internal/store/spannerstore"
	"instavibe/backend/pkg/config"
	apperrors "instavibe/backend/pkg/errors"
)

// Open validates cfg and connects to its backend
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Return typed nils as a nil interface
	switch cfg.Backend {
	case config.BackendSpanner:
		s, err := spannerstore.Open(ctx, cfg.SpannerDatabase(), cfg.DDLTimeout, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := pgstore.Open(ctx, cfg.DatabaseURL, cfg.DDLTimeout, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, apperrors.NewConfigValidationFailed("DB_BACKEND", "unsupported backend "+cfg.Backend)
}

package cart

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pasarly/backend-pasar/internal/obs"
)

// Syncer keeps a reducer in step with the remote store. Every change
// notification triggers a full reload that replaces local state, so the
// most recent refresh always wins over optimistic local updates. No
// operation-level merge is attempted.
type Syncer struct {
	Store   Store
	Reducer *Reducer
	UserID  string
	Logger  *zerolog.Logger
	// OnRefresh is invoked after each successful reload, e.g. to bump metrics.
	OnRefresh func()
}

// Run subscribes to the change feed and refreshes until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.logErr(err, "initial cart refresh")
	}
	return s.Store.Subscribe(ctx, s.UserID, func() {
		if err := s.Refresh(ctx); err != nil {
			s.logErr(err, "cart refresh")
		}
	})
}

// Refresh reloads the cart from the store and replaces reducer state.
func (s *Syncer) Refresh(ctx context.Context) error {
	entries, err := s.Store.Load(ctx, s.UserID)
	if err != nil {
		return err
	}
	s.Reducer.Replace(entries)
	if obs.CartSyncRefreshTotal != nil {
		obs.CartSyncRefreshTotal.Inc()
	}
	if s.OnRefresh != nil {
		s.OnRefresh()
	}
	return nil
}

func (s *Syncer) logErr(err error, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error().Err(err).Str("user_id", s.UserID).Msg(msg)
}

// Package favorite tracks a viewer's favorite listings and performs toggles
// against the remote favorite store.
package favorite

import (
	"context"
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.uber.org/zap"
)

// Outcome is the settled result of one toggle.
type Outcome struct {
	ListingID string
	// Favorited is the membership after the toggle settled.
	Favorited bool
	Class     Class
	Err       error
	// SignedOut is set when the failure forced the viewer's session to end.
	SignedOut bool
}

func (o Outcome) NeedsReauth() bool { return o.Class == ClassAuthExpired }

type Reconciler struct {
	store      domain.FavoriteRepository
	sessions   domain.SessionRevoker
	classifier *Classifier
	logger     *logger.Logger
}

func NewReconciler(store domain.FavoriteRepository, sessions domain.SessionRevoker, classifier *Classifier, log *logger.Logger) *Reconciler {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Reconciler{
		store:      store,
		sessions:   sessions,
		classifier: classifier,
		logger:     log.Named("favorite_reconciler"),
	}
}

// Load fetches the viewer's favorite set. Anonymous viewers get an empty set.
func (r *Reconciler) Load(ctx context.Context, viewer domain.Viewer) (*Set, error) {
	if viewer.IsAnonymous() {
		return NewSet(), nil
	}
	ids, err := r.store.ListingIDs(ctx, viewer.ID)
	if err != nil {
		return NewSet(), fmt.Errorf("favorite.Load: %w", err)
	}
	return NewSet(ids...), nil
}

// Apply sets IsFavorite on every listing from set.
func (r *Reconciler) Apply(listings []domain.DisplayListing, set *Set) {
	for i := range listings {
		listings[i].IsFavorite = IsFavorited(listings[i].ID, set)
	}
}

// Toggle adds or removes listingID depending on currentlyFavorited. Local
// state flips only after the remote call succeeds. A stale session ends the
// viewer's session and empties set.
func (r *Reconciler) Toggle(ctx context.Context, viewer domain.Viewer, set *Set, listingID string, currentlyFavorited bool) Outcome {
	out := Outcome{ListingID: listingID, Favorited: currentlyFavorited}

	if viewer.IsAnonymous() {
		out.Class = ClassAuthExpired
		out.Err = fmt.Errorf("favorite.Toggle: %w", domain.ErrUnauthenticated)
		return out
	}
	if set == nil {
		set = NewSet()
	}
	if !set.begin(listingID) {
		out.Class = ClassOther
		out.Err = domain.ErrTogglePending
		return out
	}

	var err error
	if currentlyFavorited {
		err = r.store.Remove(ctx, viewer.ID, listingID)
	} else {
		err = r.store.Add(ctx, viewer.ID, listingID)
	}

	if err == nil {
		set.finish(listingID, !currentlyFavorited)
		out.Favorited = !currentlyFavorited
		return out
	}

	out.Err = fmt.Errorf("favorite.Toggle: %w", err)
	out.Class = r.classifier.Classify(err)
	switch out.Class {
	case ClassAuthExpired:
		set.clear(listingID)
		out.Favorited = false
		out.SignedOut = r.signOut(ctx, viewer, err)
	default:
		set.abort(listingID)
		out.Favorited = set.Contains(listingID)
		r.logger.Warn("favorite toggle failed",
			zap.String("user_id", viewer.ID),
			zap.String("listing_id", listingID),
			zap.Bool("was_favorited", currentlyFavorited),
			zap.Error(err),
		)
	}
	return out
}

func (r *Reconciler) signOut(ctx context.Context, viewer domain.Viewer, cause error) bool {
	r.logger.Info("stale session on favorite toggle, signing viewer out",
		zap.String("user_id", viewer.ID),
		zap.Error(cause),
	)
	if r.sessions == nil {
		return false
	}
	if err := r.sessions.Revoke(ctx, viewer); err != nil {
		r.logger.Error("failed to revoke session", zap.String("user_id", viewer.ID), zap.Error(err))
		return false
	}
	return true
}

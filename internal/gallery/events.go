package gallery

import (
	"context"

	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/pubsub"
)

// CardPayload describes a created or deleted card.
type CardPayload struct {
	CardID string `json:"cardId"`
	Name   string `json:"name,omitempty"`
}

// LikePayload describes a changed like.
type LikePayload struct {
	CardID string `json:"cardId"`
	Liked  bool   `json:"liked"`
	Likes  int    `json:"likes"`
}

// ProfilePayload describes an updated profile.
type ProfilePayload struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
}

// Gallery events, published after a remote mutation succeeded.
var (
	CardCreated    = pubsub.NewEvent[CardPayload]("card.created", "A card was added to the gallery")
	CardDeleted    = pubsub.NewEvent[CardPayload]("card.deleted", "A card was removed from the gallery")
	CardLiked      = pubsub.NewEvent[LikePayload]("card.liked", "The current user liked or unliked a card")
	ProfileUpdated = pubsub.NewEvent[ProfilePayload]("profile.updated", "The profile text or avatar changed")
)

// publish sends an event. Publishing failures never fail the action that
// already succeeded remotely.
func publish[T any](ctx context.Context, p pubsub.Publisher, event pubsub.Event[T], userID string, payload T) {
	if p == nil {
		return
	}
	if err := pubsub.Publish(ctx, p, event, userID, payload); err != nil {
		middleware.FromContext(ctx).Warn("failed to publish gallery event", "topic", event.Name(), "error", err)
	}
}

// subscribeActivityLog logs every gallery event.
func subscribeActivityLog(ctx context.Context, s pubsub.Subscriber) error {
	logCard := func(topic string) func(context.Context, string, CardPayload) error {
		return func(ctx context.Context, userID string, p CardPayload) error {
			middleware.FromContext(ctx).Info("gallery activity", "topic", topic, "user_id", userID, "card_id", p.CardID, "name", p.Name)
			return nil
		}
	}
	if err := pubsub.Subscribe(ctx, s, CardCreated, logCard(CardCreated.Name())); err != nil {
		return err
	}
	if err := pubsub.Subscribe(ctx, s, CardDeleted, logCard(CardDeleted.Name())); err != nil {
		return err
	}
	if err := pubsub.Subscribe(ctx, s, CardLiked, func(ctx context.Context, userID string, p LikePayload) error {
		middleware.FromContext(ctx).Info("gallery activity", "topic", CardLiked.Name(), "user_id", userID, "card_id", p.CardID, "liked", p.Liked, "likes", p.Likes)
		return nil
	}); err != nil {
		return err
	}
	return pubsub.Subscribe(ctx, s, ProfileUpdated, func(ctx context.Context, userID string, p ProfilePayload) error {
		middleware.FromContext(ctx).Info("gallery activity", "topic", ProfileUpdated.Name(), "user_id", userID, "name", p.Name)
		return nil
	})
}

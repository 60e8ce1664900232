package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/deemkeen/stegodon/activitypub"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/pubsub"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
)

// FollowService drives the Following/FollowRequest state machine: a Follow
// row with Accepted=false is a pending request, Accepted=true an active
// follow (see domain/federation.go's Follow doc comment for why the two
// spec entities share one table).
type FollowService struct {
	store Store
	conf  *util.AppConfig
	pub   pubsub.Publisher
}

func NewFollowService(store Store, conf *util.AppConfig, pub pubsub.Publisher) *FollowService {
	if pub == nil {
		pub = pubsub.NoOpPublisher{}
	}
	return &FollowService{store: store, conf: conf, pub: pub}
}

// Follow sends a Follow activity to the actor at remoteActorURI via
// activitypub.SendFollow, which records the follow as pending until an
// Accept arrives; local targets are not handled separately.
func (s *FollowService) Follow(local *domain.Account, remoteActorURI string) error {
	return activitypub.SendFollow(local, remoteActorURI, s.conf)
}

func (s *FollowService) Unfollow(local *domain.Account, follow *domain.Follow, remote *domain.RemoteAccount) error {
	if err := activitypub.SendUndo(local, follow, remote, s.conf); err != nil {
		return err
	}
	return s.store.DeleteFollowByURI(follow.URI)
}

// Accept records acceptance of an inbound follow request and notifies the
// requester; called from the inbox handler path, not from a remote Accept
// (that's processors.FollowProcessor's job) — this is the local side,
// approving someone else's pending request to follow a local locked account.
func (s *FollowService) Accept(followURI string) error {
	if err := s.store.AcceptFollowByURI(followURI); err != nil {
		return fmt.Errorf("accept follow: %w", err)
	}
	err, follow := s.store.ReadFollowByURI(followURI)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if follow != nil {
		s.notify(follow.AccountId, "follow_accepted", followURI)
	}
	return nil
}

func (s *FollowService) Reject(followURI string) error {
	return s.store.DeleteFollowByURI(followURI)
}

func (s *FollowService) Cancel(followURI string) error {
	return s.store.DeleteFollowByURI(followURI)
}

func (s *FollowService) notify(accountId uuid.UUID, kind, sourceURI string) {
	_ = s.store.CreateNotification(&domain.Notification{
		Id:        uuid.New(),
		AccountId: accountId,
		Type:      kind,
		SourceURI: sourceURI,
	})
	s.pub.Publish(pubsub.Event{Type: pubsub.Notification, Topic: accountId.String(), Payload: kind})
}

package processors

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/google/uuid"
)

// FollowResult reports the outcome of processing an inbound Follow.
type FollowResult int

const (
	FollowCreated FollowResult = iota
	FollowAlreadyExists
)

// FollowProcessor handles inbound Follow activities: a suspended or
// still-pending target refuses or dedupes the request; a locked target
// gets a pending FollowRequest row and a notification for manual review;
// an ordinary unlocked target gets an immediately-accepted Following, its
// reciprocal counters bumped, and an automatic Accept sent back.
type FollowProcessor struct {
	db         Database
	fetch      ActorFetcher
	sendAccept AcceptSender
}

func NewFollowProcessor(db Database, fetch ActorFetcher, sendAccept AcceptSender) *FollowProcessor {
	return &FollowProcessor{db: db, fetch: fetch, sendAccept: sendAccept}
}

// Process ingests a Follow activity where actor is a remote actor URI and
// object is the local target account's actor URI. targetAccountId is the
// already-resolved local account id for object (the caller looks this up
// from the path/URI since local accounts aren't part of this package's
// Database seam).
func (p *FollowProcessor) Process(activity Activity, targetAccountId uuid.UUID) (FollowResult, error) {
	if activity.Actor == "" {
		return 0, federation.NewError(federation.ErrKindBadRequest, fmt.Errorf("follow activity missing actor"))
	}

	err, existing := p.db.ReadFollowByURI(activity.ID)
	if err == nil && existing != nil {
		return FollowAlreadyExists, nil
	}

	err, target := p.db.ReadAccById(targetAccountId)
	if err != nil || target == nil {
		return 0, federation.NewError(federation.ErrKindNotFound, fmt.Errorf("resolve local followee: %w", err))
	}
	if target.Banned {
		return 0, federation.NewError(federation.ErrKindForbidden, fmt.Errorf("followee account is suspended"))
	}

	remoteActor, err := p.fetch(activity.Actor)
	if err != nil {
		return 0, federation.NewError(federation.ErrKindFederation, fmt.Errorf("resolve follower actor: %w", err))
	}

	follow := &domain.Follow{
		Id:              uuid.New(),
		AccountId:       remoteActor.Id,
		TargetAccountId: targetAccountId,
		URI:             activity.ID,
		Accepted:        !target.IsLocked,
		IsLocal:         false,
	}
	if err := p.db.CreateFollow(follow); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create follow: %w", err))
	}

	notifType := "follow_request"
	if follow.Accepted {
		notifType = "follow"
		if err := p.db.IncrementFollowingCnt(remoteActor.Id); err != nil {
			log.Printf("federation: increment following count for %s: %v", remoteActor.Id, err)
		}
		if p.sendAccept != nil {
			if err := p.sendAccept(target, remoteActor, activity.ID); err != nil {
				log.Printf("federation: send accept for follow %s: %v", activity.ID, err)
			}
		}
	}

	notification := &domain.Notification{
		Id:        uuid.New(),
		AccountId: targetAccountId,
		Type:      notifType,
		SourceURI: activity.Actor,
	}
	if err := p.db.CreateNotification(notification); err != nil {
		return 0, federation.NewError(federation.ErrKindDatabase, fmt.Errorf("create notification: %w", err))
	}

	return FollowCreated, nil
}

// ProcessAccept marks a pending local-initiated Follow (identified by the
// Follow activity's own URI, carried as the Accept's object) as accepted
// and bumps the remote target's follower count to match.
func ProcessAccept(db Database, followURI string) error {
	err, follow := db.ReadFollowByURI(followURI)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return federation.NewError(federation.ErrKindNotFound, fmt.Errorf("no such follow: %s", followURI))
		}
		return federation.NewError(federation.ErrKindDatabase, err)
	}
	if follow.Accepted {
		return nil
	}
	if err := db.AcceptFollowByURI(followURI); err != nil {
		return federation.NewError(federation.ErrKindDatabase, fmt.Errorf("accept follow: %w", err))
	}
	if err := db.IncrementFollowersCnt(follow.TargetAccountId); err != nil {
		log.Printf("federation: increment followers count for %s: %v", follow.TargetAccountId, err)
	}
	return nil
}

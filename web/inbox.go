package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/deemkeen/stegodon/activitypub"
	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/federation"
	"github.com/deemkeen/stegodon/federation/processors"
	"github.com/deemkeen/stegodon/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleInbox verifies the inbound activity's HTTP signature and dispatches
// it to the processor for its type. Used for the per-user inbox
// (/users/:actor/inbox) and, through handleSharedInbox, for the shared
// inbox (/inbox) once a local recipient username has been resolved there;
// when none is found, handleSharedInbox answers 202 without calling this.
func HandleInbox(c *gin.Context, conf *util.AppConfig, targetAccountUsername string) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	var activity processors.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed activity"})
		return
	}
	if activity.Actor == "" || activity.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity missing actor/type"})
		return
	}

	remoteActor, err := activitypub.GetOrFetchActor(activity.Actor)
	if err != nil {
		log.Printf("inbox: resolve actor %s: %v", activity.Actor, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot resolve actor"})
		return
	}

	pubKey, err := federation.ParsePublicKey(remoteActor.PublicKeyPem)
	if err != nil {
		log.Printf("inbox: parse public key for %s: %v", activity.Actor, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor public key"})
		return
	}

	if _, err := federation.VerifySignature(c.Request, pubKey); err != nil {
		log.Printf("inbox: signature verification failed for %s: %v", activity.Actor, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
		return
	}

	var targetId uuid.UUID
	if targetAccountUsername != "" {
		err, acc := db.GetDB().ReadAccByUsername(targetAccountUsername)
		if err != nil || acc == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown local account"})
			return
		}
		targetId = acc.Id
	}

	sendAccept := func(localAccount *domain.Account, remoteActor *domain.RemoteAccount, followURI string) error {
		return activitypub.SendAccept(localAccount, remoteActor, followURI, conf)
	}
	dispatcher := processors.NewDispatcher(db.GetDB(), activitypub.GetOrFetchActor, sendAccept)
	result, err := dispatcher.Dispatch(activity, targetId)
	if err != nil {
		kind := federation.KindOf(err)
		log.Printf("inbox: dispatch %s from %s: %v", activity.Type, activity.Actor, err)
		c.JSON(statusForErrKind(kind), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"result": result})
}

func statusForErrKind(kind federation.ErrKind) int {
	switch kind {
	case federation.ErrKindBadRequest, federation.ErrKindValidation:
		return http.StatusBadRequest
	case federation.ErrKindUnauthorized:
		return http.StatusUnauthorized
	case federation.ErrKindForbidden:
		return http.StatusForbidden
	case federation.ErrKindNotFound:
		return http.StatusNotFound
	case federation.ErrKindConflict:
		return http.StatusConflict
	case federation.ErrKindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

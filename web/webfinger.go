package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/federation"
	"github.com/deemkeen/stegodon/util"
)

var webfingerHTTPClient = &http.Client{Timeout: 10 * time.Second}

// ResolveWebFinger looks up username@domain's ActivityPub actor URI via the
// federation client's WebFinger resolver, for mention-linking a remote
// actor that hasn't been fetched (and cached) yet.
func ResolveWebFinger(username, domainHost string) (string, error) {
	client := federation.NewClient(webfingerHTTPClient, nil, "stegodon")
	return client.ResolveWebfinger(fmt.Sprintf("%s@%s", username, domainHost))
}

// GetWebfinger answers this instance's own /.well-known/webfinger for a
// local "acct:user@host" resource, the inbound half of the same protocol.
func GetWebfinger(resource string, conf *util.AppConfig) (error, string) {
	username, domainHost, ok := splitAcct(trimAcct(resource))
	if !ok || domainHost != conf.Conf.SslDomain {
		return fmt.Errorf("webfinger: unknown resource %q", resource), "{}"
	}

	if err, _ := db.GetDB().ReadAccByUsername(username); err != nil {
		return err, "{}"
	}

	actorURI := fmt.Sprintf("https://%s/users/%s", conf.Conf.SslDomain, username)
	jrd := map[string]any{
		"subject": fmt.Sprintf("acct:%s@%s", username, conf.Conf.SslDomain),
		"links": []map[string]string{
			{"rel": "self", "type": "application/activity+json", "href": actorURI},
			{"rel": "http://webfinger.net/rel/profile-page", "type": "text/html", "href": fmt.Sprintf("https://%s/u/%s", conf.Conf.SslDomain, username)},
		},
	}
	body, err := json.Marshal(jrd)
	if err != nil {
		return err, "{}"
	}
	return nil, string(body)
}

func trimAcct(resource string) string {
	if len(resource) > 5 && resource[:5] == "acct:" {
		return resource[5:]
	}
	return resource
}

func splitAcct(acct string) (username, domainHost string, ok bool) {
	username, domainHost, found := strings.Cut(acct, "@")
	if !found || username == "" || domainHost == "" {
		return "", "", false
	}
	return username, domainHost, true
}

package web

import (
	"encoding/json"
	"fmt"

	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/util"
)

// GetNodeInfoDiscovery answers /.well-known/nodeinfo, pointing at the 2.1
// document this instance serves.
func GetNodeInfoDiscovery(conf *util.AppConfig) (error, string) {
	doc := map[string]any{
		"links": []map[string]string{
			{
				"rel":  "http://nodeinfo.diaspora.software/ns/schema/2.1",
				"href": fmt.Sprintf("https://%s/nodeinfo/2.1", conf.Conf.SslDomain),
			},
		},
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err, "{}"
	}
	return nil, string(body)
}

// GetNodeInfo answers /nodeinfo/2.1 with instance software, protocol, and
// usage metadata, as read by federated directories and server lists.
func GetNodeInfo(conf *util.AppConfig) (error, string) {
	users, err := db.GetDB().CountLocalUsers()
	if err != nil {
		return err, "{}"
	}
	posts, err := db.GetDB().CountLocalNotes()
	if err != nil {
		return err, "{}"
	}

	protocols := []string{}
	if conf.Conf.WithAp {
		protocols = append(protocols, "activitypub")
	}

	doc := map[string]any{
		"version": "2.1",
		"software": map[string]string{
			"name":    "stegodon",
			"version": util.GetVersion(),
		},
		"protocols": protocols,
		"services": map[string][]string{
			"inbound":  {},
			"outbound": {},
		},
		"openRegistrations": !conf.Conf.Closed,
		"usage": map[string]any{
			"users": map[string]int{
				"total": users,
			},
			"localPosts": posts,
		},
		"metadata": map[string]any{
			"nodeDescription": conf.Conf.NodeDescription,
			"single":          conf.Conf.Single,
		},
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err, "{}"
	}
	return nil, string(body)
}

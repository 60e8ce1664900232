package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/util"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static/*
var embeddedStatic embed.FS

// Router builds the gin engine serving both the public web UI and, when
// federation is enabled, the ActivityPub surface (C2/C3/C5/C9/C10). It
// returns the engine rather than running it, so main can hand it to an
// http.Server it manages alongside the SSH server.
func Router(conf *util.AppConfig) (*gin.Engine, error) {
	gin.DefaultWriter = util.GetLogWriter()
	gin.DefaultErrorWriter = util.GetLogWriter()

	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	tmpl, err := template.ParseFS(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	g.SetHTMLTemplate(tmpl)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded static assets: %w", err)
	}
	g.StaticFS("/static", http.FS(staticFS))

	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	g.GET("/", func(c *gin.Context) { HandleIndex(c, conf) })
	g.GET("/u/:username", func(c *gin.Context) { HandleProfile(c, conf) })
	g.GET("/u/:username/:noteid", func(c *gin.Context) { HandleSinglePost(c, conf) })
	g.GET("/tags/:tag", func(c *gin.Context) { HandleTagFeed(c, conf) })

	g.GET("/upload/:token", func(c *gin.Context) { HandleUploadForm(c, conf) })
	g.POST("/upload/:token", func(c *gin.Context) { HandleUploadSubmit(c, conf) })
	g.GET("/avatars/:filename", func(c *gin.Context) { ServeAvatar(c, conf) })

	g.GET("/feed", func(c *gin.Context) {
		rss, err := GetRSS(conf, c.Query("username"))
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: ""})
			return
		}
		c.Header("Content-Type", "application/xml; charset=utf-8")
		c.Render(http.StatusOK, render.String{Format: rss})
	})

	g.GET("/feed/:id", func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: ""})
			return
		}
		item, err := GetRSSItem(conf, id)
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: ""})
			return
		}
		c.Header("Content-Type", "application/xml; charset=utf-8")
		c.Render(http.StatusOK, render.String{Format: item})
	})

	if conf.Conf.WithAp {
		registerFederationRoutes(g, conf)
	}

	return g, nil
}

// registerFederationRoutes wires the ActivityPub surface: actor documents,
// inbox delivery, outbox/collections paging, and the two discovery
// documents (WebFinger, NodeInfo).
func registerFederationRoutes(g *gin.Engine, conf *util.AppConfig) {
	apLimiter := NewRateLimiter(rate.Limit(5), 10)
	maxBody := MaxBytesMiddleware(1 * 1024 * 1024)

	g.GET("/users/:actor", func(c *gin.Context) {
		if IsHTMLRequest(c.GetHeader("Accept")) {
			c.Redirect(http.StatusFound, "/u/"+c.Param("actor"))
			return
		}
		c.Header("Content-Type", "application/activity+json; charset=utf-8")
		err, actor := GetActor(c.Param("actor"), conf)
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: actor})
			return
		}
		c.Render(http.StatusOK, render.String{Format: actor})
	})

	g.GET("/notes/:id", func(c *gin.Context) {
		noteId, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid note id"})
			return
		}
		c.Header("Content-Type", "application/activity+json; charset=utf-8")
		err, obj := GetNoteObject(noteId, conf)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.Render(http.StatusOK, render.String{Format: obj})
	})

	g.POST("/users/:actor/inbox", RateLimitMiddleware(apLimiter), maxBody, func(c *gin.Context) {
		HandleInbox(c, conf, c.Param("actor"))
	})

	g.POST("/inbox", RateLimitMiddleware(apLimiter), maxBody, func(c *gin.Context) {
		handleSharedInbox(c, conf)
	})

	g.GET("/users/:actor/outbox", func(c *gin.Context) {
		page := ParsePageParam(c.Query("page"))
		c.Header("Content-Type", "application/activity+json; charset=utf-8")
		err, outbox := GetOutbox(c.Param("actor"), page, conf)
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: "{}"})
			return
		}
		c.Render(http.StatusOK, render.String{Format: outbox})
	})

	g.GET("/users/:actor/followers", func(c *gin.Context) { serveFollowCollection(c, conf, true) })
	g.GET("/users/:actor/following", func(c *gin.Context) { serveFollowCollection(c, conf, false) })

	g.GET("/.well-known/webfinger", func(c *gin.Context) {
		c.Header("Content-Type", "application/jrd+json; charset=utf-8")
		resource := c.Query("resource")
		err, resp := GetWebfinger(resource, conf)
		if err != nil {
			c.Render(http.StatusNotFound, render.String{Format: "{}"})
			return
		}
		c.Render(http.StatusOK, render.String{Format: resp})
	})

	g.GET("/.well-known/nodeinfo", func(c *gin.Context) {
		c.Header("Content-Type", "application/json; charset=utf-8")
		err, resp := GetNodeInfoDiscovery(conf)
		if err != nil {
			c.Render(http.StatusInternalServerError, render.String{Format: "{}"})
			return
		}
		c.Render(http.StatusOK, render.String{Format: resp})
	})

	g.GET("/nodeinfo/2.1", func(c *gin.Context) {
		c.Header("Content-Type", "application/json; charset=utf-8")
		err, resp := GetNodeInfo(conf)
		if err != nil {
			c.Render(http.StatusInternalServerError, render.String{Format: "{}"})
			return
		}
		c.Render(http.StatusOK, render.String{Format: resp})
	})
}

// serveFollowCollection answers /users/:actor/followers or /following,
// resolving each edge to its local or remote actor URI before rendering
// either the bare collection or, with ?page, its single OrderedCollectionPage.
func serveFollowCollection(c *gin.Context, conf *util.AppConfig, followers bool) {
	actor := c.Param("actor")
	page := c.Query("page")
	c.Header("Content-Type", "application/activity+json; charset=utf-8")

	database := db.GetDB()
	err, account := database.ReadAccByUsername(actor)
	if err != nil || account == nil {
		c.Render(http.StatusNotFound, render.String{Format: "{}"})
		return
	}

	var uris []string
	if followers {
		if err, follows := database.ReadFollowersByAccountId(account.Id); err == nil && follows != nil {
			for _, f := range *follows {
				uris = append(uris, resolveActorURI(database, f.AccountId, conf))
			}
		}
	} else {
		if err, follows := database.ReadFollowingByAccountId(account.Id); err == nil && follows != nil {
			for _, f := range *follows {
				uris = append(uris, resolveActorURI(database, f.TargetAccountId, conf))
			}
		}
	}

	var body string
	if page != "" {
		if followers {
			body = GetFollowersPage(actor, conf, uris, 1)
		} else {
			body = GetFollowingPage(actor, conf, uris, 1)
		}
	} else {
		if followers {
			body = GetFollowersCollection(actor, conf, uris)
		} else {
			body = GetFollowingCollection(actor, conf, uris)
		}
	}
	c.Render(http.StatusOK, render.String{Format: body})
}

func resolveActorURI(database *db.DB, accountId uuid.UUID, conf *util.AppConfig) string {
	if err, remote := database.ReadRemoteAccountById(accountId); err == nil && remote != nil {
		return remote.ActorURI
	}
	if err, local := database.ReadAccById(accountId); err == nil && local != nil {
		return fmt.Sprintf("https://%s/users/%s", conf.Conf.SslDomain, local.Username)
	}
	return ""
}

// handleSharedInbox routes a POST to /inbox to the right local recipient by
// inspecting the activity's to/cc/object addressing, falling back to
// whichever local account follows the sending actor.
func handleSharedInbox(c *gin.Context, conf *util.AppConfig) {
	body, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var activity map[string]any
	if err := json.Unmarshal(body, &activity); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	extractUsername := func(uri string) string {
		if !strings.Contains(uri, conf.Conf.SslDomain) || !strings.Contains(uri, "/users/") {
			return ""
		}
		parts := strings.Split(uri, "/")
		for i, part := range parts {
			if part == "users" && i+1 < len(parts) {
				username := parts[i+1]
				if slash := strings.IndexByte(username, '/'); slash > 0 {
					username = username[:slash]
				}
				return username
			}
		}
		return ""
	}

	var target string
	if to, ok := activity["to"].([]any); ok {
		for _, v := range to {
			if s, ok := v.(string); ok {
				if u := extractUsername(s); u != "" {
					target = u
					break
				}
			}
		}
	}
	if target == "" {
		if cc, ok := activity["cc"].([]any); ok {
			for _, v := range cc {
				if s, ok := v.(string); ok {
					if u := extractUsername(s); u != "" {
						target = u
						break
					}
				}
			}
		}
	}
	if target == "" {
		if obj, ok := activity["object"].(string); ok {
			target = extractUsername(obj)
		}
	}
	if target == "" {
		if actorURI, ok := activity["actor"].(string); ok && actorURI != "" {
			database := db.GetDB()
			if err, remote := database.ReadRemoteAccountByActorURI(actorURI); err == nil && remote != nil {
				if err, follows := database.ReadFollowersByAccountId(remote.Id); err == nil && follows != nil && len(*follows) > 0 {
					if err, local := database.ReadAccById((*follows)[0].AccountId); err == nil && local != nil {
						target = local.Username
					}
				}
			}
		}
	}

	if target == "" {
		log.Printf("shared inbox: could not determine target for activity type %v", activity["type"])
		c.Status(http.StatusAccepted)
		return
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	HandleInbox(c, conf, target)
}

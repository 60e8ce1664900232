package web

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/deemkeen/stegodon/db"
	"github.com/deemkeen/stegodon/domain"
	"github.com/deemkeen/stegodon/util"
	"github.com/google/uuid"
	"github.com/gorilla/feeds"
)

// buildFeedURL builds an absolute URL for the feed, preferring the SSL
// domain when federation is enabled and falling back to host:port.
func buildFeedURL(conf *util.AppConfig, path string) string {
	if conf.Conf.WithAp && conf.Conf.SslDomain != "" {
		return fmt.Sprintf("https://%s%s", conf.Conf.SslDomain, path)
	}
	return fmt.Sprintf("http://%s:%d%s", conf.Conf.Host, conf.Conf.HttpPort, path)
}

// GetRSS renders the public timeline (or, with username set, one account's
// public notes) as RSS, the alternate outbox view linked from the index
// page for feed readers that don't speak ActivityPub.
func GetRSS(conf *util.AppConfig, username string) (string, error) {
	var err error
	var notes *[]domain.Note
	var title, createdBy, email string

	link := buildFeedURL(conf, "/feed")

	if username != "" {
		err, notes = db.GetDB().ReadPublicNotesByUsername(username, 50, 0)
		if err != nil {
			log.Printf("rss: read notes for %s: %v", username, err)
			return "", errors.New("error retrieving notes by username")
		}
		title = fmt.Sprintf("Stegodon Notes - %s", username)
		createdBy = username
		email = fmt.Sprintf("%s@%s", username, conf.Conf.SslDomain)
		link = fmt.Sprintf("%s?username=%s", link, username)
	} else {
		err, notes = db.GetDB().ReadTimelinePage(uuid.Nil, 50)
		if err != nil {
			log.Printf("rss: read timeline: %v", err)
			return "", errors.New("error retrieving notes")
		}
		title = "All Stegodon Notes"
		createdBy = "everyone"
		email = fmt.Sprintf("%s@%s", createdBy, conf.Conf.SslDomain)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: fmt.Sprintf("stegodon public feed for %s", conf.Conf.SslDomain),
		Author:      &feeds.Author{Name: createdBy, Email: email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	if notes != nil {
		for _, note := range *notes {
			if note.InReplyToURI != "" {
				continue
			}
			itemEmail := fmt.Sprintf("%s@%s", note.CreatedBy, conf.Conf.SslDomain)
			contentHTML := util.MarkdownLinksToHTML(note.Message)
			feedItems = append(feedItems, &feeds.Item{
				Id:      note.Id.String(),
				Title:   note.CreatedAt.Format(util.DateTimeFormat()),
				Link:    &feeds.Link{Href: buildFeedURL(conf, fmt.Sprintf("/feed/%s", note.Id))},
				Content: contentHTML,
				Author:  &feeds.Author{Name: note.CreatedBy, Email: itemEmail},
				Created: note.CreatedAt,
			})
		}
	}

	feed.Items = feedItems
	return feed.ToRss()
}

// GetRSSItem renders a single note as a one-item RSS feed, served at
// /feed/:id.
func GetRSSItem(conf *util.AppConfig, id uuid.UUID) (string, error) {
	err, note := db.GetDB().ReadNoteId(id)
	if err != nil || note == nil {
		log.Printf("rss: read note %s: %v", id, err)
		return "", errors.New("error retrieving note by id")
	}

	email := fmt.Sprintf("%s@%s", note.CreatedBy, conf.Conf.SslDomain)
	url := buildFeedURL(conf, fmt.Sprintf("/feed/%s", note.Id))

	feed := &feeds.Feed{
		Title:       "Single Stegodon Note",
		Link:        &feeds.Link{Href: url},
		Description: fmt.Sprintf("stegodon public feed for %s", conf.Conf.SslDomain),
		Author:      &feeds.Author{Name: note.CreatedBy, Email: email},
		Created:     time.Now(),
	}

	contentHTML := util.MarkdownLinksToHTML(note.Message)
	feed.Items = []*feeds.Item{
		{
			Id:      note.Id.String(),
			Title:   note.CreatedAt.Format(util.DateTimeFormat()),
			Link:    &feeds.Link{Href: url},
			Content: contentHTML,
			Author:  &feeds.Author{Name: note.CreatedBy, Email: email},
			Created: note.CreatedAt,
		},
	}
	return feed.ToRss()
}

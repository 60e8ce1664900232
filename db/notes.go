package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreateNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	created_by TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	edited_at DATETIME,
	visibility TEXT NOT NULL DEFAULT 'public',
	in_reply_to_uri TEXT NOT NULL DEFAULT '',
	object_uri TEXT NOT NULL DEFAULT '',
	federated INTEGER NOT NULL DEFAULT 1,
	sensitive INTEGER NOT NULL DEFAULT 0,
	content_warning TEXT NOT NULL DEFAULT '',
	reply_count INTEGER NOT NULL DEFAULT 0,
	like_count INTEGER NOT NULL DEFAULT 0,
	boost_count INTEGER NOT NULL DEFAULT 0,
	is_local INTEGER NOT NULL DEFAULT 1,
	host TEXT NOT NULL DEFAULT '',
	remote_account_id TEXT,
	renote_id TEXT,
	thread_id TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	reactions TEXT NOT NULL DEFAULT '{}',
	visible_user_ids TEXT NOT NULL DEFAULT '[]'
)`

const noteColumns = `id, created_by, message, created_at, edited_at, visibility, in_reply_to_uri, object_uri, federated, sensitive, content_warning, reply_count, like_count, boost_count, is_local, host, remote_account_id, renote_id, thread_id, tags, reactions, visible_user_ids`

func scanNote(row interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note
	var id string
	var federated, sensitive, isLocal int
	var remoteAccountId, renoteId, threadId sql.NullString
	var tagsJSON, reactionsJSON, visibleUserIdsJSON string
	err := row.Scan(&id, &n.CreatedBy, &n.Message, &n.CreatedAt, &n.EditedAt, &n.Visibility, &n.InReplyToURI,
		&n.ObjectURI, &federated, &sensitive, &n.ContentWarning, &n.ReplyCount, &n.LikeCount, &n.BoostCount,
		&isLocal, &n.Host, &remoteAccountId, &renoteId, &threadId, &tagsJSON, &reactionsJSON, &visibleUserIdsJSON)
	if err != nil {
		return nil, err
	}
	if n.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	n.Federated = federated != 0
	n.Sensitive = sensitive != 0
	n.IsLocal = isLocal != 0

	if remoteAccountId.Valid {
		if rid, err := uuid.Parse(remoteAccountId.String); err == nil {
			n.RemoteAccountId = &rid
		}
	}
	if renoteId.Valid {
		if rid, err := uuid.Parse(renoteId.String); err == nil {
			n.RenoteId = &rid
		}
	}
	if threadId.Valid {
		if tid, err := uuid.Parse(threadId.String); err == nil {
			n.ThreadId = &tid
		}
	}
	if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
		n.Tags = nil
	}
	if err := json.Unmarshal([]byte(reactionsJSON), &n.Reactions); err != nil {
		n.Reactions = nil
	}
	var visibleUserIdStrs []string
	if err := json.Unmarshal([]byte(visibleUserIdsJSON), &visibleUserIdStrs); err == nil {
		for _, s := range visibleUserIdStrs {
			if uid, err := uuid.Parse(s); err == nil {
				n.VisibleUserIds = append(n.VisibleUserIds, uid)
			}
		}
	}
	return &n, nil
}

func nullUUIDString(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

// CreateNote persists a plain local note authored by userId (a uuid.UUID
// boxed as interface{}, matching cli.Database's generic signature) and
// returns the new note's id, also boxed.
func (d *DB) CreateNote(userId interface{}, message string) (interface{}, error) {
	uid, ok := userId.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("CreateNote: userId must be a uuid.UUID, got %T", userId)
	}

	err, acc := d.ReadAccById(uid)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	id := uuid.New()
	now := time.Now()
	_, err = d.db.Exec(`
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, NULL, ?, '', '', 1, 0, '', 0, 0, 0, 1, '', NULL, NULL, NULL, '[]', '{}', '[]')
	`, id.String(), acc.Username, message, now, domain.VisibilityPublic)
	if err != nil {
		return nil, err
	}
	return id, nil
}

// CreateRemoteNote materializes an inbound Create(Note) activity's object
// into a full notes row, mirroring the remote note instead of caching it
// as a bare Activity (see federation/processors/create.go). CreatedBy
// holds "username@host" for remote notes, distinct from the bare
// username CreateNote stores for local ones.
func (d *DB) CreateRemoteNote(n *domain.Note) error {
	tagsJSON, err := json.Marshal(n.Tags)
	if err != nil {
		return err
	}
	reactionsJSON, err := json.Marshal(n.Reactions)
	if err != nil {
		return err
	}
	visibleUserIdStrs := make([]string, 0, len(n.VisibleUserIds))
	for _, id := range n.VisibleUserIds {
		visibleUserIdStrs = append(visibleUserIdStrs, id.String())
	}
	visibleUserIdsJSON, err := json.Marshal(visibleUserIdStrs)
	if err != nil {
		return err
	}

	if n.Id == uuid.Nil {
		n.Id = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err = d.db.Exec(`
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, NULL, ?, ?, ?, 0, ?, ?, 0, 0, 0, 0, ?, ?, ?, ?, ?, ?, ?)
	`, n.Id.String(), n.CreatedBy, n.Message, n.CreatedAt, n.Visibility, n.InReplyToURI, n.ObjectURI,
		boolToInt(n.Sensitive), n.ContentWarning, n.Host, nullUUIDString(n.RemoteAccountId),
		nullUUIDString(n.RenoteId), nullUUIDString(n.ThreadId), string(tagsJSON), string(reactionsJSON), string(visibleUserIdsJSON))
	return err
}

// ReadNoteIdWithReplyInfo reads a note by id (boxed uuid.UUID), used by the
// CLI post handler to report in-reply-to context back to the caller.
func (d *DB) ReadNoteIdWithReplyInfo(id interface{}) (error, *domain.Note) {
	uid, ok := id.(uuid.UUID)
	if !ok {
		return fmt.Errorf("ReadNoteIdWithReplyInfo: id must be a uuid.UUID, got %T", id), nil
	}
	return d.ReadNoteById(uid)
}

func (d *DB) ReadNoteById(id uuid.UUID) (error, *domain.Note) {
	row := d.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id.String())
	n, err := scanNote(row)
	if err != nil {
		return err, nil
	}
	return nil, n
}

// ReadNoteId is an alias of ReadNoteById kept for existing call sites.
func (d *DB) ReadNoteId(id uuid.UUID) (error, *domain.Note) {
	return d.ReadNoteById(id)
}

// ReadPublicNotesByUsername returns a username's public notes newest-first,
// limited and offset for outbox collection pagination.
func (d *DB) ReadPublicNotesByUsername(username string, limit, offset int) (error, *[]domain.Note) {
	rows, err := d.db.Query(`SELECT `+noteColumns+` FROM notes
		WHERE created_by = ? AND visibility = 'public'
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, username, limit, offset)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return err, nil
		}
		notes = append(notes, *n)
	}
	return rows.Err(), &notes
}

func (d *DB) ReadNoteByURI(objectURI string) (error, *domain.Note) {
	row := d.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE object_uri = ?`, objectURI)
	n, err := scanNote(row)
	if err != nil {
		return err, nil
	}
	return nil, n
}

func (d *DB) IncrementReplyCountByURI(parentURI string) error {
	_, err := d.db.Exec(`UPDATE notes SET reply_count = reply_count + 1 WHERE object_uri = ?`, parentURI)
	return err
}

// SetNoteObjectURI records the federation-facing object URI for a note
// once its id is known, since the URI is derived from the id itself.
func (d *DB) SetNoteObjectURI(id uuid.UUID, objectURI string) error {
	_, err := d.db.Exec(`UPDATE notes SET object_uri = ? WHERE id = ?`, objectURI, id.String())
	return err
}

// UpdateNoteMessage edits a note's body and stamps edited_at, mirroring
// Update(Note) semantics for locally-authored notes.
func (d *DB) UpdateNoteMessage(id uuid.UUID, message string) error {
	_, err := d.db.Exec(`UPDATE notes SET message = ?, edited_at = ? WHERE id = ?`, message, time.Now(), id.String())
	return err
}

func (d *DB) DeleteNote(id uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM notes WHERE id = ?`, id.String())
	return err
}

// CountLocalNotes reports the instance's total local note count for
// nodeinfo's usage.localPosts.
func (d *DB) CountLocalNotes() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE is_local = 1`).Scan(&n)
	return n, err
}

// ReadAllNotes returns every local note newest-first, for the public web
// index's local timeline view.
func (d *DB) ReadAllNotes() (error, *[]domain.Note) {
	return d.readNotes(`WHERE is_local = 1 ORDER BY created_at DESC`)
}

// ReadNotesByUserId returns all of a local account's notes newest-first,
// for the profile page (which paginates and filters replies in memory).
func (d *DB) ReadNotesByUserId(accountId uuid.UUID) (error, *[]domain.Note) {
	err, acc := d.ReadAccById(accountId)
	if err != nil {
		return err, nil
	}
	return d.readNotes(`WHERE created_by = ? ORDER BY created_at DESC`, acc.Username)
}

// ReadRepliesByNoteId returns the local replies to a note, oldest first.
func (d *DB) ReadRepliesByNoteId(noteId uuid.UUID) (error, *[]domain.Note) {
	err, note := d.ReadNoteById(noteId)
	if err != nil {
		return err, nil
	}
	if note.ObjectURI == "" {
		return nil, &[]domain.Note{}
	}
	return d.readNotes(`WHERE in_reply_to_uri = ? ORDER BY created_at ASC`, note.ObjectURI)
}

// CountRepliesByNoteId counts local replies to a note by its canonical
// object URI.
func (d *DB) CountRepliesByNoteId(noteId uuid.UUID) (int, error) {
	err, note := d.ReadNoteById(noteId)
	if err != nil {
		return 0, err
	}
	if note.ObjectURI == "" {
		return 0, nil
	}
	return d.CountRepliesByURI(note.ObjectURI)
}

// CountRepliesByURI counts local notes replying to the given object URI,
// local or remote (a remote activity's object_uri works the same way).
func (d *DB) CountRepliesByURI(objectURI string) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE in_reply_to_uri = ?`, objectURI).Scan(&n)
	return n, err
}

// ReadNotesByHashtag returns public notes whose message contains the given
// hashtag (matched case-insensitively, word-bounded by non-word characters
// at search time by the caller's highlighting, not here), newest first.
func (d *DB) ReadNotesByHashtag(tag string, limit, offset int) (error, *[]domain.Note) {
	pattern := "%#" + tag + "%"
	rows, err := d.db.Query(`SELECT `+noteColumns+` FROM notes
		WHERE visibility = 'public' AND message LIKE ? ESCAPE '\' COLLATE NOCASE
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, pattern, limit, offset)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return err, nil
		}
		notes = append(notes, *n)
	}
	return rows.Err(), &notes
}

// CountNotesByHashtag counts public notes containing the given hashtag.
func (d *DB) CountNotesByHashtag(tag string) (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE visibility = 'public' AND message LIKE ? COLLATE NOCASE`,
		"%#"+tag+"%").Scan(&n)
	return n, err
}

func (d *DB) readNotes(where string, args ...any) (error, *[]domain.Note) {
	rows, err := d.db.Query(`SELECT `+noteColumns+` FROM notes `+where, args...)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return err, nil
		}
		notes = append(notes, *n)
	}
	return rows.Err(), &notes
}

// ReadTimelinePage reads local notes newest-first, paginated by a cursor id
// (not offset): pass uuid.Nil for the first page, then the last row's id as
// beforeId for subsequent pages. The cursor note's created_at is looked up
// and only notes created strictly before it are returned.
func (d *DB) ReadTimelinePage(beforeId uuid.UUID, limit int) (error, *[]domain.Note) {
	var rows *sql.Rows
	var err error
	if beforeId == uuid.Nil {
		rows, err = d.db.Query(`SELECT `+noteColumns+` FROM notes WHERE is_local = 1 ORDER BY created_at DESC LIMIT ?`, limit)
	} else {
		err, cursor := d.ReadNoteById(beforeId)
		if err != nil || cursor == nil {
			return err, nil
		}
		rows, err = d.db.Query(`SELECT `+noteColumns+` FROM notes WHERE is_local = 1 AND created_at < ? ORDER BY created_at DESC LIMIT ?`, cursor.CreatedAt, limit)
	}
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return err, nil
		}
		notes = append(notes, *n)
	}
	return rows.Err(), &notes
}

// ReadHomeTimelinePosts merges local notes and mirrored remote notes
// authored by accounts the given account follows (plus their own notes)
// into one time-ordered feed, newest first. A remote note's author is
// matched by remote_account_id directly against the follows row's
// target_account_id, since CreateRemoteNote stamps RemoteAccountId with the
// same id FollowProcessor/SendFollowWithDeps record as the followed target.
func (d *DB) ReadHomeTimelinePosts(accountId interface{}, limit int) (error, *[]domain.HomePost) {
	uid, ok := accountId.(uuid.UUID)
	if !ok {
		return fmt.Errorf("ReadHomeTimelinePosts: accountId must be a uuid.UUID, got %T", accountId), nil
	}

	err, viewer := d.ReadAccById(uid)
	if err != nil {
		return err, nil
	}

	rows, err := d.db.Query(`
		SELECT id, created_by, message, created_at, object_uri, reply_count, like_count, boost_count, is_local
		FROM notes
		WHERE created_by = ?
		   OR created_by IN (
				SELECT a.username FROM follows f
				JOIN accounts a ON a.id = f.target_account_id
				WHERE f.account_id = ? AND f.accepted = 1
		   )
		   OR remote_account_id IN (
				SELECT f.target_account_id FROM follows f
				WHERE f.account_id = ? AND f.accepted = 1
		   )
		ORDER BY created_at DESC LIMIT ?
	`, viewer.Username, uid.String(), uid.String(), limit)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var posts []domain.HomePost
	for rows.Next() {
		var p domain.HomePost
		var id string
		var isLocal int
		if err := rows.Scan(&id, &p.Author, &p.Content, &p.Time, &p.ObjectURI, &p.ReplyCount, &p.LikeCount, &p.BoostCount, &isLocal); err != nil {
			return err, nil
		}
		p.NoteID, err = uuid.Parse(id)
		if err != nil {
			return err, nil
		}
		p.ID = p.NoteID
		p.IsLocal = isLocal != 0
		p.Author = "@" + p.Author
		posts = append(posts, p)
	}
	return rows.Err(), &posts
}

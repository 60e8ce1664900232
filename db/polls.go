package db

import (
	"encoding/json"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

const sqlCreatePollsTable = `
CREATE TABLE IF NOT EXISTS polls (
	id TEXT PRIMARY KEY,
	note_id TEXT NOT NULL UNIQUE,
	choices TEXT NOT NULL,
	votes TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	multiple INTEGER NOT NULL DEFAULT 0
)`

const sqlCreatePollVotesTable = `
CREATE TABLE IF NOT EXISTS poll_votes (
	id TEXT PRIMARY KEY,
	poll_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	choice INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE(poll_id, account_id, choice)
)`

func scanPoll(row interface{ Scan(dest ...any) error }) (*domain.Poll, error) {
	var p domain.Poll
	var id, noteId, choicesJSON, votesJSON string
	var multiple int
	err := row.Scan(&id, &noteId, &choicesJSON, &votesJSON, &p.ExpiresAt, &multiple)
	if err != nil {
		return nil, err
	}
	if p.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if p.NoteId, err = uuid.Parse(noteId); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(choicesJSON), &p.Choices); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(votesJSON), &p.Votes); err != nil {
		return nil, err
	}
	p.Multiple = multiple != 0
	return &p, nil
}

func (d *DB) CreatePoll(p *domain.Poll) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	if p.Votes == nil {
		p.Votes = make([]int, len(p.Choices))
	}
	choicesJSON, err := json.Marshal(p.Choices)
	if err != nil {
		return err
	}
	votesJSON, err := json.Marshal(p.Votes)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT INTO polls (id, note_id, choices, votes, expires_at, multiple) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Id.String(), p.NoteId.String(), string(choicesJSON), string(votesJSON), p.ExpiresAt, boolToInt(p.Multiple))
	return err
}

func (d *DB) ReadPollByNoteId(noteId uuid.UUID) (error, *domain.Poll) {
	row := d.db.QueryRow(`SELECT id, note_id, choices, votes, expires_at, multiple FROM polls WHERE note_id = ?`, noteId.String())
	p, err := scanPoll(row)
	if err != nil {
		return err, nil
	}
	return nil, p
}

func (d *DB) ReadExpiredOpenPolls() (error, *[]domain.Poll) {
	rows, err := d.db.Query(`SELECT id, note_id, choices, votes, expires_at, multiple FROM polls WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var list []domain.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return err, nil
		}
		list = append(list, *p)
	}
	return rows.Err(), &list
}

// HasVoted reports whether account has already voted on poll, which
// CastVote callers must check first since a poll's Multiple flag (not a
// UNIQUE constraint alone) decides whether a second vote is legal.
func (d *DB) HasVoted(pollId, accountId uuid.UUID) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM poll_votes WHERE poll_id = ? AND account_id = ?`, pollId.String(), accountId.String()).Scan(&count)
	return count > 0, err
}

// CastVote records the vote and atomically bumps the poll's vote count for
// choice within the same transaction, since both rows must agree.
func (d *DB) CastVote(pollId, accountId uuid.UUID, choice int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO poll_votes (id, poll_id, account_id, choice, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), pollId.String(), accountId.String(), choice, time.Now())
	if err != nil {
		return err
	}

	var votesJSON string
	if err := tx.QueryRow(`SELECT votes FROM polls WHERE id = ?`, pollId.String()).Scan(&votesJSON); err != nil {
		return err
	}
	var votes []int
	if err := json.Unmarshal([]byte(votesJSON), &votes); err != nil {
		return err
	}
	if choice < 0 || choice >= len(votes) {
		return err
	}
	votes[choice]++
	updated, err := json.Marshal(votes)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE polls SET votes = ? WHERE id = ?`, string(updated), pollId.String()); err != nil {
		return err
	}
	return tx.Commit()
}

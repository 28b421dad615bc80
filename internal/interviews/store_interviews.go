package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Save inserts a new interview record and returns it with its ID and timestamp.
func (s *Store) Save(ctx context.Context, rec Record) (*Record, error) {
	if strings.TrimSpace(rec.UserID) == "" {
		return nil, fmt.Errorf("save interview: user id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var answersJSON sql.NullString
	if len(rec.Answers) > 0 {
		data, err := json.Marshal(rec.Answers)
		if err != nil {
			return nil, fmt.Errorf("marshal answers: %w", err)
		}
		answersJSON = sql.NullString{String: string(data), Valid: true}
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO interviews (
            user_id, duration_seconds, confidence, attention, stability,
            smoothness, audio_confidence, answer_quality, answers_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID,
		rec.Duration,
		rec.Scores.Confidence,
		rec.Scores.Attention,
		rec.Scores.Stability,
		rec.Scores.Smoothness,
		rec.Scores.AudioConfidence,
		rec.Scores.AnswerQuality,
		answersJSON,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert interview: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// History returns every record for userID, newest first.
func (s *Store) History(ctx context.Context, userID string) ([]Record, error) {
	ctx = ensureContext(ctx)
	var records []Record
	err := retryOnBusy(ctx, func() error {
		records = records[:0]
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, user_id, duration_seconds, confidence, attention, stability,
                smoothness, audio_confidence, answer_quality, answers_json, created_at
            FROM interviews
            WHERE user_id = ?
            ORDER BY created_at DESC, id DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records for userID.
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM interviews WHERE user_id = ?", userID).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count interviews: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		answers   sql.NullString
		createdAt string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Duration,
		&rec.Scores.Confidence,
		&rec.Scores.Attention,
		&rec.Scores.Stability,
		&rec.Scores.Smoothness,
		&rec.Scores.AudioConfidence,
		&rec.Scores.AnswerQuality,
		&answers,
		&createdAt,
	); err != nil {
		return Record{}, err
	}
	if answers.Valid && answers.String != "" {
		if err := json.Unmarshal([]byte(answers.String), &rec.Answers); err != nil {
			return Record{}, fmt.Errorf("decode answers for interview %d: %w", rec.ID, err)
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at for interview %d: %w", rec.ID, err)
	}
	rec.CreatedAt = ts
	return rec, nil
}

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aheeb/transcriptor/internal/caption"
)

type CaptionRepository struct {
	db *DB
}

func NewCaptionRepository(db *DB) *CaptionRepository {
	return &CaptionRepository{db: db}
}

func (r *CaptionRepository) InsertCaption(c *caption.Caption) error {
	style, err := caption.MarshalStyle(c.Style)
	if err != nil {
		return fmt.Errorf("failed to encode caption style: %w", err)
	}

	result, err := r.db.conn.Exec(
		`INSERT INTO captions (video_id, start_time, end_time, text, style)
		 VALUES (?, ?, ?, ?, ?)`,
		c.VideoID, c.StartTime, c.EndTime, c.Text, nullString(style),
	)
	if err != nil {
		return fmt.Errorf("failed to insert caption: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted caption id: %w", err)
	}
	c.ID = id

	return nil
}

func (r *CaptionRepository) GetCaptionByID(id int64) (*caption.Caption, error) {
	row := r.db.conn.QueryRow(
		`SELECT id, video_id, start_time, end_time, text, style
		 FROM captions WHERE id = ?`, id,
	)

	c, err := scanCaption(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("caption not found")
		}
		return nil, fmt.Errorf("failed to get caption: %w", err)
	}

	return c, nil
}

// GetCaptionsByVideoID returns a video's captions ordered by start time.
// The timecode notation is fixed-width, so lexicographic order matches
// chronological order.
func (r *CaptionRepository) GetCaptionsByVideoID(videoID int64) ([]caption.Caption, error) {
	rows, err := r.db.conn.Query(
		`SELECT id, video_id, start_time, end_time, text, style
		 FROM captions WHERE video_id = ? ORDER BY start_time, id`, videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}
	defer rows.Close()

	var captions []caption.Caption
	for rows.Next() {
		c, err := scanCaption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caption: %w", err)
		}
		captions = append(captions, *c)
	}

	return captions, rows.Err()
}

// UpdateCaption replaces every stored field of the caption, style included.
func (r *CaptionRepository) UpdateCaption(c *caption.Caption) error {
	style, err := caption.MarshalStyle(c.Style)
	if err != nil {
		return fmt.Errorf("failed to encode caption style: %w", err)
	}

	result, err := r.db.conn.Exec(
		`UPDATE captions SET start_time = ?, end_time = ?, text = ?, style = ?
		 WHERE id = ?`,
		c.StartTime, c.EndTime, c.Text, nullString(style), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update caption: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("caption not found")
	}

	return nil
}

// UpdateAllPositions rewrites the position entry of every caption belonging
// to the video to one shared coordinate, keeping all other style fields of
// each caption intact. Rows are updated one by one; the first failure stops
// the pass and rows already written stay written.
func (r *CaptionRepository) UpdateAllPositions(videoID int64, pos caption.Position) error {
	rows, err := r.db.conn.Query(
		`SELECT id, style FROM captions WHERE video_id = ?`, videoID,
	)
	if err != nil {
		return fmt.Errorf("failed to list captions: %w", err)
	}

	type captionStyle struct {
		id    int64
		style sql.NullString
	}

	// drain before updating: the writes reuse the connection
	var styles []captionStyle
	for rows.Next() {
		var cs captionStyle
		if err := rows.Scan(&cs.id, &cs.style); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan caption style: %w", err)
		}
		styles = append(styles, cs)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to list captions: %w", err)
	}

	for _, cs := range styles {
		fields := map[string]any{}
		if cs.style.Valid && cs.style.String != "" {
			if err := json.Unmarshal([]byte(cs.style.String), &fields); err != nil {
				return fmt.Errorf("failed to decode caption %d style: %w", cs.id, err)
			}
		}
		fields["position"] = caption.Position{X: pos.X, Y: pos.Y}

		merged, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to encode caption %d style: %w", cs.id, err)
		}

		if _, err := r.db.conn.Exec(
			`UPDATE captions SET style = ? WHERE id = ?`, string(merged), cs.id,
		); err != nil {
			return fmt.Errorf("failed to update caption %d position: %w", cs.id, err)
		}
	}

	return nil
}

func (r *CaptionRepository) DeleteCaption(id int64) error {
	result, err := r.db.conn.Exec(`DELETE FROM captions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete caption: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("caption not found")
	}

	return nil
}

// DeleteCaptionsByVideoID clears a video's captions before a regenerated
// transcript replaces them.
func (r *CaptionRepository) DeleteCaptionsByVideoID(videoID int64) error {
	if _, err := r.db.conn.Exec(
		`DELETE FROM captions WHERE video_id = ?`, videoID,
	); err != nil {
		return fmt.Errorf("failed to delete captions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaption(row rowScanner) (*caption.Caption, error) {
	var c caption.Caption
	var style sql.NullString

	if err := row.Scan(&c.ID, &c.VideoID, &c.StartTime, &c.EndTime, &c.Text, &style); err != nil {
		return nil, err
	}

	parsed, err := caption.UnmarshalStyle(style.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode caption style: %w", err)
	}
	c.Style = parsed

	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package database

import (
	"database/sql"
	"fmt"
	"time"
)

// video record as stored
type Video struct {
	ID          int64
	Filename    string
	StoredName  string
	ContentType string
	Size        int64
	Width       int
	Height      int
	CreatedAt   time.Time
}

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) InsertVideo(video *Video) error {
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.conn.Exec(
		`INSERT INTO videos (filename, stored_name, content_type, size, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		video.Filename, video.StoredName, video.ContentType,
		video.Size, video.Width, video.Height, video.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted video id: %w", err)
	}
	video.ID = id

	return nil
}

func (r *VideoRepository) GetVideoByID(id int64) (*Video, error) {
	var video Video
	err := r.db.conn.QueryRow(
		`SELECT id, filename, stored_name, content_type, size, width, height, created_at
		 FROM videos WHERE id = ?`, id,
	).Scan(
		&video.ID, &video.Filename, &video.StoredName, &video.ContentType,
		&video.Size, &video.Width, &video.Height, &video.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("video not found")
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &video, nil
}

func (r *VideoRepository) ListVideos() ([]Video, error) {
	rows, err := r.db.conn.Query(
		`SELECT id, filename, stored_name, content_type, size, width, height, created_at
		 FROM videos ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var video Video
		if err := rows.Scan(
			&video.ID, &video.Filename, &video.StoredName, &video.ContentType,
			&video.Size, &video.Width, &video.Height, &video.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

// UpdateVideoResolution records the probed frame size after upload.
func (r *VideoRepository) UpdateVideoResolution(id int64, width, height int) error {
	_, err := r.db.conn.Exec(
		`UPDATE videos SET width = ?, height = ? WHERE id = ?`,
		width, height, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update video resolution: %w", err)
	}
	return nil
}

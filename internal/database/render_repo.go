package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// render job lifecycle states
const (
	RenderStatusProcessing = "processing"
	RenderStatusComplete   = "complete"
	RenderStatusError      = "error"
)

// RenderJob tracks one burn-in run. Clients poll it by video until the
// status leaves processing.
type RenderJob struct {
	ID         string
	VideoID    int64
	Status     string
	OutputPath string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RenderRepository struct {
	db *DB
}

func NewRenderRepository(db *DB) *RenderRepository {
	return &RenderRepository{db: db}
}

// CreateJob inserts a new job in the processing state and returns it.
func (r *RenderRepository) CreateJob(videoID int64) (*RenderJob, error) {
	now := time.Now().UTC()
	job := &RenderJob{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		Status:    RenderStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.conn.Exec(
		`INSERT INTO render_jobs (id, video_id, status, output_path, error, created_at, updated_at)
		 VALUES (?, ?, ?, '', '', ?, ?)`,
		job.ID, job.VideoID, job.Status, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create render job: %w", err)
	}

	return job, nil
}

func (r *RenderRepository) MarkComplete(id, outputPath string) error {
	return r.finish(id, RenderStatusComplete, outputPath, "")
}

func (r *RenderRepository) MarkError(id, message string) error {
	return r.finish(id, RenderStatusError, "", message)
}

func (r *RenderRepository) finish(id, status, outputPath, message string) error {
	result, err := r.db.conn.Exec(
		`UPDATE render_jobs SET status = ?, output_path = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		status, outputPath, message, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update render job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check render job update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("render job not found")
	}

	return nil
}

// LatestJobByVideoID returns the most recently created job for a video.
func (r *RenderRepository) LatestJobByVideoID(videoID int64) (*RenderJob, error) {
	var job RenderJob
	err := r.db.conn.QueryRow(
		`SELECT id, video_id, status, output_path, error, created_at, updated_at
		 FROM render_jobs WHERE video_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, videoID,
	).Scan(
		&job.ID, &job.VideoID, &job.Status, &job.OutputPath,
		&job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("render job not found")
		}
		return nil, fmt.Errorf("failed to get render job: %w", err)
	}

	return &job, nil
}

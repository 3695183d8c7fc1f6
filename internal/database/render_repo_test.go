package database

import (
	"testing"
	"time"
)

func TestRenderRepository_CreateJob(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewRenderRepository(db)

	job, err := repo.CreateJob(video.ID)
	if err != nil {
		t.Fatalf("Failed to create render job: %v", err)
	}

	if job.ID == "" {
		t.Fatal("Expected job id to be assigned")
	}
	if job.Status != RenderStatusProcessing {
		t.Errorf("Expected status %s, got %s", RenderStatusProcessing, job.Status)
	}

	latest, err := repo.LatestJobByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to get latest job: %v", err)
	}
	if latest.ID != job.ID {
		t.Errorf("Expected latest job %s, got %s", job.ID, latest.ID)
	}
}

func TestRenderRepository_MarkComplete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewRenderRepository(db)

	job, err := repo.CreateJob(video.ID)
	if err != nil {
		t.Fatalf("Failed to create render job: %v", err)
	}

	if err := repo.MarkComplete(job.ID, "/data/out.mp4"); err != nil {
		t.Fatalf("Failed to mark job complete: %v", err)
	}

	latest, err := repo.LatestJobByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to get latest job: %v", err)
	}
	if latest.Status != RenderStatusComplete {
		t.Errorf("Expected status %s, got %s", RenderStatusComplete, latest.Status)
	}
	if latest.OutputPath != "/data/out.mp4" {
		t.Errorf("Expected output path recorded, got %q", latest.OutputPath)
	}
}

func TestRenderRepository_MarkError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewRenderRepository(db)

	job, err := repo.CreateJob(video.ID)
	if err != nil {
		t.Fatalf("Failed to create render job: %v", err)
	}

	if err := repo.MarkError(job.ID, "ffmpeg exploded"); err != nil {
		t.Fatalf("Failed to mark job errored: %v", err)
	}

	latest, err := repo.LatestJobByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to get latest job: %v", err)
	}
	if latest.Status != RenderStatusError {
		t.Errorf("Expected status %s, got %s", RenderStatusError, latest.Status)
	}
	if latest.Error != "ffmpeg exploded" {
		t.Errorf("Expected error message recorded, got %q", latest.Error)
	}
}

func TestRenderRepository_LatestJob_PicksNewest(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewRenderRepository(db)

	first, err := repo.CreateJob(video.ID)
	if err != nil {
		t.Fatalf("Failed to create render job: %v", err)
	}
	if err := repo.MarkComplete(first.ID, "/data/first.mp4"); err != nil {
		t.Fatalf("Failed to mark job complete: %v", err)
	}

	// created_at has second resolution in SQLite comparisons
	time.Sleep(1100 * time.Millisecond)

	second, err := repo.CreateJob(video.ID)
	if err != nil {
		t.Fatalf("Failed to create render job: %v", err)
	}

	latest, err := repo.LatestJobByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to get latest job: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Expected latest job %s, got %s", second.ID, latest.ID)
	}
	if latest.Status != RenderStatusProcessing {
		t.Errorf("Expected status %s, got %s", RenderStatusProcessing, latest.Status)
	}
}

func TestRenderRepository_LatestJob_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRenderRepository(db)

	_, err := repo.LatestJobByVideoID(12345)
	if err == nil {
		t.Error("Expected error when no jobs exist, got nil")
	}
}

package database

import (
	"testing"

	"github.com/aheeb/transcriptor/internal/caption"
)

func insertTestVideo(t *testing.T, db *DB) *Video {
	t.Helper()

	video := &Video{Filename: "v.mp4", StoredName: "v.mp4", ContentType: "video/mp4", Size: 1}
	if err := NewVideoRepository(db).InsertVideo(video); err != nil {
		t.Fatalf("Failed to insert video: %v", err)
	}
	return video
}

func TestCaptionRepository_InsertAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	c := &caption.Caption{
		VideoID:   video.ID,
		StartTime: "00:00:01,000",
		EndTime:   "00:00:03,500",
		Text:      "hello world",
		Style: &caption.Style{
			Color:    "#ffcc00",
			Position: &caption.Position{X: 0.25, Y: 0.75},
		},
	}

	if err := repo.InsertCaption(c); err != nil {
		t.Fatalf("Failed to insert caption: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("Expected inserted caption to receive an id")
	}

	retrieved, err := repo.GetCaptionByID(c.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}

	if retrieved.Text != "hello world" {
		t.Errorf("Expected text %q, got %q", "hello world", retrieved.Text)
	}
	if retrieved.Style == nil || retrieved.Style.Color != "#ffcc00" {
		t.Errorf("Expected style color to survive storage, got %+v", retrieved.Style)
	}
	if retrieved.Style.Position == nil || retrieved.Style.Position.X != 0.25 {
		t.Errorf("Expected position to survive storage, got %+v", retrieved.Style.Position)
	}
}

func TestCaptionRepository_NilStyleRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	c := &caption.Caption{
		VideoID: video.ID, StartTime: "00:00:00,000", EndTime: "00:00:01,000", Text: "plain",
	}
	if err := repo.InsertCaption(c); err != nil {
		t.Fatalf("Failed to insert caption: %v", err)
	}

	retrieved, err := repo.GetCaptionByID(c.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if retrieved.Style != nil {
		t.Errorf("Expected nil style, got %+v", retrieved.Style)
	}
}

func TestCaptionRepository_GetCaptionsByVideoID_Ordered(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	// inserted out of chronological order
	times := [][2]string{
		{"00:00:10,000", "00:00:12,000"},
		{"00:00:01,000", "00:00:03,000"},
		{"00:00:05,000", "00:00:07,000"},
	}
	for i, tt := range times {
		c := &caption.Caption{
			VideoID: video.ID, StartTime: tt[0], EndTime: tt[1], Text: "line",
		}
		if err := repo.InsertCaption(c); err != nil {
			t.Fatalf("Failed to insert caption %d: %v", i, err)
		}
	}

	captions, err := repo.GetCaptionsByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to list captions: %v", err)
	}

	if len(captions) != 3 {
		t.Fatalf("Expected 3 captions, got %d", len(captions))
	}
	for i := 1; i < len(captions); i++ {
		if captions[i-1].StartTime > captions[i].StartTime {
			t.Errorf("Captions out of order: %s before %s",
				captions[i-1].StartTime, captions[i].StartTime)
		}
	}
}

func TestCaptionRepository_UpdateCaption(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	c := &caption.Caption{
		VideoID: video.ID, StartTime: "00:00:01,000", EndTime: "00:00:02,000", Text: "before",
		Style: &caption.Style{Color: "#ffffff"},
	}
	if err := repo.InsertCaption(c); err != nil {
		t.Fatalf("Failed to insert caption: %v", err)
	}

	c.Text = "after"
	c.Style = nil
	if err := repo.UpdateCaption(c); err != nil {
		t.Fatalf("Failed to update caption: %v", err)
	}

	retrieved, err := repo.GetCaptionByID(c.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if retrieved.Text != "after" {
		t.Errorf("Expected updated text, got %q", retrieved.Text)
	}
	if retrieved.Style != nil {
		t.Errorf("Expected full replacement to clear style, got %+v", retrieved.Style)
	}
}

func TestCaptionRepository_UpdateCaption_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCaptionRepository(db)

	err := repo.UpdateCaption(&caption.Caption{
		ID: 4242, StartTime: "00:00:00,000", EndTime: "00:00:01,000", Text: "x",
	})
	if err == nil {
		t.Error("Expected error for non-existent caption, got nil")
	}
}

func TestCaptionRepository_UpdateAllPositions_PreservesOtherStyleFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	styled := &caption.Caption{
		VideoID: video.ID, StartTime: "00:00:01,000", EndTime: "00:00:02,000", Text: "styled",
		Style: &caption.Style{
			Color:    "#ff0000",
			FontSize: "32",
			Position: &caption.Position{X: 0.1, Y: 0.1},
		},
	}
	bare := &caption.Caption{
		VideoID: video.ID, StartTime: "00:00:03,000", EndTime: "00:00:04,000", Text: "bare",
	}
	for _, c := range []*caption.Caption{styled, bare} {
		if err := repo.InsertCaption(c); err != nil {
			t.Fatalf("Failed to insert caption: %v", err)
		}
	}

	if err := repo.UpdateAllPositions(video.ID, caption.Position{X: 0.5, Y: 0.9}); err != nil {
		t.Fatalf("Failed to update positions: %v", err)
	}

	after, err := repo.GetCaptionByID(styled.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if after.Style.Color != "#ff0000" || after.Style.FontSize != "32" {
		t.Errorf("Expected color and font size preserved, got %+v", after.Style)
	}
	if after.Style.Position == nil || after.Style.Position.X != 0.5 || after.Style.Position.Y != 0.9 {
		t.Errorf("Expected position replaced with {0.5 0.9}, got %+v", after.Style.Position)
	}

	bareAfter, err := repo.GetCaptionByID(bare.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if bareAfter.Style == nil || bareAfter.Style.Position == nil {
		t.Fatal("Expected a position written onto a caption without prior style")
	}
	if bareAfter.Style.Position.X != 0.5 || bareAfter.Style.Position.Y != 0.9 {
		t.Errorf("Expected position {0.5 0.9}, got %+v", bareAfter.Style.Position)
	}
}

func TestCaptionRepository_UpdateAllPositions_ScopedToVideo(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCaptionRepository(db)
	target := insertTestVideo(t, db)
	other := insertTestVideo(t, db)

	mine := &caption.Caption{
		VideoID: target.ID, StartTime: "00:00:01,000", EndTime: "00:00:02,000", Text: "mine",
	}
	theirs := &caption.Caption{
		VideoID: other.ID, StartTime: "00:00:01,000", EndTime: "00:00:02,000", Text: "theirs",
	}
	for _, c := range []*caption.Caption{mine, theirs} {
		if err := repo.InsertCaption(c); err != nil {
			t.Fatalf("Failed to insert caption: %v", err)
		}
	}

	if err := repo.UpdateAllPositions(target.ID, caption.Position{X: 0.4, Y: 0.6}); err != nil {
		t.Fatalf("Failed to update positions: %v", err)
	}

	mineAfter, err := repo.GetCaptionByID(mine.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if mineAfter.Style == nil || mineAfter.Style.Position == nil ||
		mineAfter.Style.Position.X != 0.4 || mineAfter.Style.Position.Y != 0.6 {
		t.Errorf("Expected target video's caption repositioned, got %+v", mineAfter.Style)
	}

	theirsAfter, err := repo.GetCaptionByID(theirs.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve caption: %v", err)
	}
	if theirsAfter.Style != nil {
		t.Errorf("Expected other video's caption untouched, got %+v", theirsAfter.Style)
	}
}

func TestCaptionRepository_UpdateAllPositions_NoCaptions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	if err := repo.UpdateAllPositions(video.ID, caption.Position{X: 0.5, Y: 0.5}); err != nil {
		t.Errorf("Expected no error for a video without captions, got %v", err)
	}
}

func TestCaptionRepository_DeleteCaptionsByVideoID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	video := insertTestVideo(t, db)
	repo := NewCaptionRepository(db)

	for i := 0; i < 3; i++ {
		c := &caption.Caption{
			VideoID: video.ID, StartTime: "00:00:01,000", EndTime: "00:00:02,000", Text: "line",
		}
		if err := repo.InsertCaption(c); err != nil {
			t.Fatalf("Failed to insert caption: %v", err)
		}
	}

	if err := repo.DeleteCaptionsByVideoID(video.ID); err != nil {
		t.Fatalf("Failed to delete captions: %v", err)
	}

	captions, err := repo.GetCaptionsByVideoID(video.ID)
	if err != nil {
		t.Fatalf("Failed to list captions: %v", err)
	}
	if len(captions) != 0 {
		t.Errorf("Expected no captions after delete, got %d", len(captions))
	}
}

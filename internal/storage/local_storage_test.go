package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorage(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewLocalStorage(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	t.Run("SaveFile", func(t *testing.T) {
		content := []byte("test video content")

		info := FileInfo{
			Filename:    "test.mp4",
			ContentType: "video/mp4",
			Size:        int64(len(content)),
		}

		filename, err := store.SaveFile(bytes.NewReader(content), info)
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		if filepath.Ext(filename) != ".mp4" {
			t.Errorf("Expected .mp4 extension, got %s", filepath.Ext(filename))
		}

		savedPath := filepath.Join(tmpDir, filename)
		if _, err := os.Stat(savedPath); os.IsNotExist(err) {
			t.Error("Saved file does not exist on disk")
		}
	})

	t.Run("OpenFile", func(t *testing.T) {
		content := []byte("readable content")
		filename, err := store.SaveFile(bytes.NewReader(content), FileInfo{Filename: "r.mp4"})
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		f, err := store.OpenFile(filename)
		if err != nil {
			t.Fatalf("Failed to open file: %v", err)
		}
		defer f.Close()

		read, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if !bytes.Equal(read, content) {
			t.Errorf("Expected %q, got %q", content, read)
		}
	})

	t.Run("DeleteFile", func(t *testing.T) {
		filename, err := store.SaveFile(bytes.NewReader([]byte("x")), FileInfo{Filename: "d.mp4"})
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		if err := store.DeleteFile(filename); err != nil {
			t.Fatalf("Failed to delete file: %v", err)
		}

		if _, err := store.OpenFile(filename); err == nil {
			t.Error("Expected error opening deleted file")
		}
	})

	t.Run("FullPathRejectsTraversal", func(t *testing.T) {
		for _, name := range []string{"../escape.mp4", "a/../../escape.mp4", "/etc/passwd"} {
			if _, err := store.FullPath(name); err == nil {
				t.Errorf("Expected error for path %q", name)
			}
		}
	})

	t.Run("MissingExtensionDefaultsToMP4", func(t *testing.T) {
		filename, err := store.SaveFile(bytes.NewReader([]byte("x")), FileInfo{Filename: "noext"})
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if filepath.Ext(filename) != ".mp4" {
			t.Errorf("Expected .mp4 extension, got %s", filepath.Ext(filename))
		}
	})
}

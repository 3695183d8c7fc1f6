package storage

import (
	"io"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage persists uploaded and rendered media files. FullPath exposes an
// on-disk location because ffmpeg works on real paths, not streams.
type Storage interface {
	SaveFile(file io.Reader, info FileInfo) (string, error)
	OpenFile(name string) (io.ReadSeekCloser, error)
	DeleteFile(name string) error
	FullPath(name string) (string, error)
	BasePath() string
}

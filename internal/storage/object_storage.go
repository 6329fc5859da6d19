package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Folder is the storage lifecycle stage of an object. It is a closed
// enumeration: unverified (just uploaded), verified (admin-approved),
// certificate (final issued document).
type Folder string

const (
	FolderUnverified  Folder = "unverified"
	FolderVerified    Folder = "verified"
	FolderCertificate Folder = "certificate"
)

func (f Folder) IsValid() bool {
	switch f {
	case FolderUnverified, FolderVerified, FolderCertificate:
		return true
	}
	return false
}

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidFolder  = errors.New("invalid storage folder")
)

// UploadInput describes one incoming file.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

// StoredObject is the persisted descriptor shape consumed by the
// frontend to render download links.
type StoredObject struct {
	Key          string `json:"key"`
	OriginalName string `json:"original_name"`
	Folder       Folder `json:"folder"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
}

// ObjectStorage is the object-store gateway contract: upload,
// folder-move (unverified -> verified), time-limited signed-URL issuance,
// listing and deletion.
type ObjectStorage interface {
	Upload(ctx context.Context, in UploadInput, folder Folder) (*StoredObject, error)
	MoveToFolder(ctx context.Context, key string, folder Folder) (string, error)
	SignedURL(key string, ttl time.Duration) (string, error)
	ListByFolder(folder Folder, limit int) ([]StoredObject, error)
	Delete(ctx context.Context, key string) error
	Open(key string) (io.ReadCloser, error)
}

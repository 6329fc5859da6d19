package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalObjectStorage keeps objects on disk under
// {basePath}/{folder}/{uuid}{ext}. The key is "{folder}/{filename}";
// a folder move renames the file keeping its basename, so the object's
// identity survives the unverified -> verified promotion.
type LocalObjectStorage struct {
	basePath string
	signer   *URLSigner
}

func NewLocalObjectStorage(basePath string, signer *URLSigner) (*LocalObjectStorage, error) {
	for _, folder := range []Folder{FolderUnverified, FolderVerified, FolderCertificate} {
		if err := os.MkdirAll(filepath.Join(basePath, string(folder)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &LocalObjectStorage{basePath: basePath, signer: signer}, nil
}

func (s *LocalObjectStorage) Upload(ctx context.Context, in UploadInput, folder Folder) (*StoredObject, error) {
	if !folder.IsValid() {
		return nil, ErrInvalidFolder
	}

	fileName := uuid.NewString() + filepath.Ext(in.OriginalName)
	key := path.Join(string(folder), fileName)
	fullPath := filepath.Join(s.basePath, string(folder), fileName)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, in.Reader)
	if err != nil {
		// Clean up on error
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	return &StoredObject{
		Key:          key,
		OriginalName: in.OriginalName,
		Folder:       folder,
		ContentType:  in.ContentType,
		Size:         size,
	}, nil
}

// MoveToFolder relocates an object to another lifecycle folder and
// returns its new key. The basename is preserved.
func (s *LocalObjectStorage) MoveToFolder(ctx context.Context, key string, folder Folder) (string, error) {
	if !folder.IsValid() {
		return "", ErrInvalidFolder
	}

	oldPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return "", ErrObjectNotFound
	}

	fileName := path.Base(key)
	newKey := path.Join(string(folder), fileName)
	newPath := filepath.Join(s.basePath, string(folder), fileName)

	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("failed to move object: %w", err)
	}

	return newKey, nil
}

func (s *LocalObjectStorage) SignedURL(key string, ttl time.Duration) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return "", ErrObjectNotFound
	}
	return s.signer.Sign(key, ttl)
}

func (s *LocalObjectStorage) ListByFolder(folder Folder, limit int) ([]StoredObject, error) {
	if !folder.IsValid() {
		return nil, ErrInvalidFolder
	}

	entries, err := os.ReadDir(filepath.Join(s.basePath, string(folder)))
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	objects := make([]StoredObject, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if limit > 0 && len(objects) >= limit {
			break
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, StoredObject{
			Key:    path.Join(string(folder), entry.Name()),
			Folder: folder,
			Size:   info.Size(),
		})
	}
	return objects, nil
}

func (s *LocalObjectStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil // nothing to delete
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *LocalObjectStorage) Open(key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalObjectStorage {
	t.Helper()
	signer, err := NewURLSigner("test-signing-secret", "http://localhost:8080")
	require.NoError(t, err)

	store, err := NewLocalObjectStorage(t.TempDir(), signer)
	require.NoError(t, err)
	return store
}

func TestUploadAndOpen(t *testing.T) {
	store := newTestStorage(t)

	obj, err := store.Upload(context.Background(), UploadInput{
		OriginalName: "receipt.jpg",
		ContentType:  "image/jpeg",
		Reader:       strings.NewReader("fake-jpeg-bytes"),
	}, FolderUnverified)
	require.NoError(t, err)

	assert.Equal(t, FolderUnverified, obj.Folder)
	assert.Equal(t, "receipt.jpg", obj.OriginalName)
	assert.True(t, strings.HasPrefix(obj.Key, "unverified/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))
	assert.Equal(t, int64(len("fake-jpeg-bytes")), obj.Size)

	rc, err := store.Open(obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(content))
}

func TestUploadRejectsUnknownFolder(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Upload(context.Background(), UploadInput{
		OriginalName: "x.png",
		Reader:       strings.NewReader("x"),
	}, Folder("archive"))
	assert.ErrorIs(t, err, ErrInvalidFolder)
}

func TestMoveToFolderPreservesBasename(t *testing.T) {
	store := newTestStorage(t)

	obj, err := store.Upload(context.Background(), UploadInput{
		OriginalName: "aadhaar.png",
		Reader:       strings.NewReader("doc"),
	}, FolderUnverified)
	require.NoError(t, err)

	newKey, err := store.MoveToFolder(context.Background(), obj.Key, FolderVerified)
	require.NoError(t, err)

	assert.Equal(t, path.Base(obj.Key), path.Base(newKey))
	assert.True(t, strings.HasPrefix(newKey, "verified/"))

	// Old key is gone, new key is readable.
	_, err = store.Open(obj.Key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	rc, err := store.Open(newKey)
	require.NoError(t, err)
	rc.Close()
}

func TestMoveMissingObject(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.MoveToFolder(context.Background(), "unverified/nope.png", FolderVerified)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestListByFolderHonorsLimit(t *testing.T) {
	store := newTestStorage(t)

	for i := 0; i < 4; i++ {
		_, err := store.Upload(context.Background(), UploadInput{
			OriginalName: "f.pdf",
			Reader:       strings.NewReader("pdf"),
		}, FolderCertificate)
		require.NoError(t, err)
	}

	objects, err := store.ListByFolder(FolderCertificate, 2)
	require.NoError(t, err)
	assert.Len(t, objects, 2)

	all, err := store.ListByFolder(FolderCertificate, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStorage(t)

	obj, err := store.Upload(context.Background(), UploadInput{
		OriginalName: "f.png",
		Reader:       strings.NewReader("x"),
	}, FolderUnverified)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), obj.Key))
	require.NoError(t, store.Delete(context.Background(), obj.Key))
}

func TestSignedURLPointsAtSameKey(t *testing.T) {
	store := newTestStorage(t)

	obj, err := store.Upload(context.Background(), UploadInput{
		OriginalName: "receipt.jpg",
		Reader:       strings.NewReader("x"),
	}, FolderUnverified)
	require.NoError(t, err)

	url, err := store.SignedURL(obj.Key, 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "key=unverified%2F")

	_, err = store.SignedURL("unverified/missing.jpg", 15*time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

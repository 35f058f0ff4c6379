package blob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	downloadCalls int
	downloadErr   error

	deleted []string
}

func (f *fakeStore) PresignUpload(ctx context.Context) (string, string, error) {
	return "key-1", "https://s3/put/key-1", nil
}

func (f *fakeStore) PresignDownload(ctx context.Context, key string) (string, error) {
	f.downloadCalls++
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "https://s3/get/" + key, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestCachedStore_DownloadCachedUntilTTL(t *testing.T) {
	inner := &fakeStore{}
	c := NewCachedStore(inner, 8, time.Minute)
	ctx := context.Background()

	u1, err := c.PresignDownload(ctx, "k")
	require.NoError(t, err)
	u2, err := c.PresignDownload(ctx, "k")
	require.NoError(t, err)

	require.Equal(t, u1, u2)
	require.Equal(t, 1, inner.downloadCalls, "second call must hit the cache")
}

func TestCachedStore_ErrorNotCached(t *testing.T) {
	inner := &fakeStore{downloadErr: errors.New("presign failed")}
	c := NewCachedStore(inner, 8, time.Minute)
	ctx := context.Background()

	_, err := c.PresignDownload(ctx, "k")
	require.Error(t, err)

	inner.downloadErr = nil
	_, err = c.PresignDownload(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, 2, inner.downloadCalls)
}

func TestCachedStore_DeleteInvalidates(t *testing.T) {
	inner := &fakeStore{}
	c := NewCachedStore(inner, 8, time.Minute)
	ctx := context.Background()

	_, err := c.PresignDownload(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "k"))
	require.Equal(t, []string{"k"}, inner.deleted)

	_, err = c.PresignDownload(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, 2, inner.downloadCalls, "deleted key must be re-presigned")
}

func TestCachedStore_UploadPassthrough(t *testing.T) {
	inner := &fakeStore{}
	c := NewCachedStore(inner, 8, time.Minute)

	key, url, err := c.PresignUpload(context.Background())
	require.NoError(t, err)
	require.Equal(t, "key-1", key)
	require.Equal(t, "https://s3/put/key-1", url)
}

func TestRandomStorageKey_Unique(t *testing.T) {
	a := RandomStorageKey()
	b := RandomStorageKey()
	require.NotEqual(t, a, b)
	require.Contains(t, a, "orgs/")
}

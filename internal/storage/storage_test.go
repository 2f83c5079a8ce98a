package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/config"
	"jobboard/internal/logging"
)

func TestUniqueFileName(t *testing.T) {
	a := UniqueFileName("../../logo.png")
	b := UniqueFileName("../../logo.png")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_logo.png"))
	assert.NotContains(t, a, "/")
	assert.Len(t, strings.SplitN(a, "_", 2)[0], 36)
}

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "images", logging.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/images/"))

	onDisk := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(onDisk)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// already gone, and empty references, are fine
	assert.NoError(t, store.Delete(ctx, ref))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestLocalStoreDeleteStaysInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "images")
	store, err := NewLocalStore(dir, "/images", logging.Discard())
	require.NoError(t, err)

	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	require.NoError(t, store.Delete(context.Background(), "/images/../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	putErr  error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestSpacesStore(t *testing.T) {
	cfg := config.Default()
	cfg.DigitalOcean.Spaces.CDNEndpoint = "https://cdn.example.com/"
	fake := &fakeS3{}
	store := NewSpacesStoreWithClient(fake, cfg, logging.Discard())
	ctx := context.Background()

	ref, err := store.Save(ctx, "banner.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, fake.puts, 1)

	key := aws.StringValue(fake.puts[0].Key)
	assert.True(t, strings.HasPrefix(key, "jobs/images/"))
	assert.Equal(t, "https://cdn.example.com/"+key, ref)
	assert.Equal(t, "image/png", aws.StringValue(fake.puts[0].ContentType))

	require.NoError(t, store.Delete(ctx, ref))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, key, aws.StringValue(fake.deletes[0].Key))

	fake.putErr = errors.New("503")
	_, err = store.Save(ctx, "x.png", "", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://b.blr1.digitaloceanspaces.com", publicBaseURL("", "", "b", "blr1"))
	assert.Equal(t, "https://bucket.example.com", publicBaseURL("", "bucket.example.com/", "b", "blr1"))
}

package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	calls   int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("https://proglv-public.s3.eu-central-1.amazonaws.com/subm/alice/Main.java.zst")
	require.NoError(t, err)
	assert.Equal(t, "proglv-public", bucket)
	assert.Equal(t, "subm/alice/Main.java.zst", key)

	for _, bad := range []string{
		"Main.java",
		"/abs/path/Main.java",
		"http://bucket.s3.eu-central-1.amazonaws.com/key",
		"https://example.com/key",
		"https://bucket.s3.eu-central-1.amazonaws.com/",
	} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
	assert.False(t, IsRemote("subm/Main.java"))
}

func TestResolveLocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Main.java")
	require.NoError(t, os.WriteFile(p, []byte("class Main {}"), 0644))

	f := New(filepath.Join(dir, "cache"), nil, nil)
	got, err := f.Resolve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = f.Resolve(context.Background(), filepath.Join(dir, "missing.java"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveLocalZst(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Main.java.zst")
	require.NoError(t, os.WriteFile(p, compress(t, []byte("class Main {}")), 0644))

	f := New(filepath.Join(dir, "cache"), nil, nil)
	got, err := f.Resolve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Main.java", filepath.Base(got))

	body, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "class Main {}", string(body))
}

func TestResolveS3(t *testing.T) {
	s3c := &fakeS3{objects: map[string][]byte{
		"bucket/alice/App.jar":       []byte("PK\x03\x04jar"),
		"bucket/alice/Main.java.zst": compress(t, []byte("class Main {}")),
	}}
	f := New(t.TempDir(), s3c, nil)
	ctx := context.Background()

	got, err := f.Resolve(ctx, "https://bucket.s3.eu-central-1.amazonaws.com/alice/App.jar")
	require.NoError(t, err)
	assert.Equal(t, "App.jar", filepath.Base(got))
	body, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04jar", string(body))

	// cached
	_, err = f.Resolve(ctx, "https://bucket.s3.eu-central-1.amazonaws.com/alice/App.jar")
	require.NoError(t, err)
	assert.Equal(t, 1, s3c.calls)

	got, err = f.Resolve(ctx, "https://bucket.s3.eu-central-1.amazonaws.com/alice/Main.java.zst")
	require.NoError(t, err)
	assert.Equal(t, "Main.java", filepath.Base(got))
	body, err = os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "class Main {}", string(body))

	_, err = f.Resolve(ctx, "https://bucket.s3.eu-central-1.amazonaws.com/bob/App.jar")
	assert.Error(t, err)
}

func TestResolveS3WithoutClient(t *testing.T) {
	f := New(t.TempDir(), nil, nil)
	_, err := f.Resolve(context.Background(), "https://bucket.s3.eu-central-1.amazonaws.com/alice/App.jar")
	assert.ErrorContains(t, err, "no S3 client")
}

// Package fetch makes a task artifact available as a local file.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
)

// ObjectGetter is the part of the S3 client used for downloads.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client loads the default AWS configuration for region.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

type Fetcher struct {
	cacheDir string
	s3       ObjectGetter
	logger   *slog.Logger
}

// New returns a Fetcher that stores downloaded and decompressed files below
// cacheDir. client may be nil when no artifact lives in S3.
func New(cacheDir string, client ObjectGetter, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{cacheDir: cacheDir, s3: client, logger: logger}
}

// IsRemote reports whether location is an S3 https URL.
func IsRemote(location string) bool {
	_, _, err := parseS3URL(location)
	return err == nil
}

// Resolve returns a local path for location. Local files are returned as is
// unless they end in .zst, in which case they are decompressed into the
// cache. S3 URLs are downloaded into the cache.
func (f *Fetcher) Resolve(ctx context.Context, location string) (string, error) {
	if bucket, key, err := parseS3URL(location); err == nil {
		return f.download(ctx, location, bucket, key)
	}

	if _, err := os.Stat(location); err != nil {
		return "", fmt.Errorf("artifact %s: %w", location, err)
	}
	if filepath.Ext(location) != ".zst" {
		return location, nil
	}

	in, err := os.Open(location)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", location, err)
	}
	defer in.Close()

	dst, err := f.cachePath(location, filepath.Base(location))
	if err != nil {
		return "", err
	}
	if err := writeFile(dst, in, true); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *Fetcher) download(ctx context.Context, s3Url, bucket, key string) (string, error) {
	if f.s3 == nil {
		return "", fmt.Errorf("cannot download %s: no S3 client configured", s3Url)
	}

	dst, err := f.cachePath(s3Url, path.Base(key))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dst); err == nil {
		f.logger.Debug("artifact already cached", "url", s3Url, "path", dst)
		return dst, nil
	}

	f.logger.Info("downloading artifact from s3", "url", s3Url)
	obj, err := f.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download file %s from s3: %w (bucket: %s, key: %s)", s3Url, err, bucket, key)
	}
	defer obj.Body.Close()

	zst := (obj.ContentType != nil && *obj.ContentType == "application/zstd") || path.Ext(key) == ".zst"
	if err := writeFile(dst, obj.Body, zst); err != nil {
		return "", err
	}
	return dst, nil
}

// cachePath keeps the artifact's own name, without a .zst suffix, inside a
// directory derived from its source so the runtime sees the original name.
func (f *Fetcher) cachePath(source, name string) (string, error) {
	if f.cacheDir == "" {
		return "", errors.New("no cache directory configured")
	}
	sum := sha256.Sum256([]byte(source))
	dir := filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return filepath.Join(dir, strings.TrimSuffix(name, ".zst")), nil
}

// writeFile writes r to dst through a temporary file so a failed download
// never leaves a partial artifact behind.
func writeFile(dst string, r io.Reader, zst bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".part-*")
	if err != nil {
		return fmt.Errorf("failed to create file in %s: %w", filepath.Dir(dst), err)
	}
	defer os.Remove(tmp.Name())

	if zst {
		d, err := zstd.NewReader(r)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer d.Close()
		r = d
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move file into cache: %w", err)
	}
	return nil
}

// parseS3URL accepts https://<bucket>.s3.<region>.amazonaws.com/<key>.
func parseS3URL(s3Url string) (bucket, key string, err error) {
	if !strings.HasPrefix(s3Url, "https://") {
		return "", "", fmt.Errorf("not an s3 url: %s", s3Url)
	}
	u, err := url.Parse(s3Url)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse s3 url %s: %w", s3Url, err)
	}

	hostParts := strings.Split(u.Host, ".")
	if len(hostParts) < 3 || hostParts[1] != "s3" {
		return "", "", fmt.Errorf("invalid s3 url host format: %s", u.Host)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 url %s has no key", s3Url)
	}
	return hostParts[0], key, nil
}

package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the file system calls
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileSystem implements fsx.FileSystemWithPresign on one bucket under an optional key prefix
type S3FileSystem struct {
	client    S3API
	presigner *s3.PresignClient
	bucket    string
	prefix    string
}

// NewS3FileSystem builds the store with presigned downloads enabled
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
	}
}

// NewWithAPI is used by tests to run against a fake client
func NewWithAPI(client S3API, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	body, err := fs.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fsx.Failed(fsx.ErrReadFailed, p, err)
	}
	return data, nil
}

func (fs *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return nil, fs.mapErr(fsx.ErrReadFailed, p, err)
	}
	return out.Body, nil
}

func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return fsx.FileInfo{}, fs.mapErr(fsx.ErrReadFailed, p, err)
	}

	info := fsx.FileInfo{
		Name:        path.Base(p),
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		info.ModTime = *out.LastModified
	}
	return info, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(fs.key(p)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(fsx.DetectContentType(p, data)),
	})
	if err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, p, err)
	}
	return nil
}

// WriteFileStream buffers r so the request body is seekable for signing
func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fsx.Failed(fsx.ErrWriteFailed, p, err)
	}
	return fs.WriteFile(ctx, p, data)
}

func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil && !isNotFound(err) {
		return fsx.Failed(fsx.ErrDelete, p, err)
	}
	return nil
}

func (fs *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (fs *S3FileSystem) GetPresignedDownloadURL(ctx context.Context, p string, expiration time.Duration) (string, error) {
	if fs.presigner == nil {
		return "", fsx.Failed(fsx.ErrPresign, p, errors.New("presigning not configured"))
	}
	req, err := fs.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fsx.Failed(fsx.ErrPresign, p, err)
	}
	return req.URL, nil
}

func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if fs.prefix == "" {
		return p
	}
	return fs.prefix + "/" + p
}

func (fs *S3FileSystem) mapErr(code *errx.ErrorCode, p string, err error) error {
	if isNotFound(err) {
		return fsx.NotFound(p)
	}
	return fsx.Failed(code, p, err)
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fsx.NotFound(""))
}

// Package minio provides a MinIO/S3-compatible transfer area.
//
// Objects are stored under an optional key prefix. Directories are virtual:
// they exist while any key lives beneath them, and MkdirAll writes zero-length
// "dir/" marker objects so empty directories survive. Modification times set
// through Chtimes are kept in object user metadata because S3 LastModified
// cannot be changed.
package minio

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

// defaultMultipartThreshold is the buffered write size after which a file
// switches to a streaming multipart upload.
const defaultMultipartThreshold = 5 * 1024 * 1024

// Config describes where the transfer area keeps its objects.
//
// Either Client is set, or Endpoint, AccessKey and SecretKey are used to
// build one. Bucket is always required and must already exist.
type Config struct {
	Endpoint  string // host:port of the server
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Prefix namespaces every key, so several areas can share a bucket.
	Prefix string

	// Client overrides the connection fields above.
	Client *minio.Client

	// MultipartThreshold overrides defaultMultipartThreshold.
	MultipartThreshold int64
}

// validate reports every missing field at once.
func (c *Config) validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if c.Client == nil {
		if c.Endpoint == "" {
			errs = append(errs, errors.New("endpoint is required without a client"))
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			errs = append(errs, errors.New("credentials are required without a client"))
		}
	}
	if c.MultipartThreshold < 0 {
		errs = append(errs, errors.New("multipart threshold cannot be negative"))
	}
	return errors.Join(errs...)
}

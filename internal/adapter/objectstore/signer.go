// Package objectstore issues time-limited signed URLs for preview objects
// stored in a GCS-compatible bucket.
package objectstore

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/heartmarshall/slide-relay/internal/config"
	"github.com/heartmarshall/slide-relay/internal/domain"
)

// ErrKeyNotAllowed is returned for object keys outside the allowed prefix
// or containing path traversal.
var ErrKeyNotAllowed = fmt.Errorf("%w: object key not allowed", domain.ErrForbidden)

// ErrBucketNotAllowed is returned when a bucket is configured and the
// requested object lives elsewhere.
var ErrBucketNotAllowed = fmt.Errorf("%w: bucket not allowed", domain.ErrForbidden)

// SignedURL is a pre-authorized GET URL and the moment it stops working.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// Signer produces V4 signed GET URLs. It never talks to the network.
type Signer struct {
	accessID      string
	privateKey    []byte
	bucket        string
	hostname      string
	insecure      bool
	ttl           time.Duration
	allowedPrefix string
	now           func() time.Time
}

// NewSigner creates a Signer from storage settings. Returns an error if
// signing credentials are missing or the endpoint is malformed.
func NewSigner(cfg config.StorageConfig) (*Signer, error) {
	if !cfg.SigningEnabled() {
		return nil, errors.New("objectstore: access id and private key are required")
	}

	s := &Signer{
		accessID:      cfg.AccessID,
		privateKey:    []byte(cfg.PrivateKey),
		bucket:        cfg.Bucket,
		ttl:           cfg.URLTTL,
		allowedPrefix: cfg.AllowedPrefix,
		now:           time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 15 * time.Minute
	}

	if cfg.Endpoint != "" {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("objectstore: invalid endpoint %q", cfg.Endpoint)
		}
		s.hostname = u.Host
		s.insecure = u.Scheme == "http"
	}

	return s, nil
}

// SignGet returns a signed GET URL for key in bucket.
func (s *Signer) SignGet(bucket, key string) (SignedURL, error) {
	if s.bucket != "" && bucket != s.bucket {
		return SignedURL{}, fmt.Errorf("%w: %q", ErrBucketNotAllowed, bucket)
	}
	if err := s.checkKey(key); err != nil {
		return SignedURL{}, err
	}

	expires := s.now().Add(s.ttl)
	raw, err := storage.SignedURL(bucket, key, &storage.SignedURLOptions{
		GoogleAccessID: s.accessID,
		PrivateKey:     s.privateKey,
		Method:         http.MethodGet,
		Expires:        expires,
		Scheme:         storage.SigningSchemeV4,
		Hostname:       s.hostname,
		Insecure:       s.insecure,
	})
	if err != nil {
		return SignedURL{}, fmt.Errorf("objectstore: sign %s/%s: %w", bucket, key, err)
	}

	return SignedURL{URL: raw, ExpiresAt: expires}, nil
}

func (s *Signer) checkKey(key string) error {
	switch {
	case key == "",
		strings.HasPrefix(key, "/"),
		strings.Contains(key, "\\"),
		strings.ContainsRune(key, 0):
		return fmt.Errorf("%w: %q", ErrKeyNotAllowed, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("%w: %q", ErrKeyNotAllowed, key)
		}
	}
	if path.Clean(key) != strings.TrimSuffix(key, "/") {
		return fmt.Errorf("%w: %q", ErrKeyNotAllowed, key)
	}
	if s.allowedPrefix != "" && !strings.HasPrefix(key, s.allowedPrefix) {
		return fmt.Errorf("%w: %q is outside %q", ErrKeyNotAllowed, key, s.allowedPrefix)
	}
	return nil
}

// Package assetstore uploads in-memory media buffers to a remote host and
// returns a durable, publicly resolvable URL for the stored asset.
package assetstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

const ResourceTypeVideo = "video"

// Metadata describes where and how an asset is stored remotely.
type Metadata struct {
	ResourceType string
	Folder       string
	PublicID     string
	FileName     string // original client file name, used for the extension
	ContentType  string
}

// Asset is a successfully stored remote object.
type Asset struct {
	URL        string
	ProviderID string
	Bytes      int64
}

// ProgressFunc receives the number of bytes handed to the provider so far.
type ProgressFunc func(sent, total int64)

// Uploader stores a byte buffer remotely. Implementations do not retry.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, body []byte, meta Metadata, progress ProgressFunc) (*Asset, error)
}

// Deleter removes a previously uploaded asset.
type Deleter interface {
	Delete(ctx context.Context, providerID, resourceType string) error
}

var (
	ErrEmptyPayload    = errors.New("empty payload")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// UploadError is returned for every failed upload. Reason is safe to show
// to the client.
type UploadError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s upload failed: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s upload failed: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func uploadErr(provider, reason string, err error) error {
	return &UploadError{Provider: provider, Reason: reason, Err: err}
}

// checkPayload rejects empty and oversized buffers before any network I/O.
func checkPayload(provider string, body []byte, maxBytes int64) error {
	if len(body) == 0 {
		return uploadErr(provider, "file is empty", ErrEmptyPayload)
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		reason := fmt.Sprintf("file is %s, limit is %s",
			humanize.Bytes(uint64(len(body))), humanize.Bytes(uint64(maxBytes)))
		return uploadErr(provider, reason, ErrPayloadTooLarge)
	}
	return nil
}

// progressReader reports cumulative bytes read from the wrapped reader.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}

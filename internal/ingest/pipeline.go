// Package ingest sequences a single video upload through name check,
// remote upload, frame rate probe and persistence.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/internal/metrics"
	"thirdcoast.systems/openvidreview/pkg/assetstore"
	"thirdcoast.systems/openvidreview/pkg/ffmpeg"
)

const DefaultUploadTimeout = 10 * time.Minute

// Store is the review identity store. Insert must report a concurrent
// insert of the same name as db.ErrReviewNameTaken.
type Store interface {
	NameExists(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, r db.NewReview) (int64, error)
}

// Prober resolves a frame rate for a hosted asset and never fails.
type Prober interface {
	ProbeFrameRate(ctx context.Context, target string) ffmpeg.FrameRate
}

// ProgressReporter receives byte progress for the upload phase only.
type ProgressReporter interface {
	Report(sent, total int64)
	Complete()
}

type Request struct {
	ReviewName  string
	Password    string
	FileName    string
	ContentType string
	Body        []byte
	Progress    ProgressReporter
}

type Result struct {
	ID         int64
	PublicID   string
	ProviderID string // provider's identifier, may include the folder
	ReviewName string
	VideoURL   string
	FrameRate  float64
	Measured   bool
}

type Pipeline struct {
	Store         Store
	Uploader      assetstore.Uploader
	Prober        Prober
	Folder        string
	UploadTimeout time.Duration
	Now           func() time.Time
	Nonce         func() string
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) nonce() string {
	if p.Nonce != nil {
		return p.Nonce()
	}
	return assetstore.NewNonce()
}

// CheckName is the early availability check offered to the client before
// it starts an upload. A nil error means the name is free right now.
func (p *Pipeline) CheckName(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return &AbortError{Kind: KindInvalidInput, State: StateReceived, Message: err.Error(), Err: err}
	}
	exists, err := p.Store.NameExists(ctx, name)
	if err != nil {
		return &AbortError{Kind: KindPersistenceFailure, State: StateReceived, Message: MsgDatabase, Err: err}
	}
	if exists {
		return &AbortError{Kind: KindDuplicateName, State: StateReceived, Message: MsgNameTaken, Err: db.ErrReviewNameTaken}
	}
	return nil
}

// Run executes one ingest. It returns a *Result on success and an
// *AbortError otherwise. req.Body is not referenced after Run returns.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	a := newAttempt(req.ReviewName, p.now)

	if len(req.Body) == 0 {
		return nil, a.abort(KindInvalidInput, MsgNoFile, assetstore.ErrEmptyPayload)
	}
	name := req.ReviewName
	if err := ValidateName(name); err != nil {
		return nil, a.abort(KindInvalidInput, err.Error(), err)
	}
	if err := CheckPassword(req.Password); err != nil {
		return nil, a.abort(KindInvalidInput, err.Error(), err)
	}
	a.reviewName = name
	a.with("size", humanize.Bytes(uint64(len(req.Body))))

	// Pre-check. Only an early exit; the insert below decides.
	exists, err := p.Store.NameExists(ctx, name)
	if err != nil {
		return nil, a.abort(KindPersistenceFailure, MsgDatabase, err)
	}
	if exists {
		return nil, a.abort(KindDuplicateName, MsgNameTaken, db.ErrReviewNameTaken)
	}
	a.to(StateNameChecked)

	a.to(StateUploading)
	publicID := assetstore.PublicID(name, p.now(), p.nonce())
	a.with("public_id", publicID)

	asset, err := p.upload(ctx, req, publicID)
	req.Body = nil
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, a.abort(KindTimeout, MsgUploadTimeout, err)
		}
		return nil, a.abort(KindUploadFailure, uploadMessage(err), err)
	}
	metrics.UploadBytesTotal.Add(float64(asset.Bytes))
	if req.Progress != nil {
		req.Progress.Complete()
	}
	a.with("provider", p.Uploader.Name(), "provider_id", asset.ProviderID)
	a.to(StateUploaded)

	a.to(StateProbing)
	fr := p.Prober.ProbeFrameRate(ctx, asset.URL)
	if !fr.Measured {
		metrics.ProbeFallbackTotal.Inc()
	}
	a.with("frame_rate", fr.Value, "frame_rate_source", fr.Source)
	a.with(fr.Media.LogAttrs()...)

	a.to(StatePersisting)
	// The asset exists remotely now, so a client disconnect must not stop
	// the record from being written.
	id, err := p.Store.Insert(context.WithoutCancel(ctx), db.NewReview{
		ReviewName: name,
		VideoURL:   asset.URL,
		Password:   req.Password,
		FrameRate:  fr.Value,
		ProviderID: asset.ProviderID,
	})
	if err != nil {
		if errors.Is(err, db.ErrReviewNameTaken) {
			metrics.OrphanedAssetsTotal.Inc()
			slog.Warn("Review name taken after upload, leaving remote asset orphaned",
				"review_name", name, "provider", p.Uploader.Name(), "provider_id", asset.ProviderID, "url", asset.URL)
			return nil, a.abort(KindDuplicateName, MsgNameTaken, err)
		}
		return nil, a.abort(KindPersistenceFailure, MsgDatabase, err)
	}
	a.with("id", id)
	a.to(StateDone)

	return &Result{
		ID:         id,
		PublicID:   publicID,
		ProviderID: asset.ProviderID,
		ReviewName: name,
		VideoURL:   asset.URL,
		FrameRate:  fr.Value,
		Measured:   fr.Measured,
	}, nil
}

func (p *Pipeline) upload(ctx context.Context, req Request, publicID string) (*assetstore.Asset, error) {
	timeout := p.UploadTimeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var onProgress assetstore.ProgressFunc
	if req.Progress != nil {
		onProgress = req.Progress.Report
	}

	asset, err := p.Uploader.Upload(ctx, req.Body, assetstore.Metadata{
		ResourceType: assetstore.ResourceTypeVideo,
		Folder:       p.Folder,
		PublicID:     publicID,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
	}, onProgress)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, err
	}
	return asset, nil
}

func uploadMessage(err error) string {
	var upErr *assetstore.UploadError
	if errors.As(err, &upErr) && upErr.Reason != "" {
		return "Error uploading file: " + upErr.Reason
	}
	return MsgUploadFailed
}

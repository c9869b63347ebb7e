package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"thirdcoast.systems/openvidreview/internal/db"
	"thirdcoast.systems/openvidreview/pkg/assetstore"
	"thirdcoast.systems/openvidreview/pkg/ffmpeg"
)

// memStore enforces name uniqueness under a mutex like the database's
// unique constraint would.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[string]db.NewReview
	existsErr error
	insertErr error
	// hideFromPrecheck makes NameExists report false so inserts race.
	hideFromPrecheck bool
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]db.NewReview)}
}

func (s *memStore) NameExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	if s.hideFromPrecheck {
		return false, nil
	}
	_, ok := s.rows[name]
	return ok, nil
}

func (s *memStore) Insert(ctx context.Context, r db.NewReview) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	if _, ok := s.rows[r.ReviewName]; ok {
		return 0, fmt.Errorf("insert review %q: %w", r.ReviewName, db.ErrReviewNameTaken)
	}
	s.nextID++
	s.rows[r.ReviewName] = r
	return s.nextID, nil
}

func (s *memStore) get(name string) (db.NewReview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[name]
	return r, ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// memUploader keeps uploaded assets in memory.
type memUploader struct {
	mu     sync.Mutex
	assets map[string][]byte
	calls  int
	ids    []string
	err    error
	// gate, when set, is waited on before the upload completes.
	gate *sync.WaitGroup
	// block makes Upload wait for its context to end.
	block bool
}

func newMemUploader() *memUploader {
	return &memUploader{assets: make(map[string][]byte)}
}

func (u *memUploader) Name() string { return "mem" }

func (u *memUploader) Upload(ctx context.Context, body []byte, meta assetstore.Metadata, progress assetstore.ProgressFunc) (*assetstore.Asset, error) {
	u.mu.Lock()
	u.calls++
	u.ids = append(u.ids, meta.PublicID)
	u.mu.Unlock()

	if u.gate != nil {
		u.gate.Done()
		u.gate.Wait()
	}
	if u.block {
		<-ctx.Done()
		return nil, &assetstore.UploadError{Provider: "mem", Reason: "upload interrupted", Err: ctx.Err()}
	}
	if u.err != nil {
		return nil, u.err
	}

	total := int64(len(body))
	if progress != nil {
		for sent := total / 4; sent < total; sent += total / 4 {
			progress(sent, total)
		}
		progress(total, total)
	}

	id := meta.Folder + "/" + meta.PublicID
	u.mu.Lock()
	u.assets[id] = append([]byte(nil), body...)
	u.mu.Unlock()

	return &assetstore.Asset{
		URL:        "https://assets.example.com/" + id + ".mp4",
		ProviderID: id,
		Bytes:      total,
	}, nil
}

func (u *memUploader) assetCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.assets)
}

func (u *memUploader) urls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, 0, len(u.assets))
	for id := range u.assets {
		out = append(out, "https://assets.example.com/"+id+".mp4")
	}
	return out
}

func (u *memUploader) publicIDs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.ids...)
}

func (u *memUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type stubProber struct {
	fr     ffmpeg.FrameRate
	mu     sync.Mutex
	probed []string
}

func (p *stubProber) ProbeFrameRate(ctx context.Context, target string) ffmpeg.FrameRate {
	p.mu.Lock()
	p.probed = append(p.probed, target)
	p.mu.Unlock()
	return p.fr
}

var measured30 = ffmpeg.FrameRate{Value: 30, Measured: true, Source: "r_frame_rate"}

type recordingReporter struct {
	mu       sync.Mutex
	reports  [][2]int64
	complete int
}

func (r *recordingReporter) Report(sent, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, [2]int64{sent, total})
}

func (r *recordingReporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete++
}

var errStoreDown = errors.New("connection refused")

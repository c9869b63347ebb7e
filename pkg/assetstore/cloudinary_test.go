package assetstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	params    uploader.UploadParams
	received  []byte
	result    *uploader.UploadResult
	err       error
	destroyed uploader.DestroyParams
}

func (f *fakeCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if r, ok := file.(io.Reader); ok {
		f.received, _ = io.ReadAll(r)
	}
	return f.result, f.err
}

func (f *fakeCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = params
	return &uploader.DestroyResult{Result: "ok"}, nil
}

func TestCloudinaryUploader_Success(t *testing.T) {
	fake := &fakeCloudinary{result: &uploader.UploadResult{
		PublicID:  "openvidreview/Demo_Cut_1",
		SecureURL: "https://res.cloudinary.com/demo/video/upload/v1/openvidreview/Demo_Cut_1.mp4",
	}}
	u := &CloudinaryUploader{api: fake}

	var last int64
	asset, err := u.Upload(context.Background(), []byte("video-bytes"), Metadata{
		Folder:   "openvidreview",
		PublicID: "Demo_Cut_1",
	}, func(sent, total int64) { last = sent })
	require.NoError(t, err)

	require.Equal(t, "https://res.cloudinary.com/demo/video/upload/v1/openvidreview/Demo_Cut_1.mp4", asset.URL)
	require.Equal(t, "openvidreview/Demo_Cut_1", asset.ProviderID)
	require.Equal(t, int64(11), asset.Bytes)
	require.Equal(t, int64(11), last)
	require.Equal(t, []byte("video-bytes"), fake.received)
	require.Equal(t, ResourceTypeVideo, fake.params.ResourceType)
	require.Equal(t, "openvidreview", fake.params.Folder)
	require.Equal(t, "Demo_Cut_1", fake.params.PublicID)
	require.NotNil(t, fake.params.Overwrite)
	require.False(t, *fake.params.Overwrite)
}

func TestCloudinaryUploader_ProviderError(t *testing.T) {
	fake := &fakeCloudinary{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "File size too large"}}}
	u := &CloudinaryUploader{api: fake}

	_, err := u.Upload(context.Background(), []byte("x"), Metadata{PublicID: "a"}, nil)
	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	require.Equal(t, "File size too large", upErr.Reason)
}

func TestCloudinaryUploader_TransportError(t *testing.T) {
	fake := &fakeCloudinary{err: errors.New("connection reset")}
	u := &CloudinaryUploader{api: fake}

	_, err := u.Upload(context.Background(), []byte("x"), Metadata{PublicID: "a"}, nil)
	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	require.Equal(t, "request failed", upErr.Reason)
}

func TestCloudinaryUploader_DeadlineIsReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCloudinary{err: errors.New("request canceled")}
	u := &CloudinaryUploader{api: fake}

	_, err := u.Upload(ctx, []byte("x"), Metadata{PublicID: "a"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCloudinaryUploader_RejectsOversized(t *testing.T) {
	fake := &fakeCloudinary{}
	u := &CloudinaryUploader{api: fake, maxBytes: 2}

	_, err := u.Upload(context.Background(), []byte("abc"), Metadata{PublicID: "a"}, nil)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	require.Nil(t, fake.received)
}

func TestCloudinaryUploader_Delete(t *testing.T) {
	fake := &fakeCloudinary{}
	u := &CloudinaryUploader{api: fake}

	require.NoError(t, u.Delete(context.Background(), "openvidreview/Demo_Cut_1", ""))
	require.Equal(t, "openvidreview/Demo_Cut_1", fake.destroyed.PublicID)
	require.Equal(t, ResourceTypeVideo, fake.destroyed.ResourceType)
}

package upload

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"thirdcoast.systems/openvidreview/cmd/web/auth"
	"thirdcoast.systems/openvidreview/cmd/web/handlers/common"
	"thirdcoast.systems/openvidreview/internal/ingest"
	"thirdcoast.systems/openvidreview/internal/progress"
)

const (
	fieldFile      = "file"
	fieldName      = "name"
	fieldPassword  = "password"
	fieldAttemptID = "attemptId"

	maxFieldBytes = 4 << 10
	// Room for multipart headers and text fields on top of the file.
	envelopeBytes = 1 << 20
)

var errFileTooLarge = errors.New("file too large")

type uploadResponse struct {
	Message   string  `json:"message"`
	FileName  string  `json:"fileName"`
	Name      string  `json:"name"`
	FrameRate float64 `json:"frameRate"`
	ID        int64   `json:"id"`
	VideoURL  string  `json:"videoUrl"`
	AttemptID string  `json:"attemptId"`
}

type uploadForm struct {
	name        string
	password    string
	attemptID   string
	fileName    string
	contentType string
	body        []byte
}

// HandleUpload accepts a multipart upload and runs it through the ingest
// pipeline. The file part is read straight into memory, never spooled to
// disk. Progress goes to the browser session that sent the request.
func HandleUpload(p *ingest.Pipeline, hub *progress.Hub, sm *auth.SessionManager, maxBytes int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		browserID, err := common.RequireBrowserID(c, sm)
		if err != nil {
			return err
		}

		r := c.Request()
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(c.Response().Writer, r.Body, maxBytes+envelopeBytes)
		}

		form, err := readForm(r, maxBytes)
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, errFileTooLarge), errors.As(err, &tooBig):
			return common.Message(c, http.StatusRequestEntityTooLarge,
				"File is too large. The limit is "+humanize.Bytes(uint64(maxBytes))+".")
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return common.Message(c, http.StatusBadRequest, ingest.MsgNoFile)
		case err != nil:
			slog.Warn("failed to read upload", "error", err)
			return common.Message(c, http.StatusBadRequest, ingest.MsgUploadFailed)
		}
		if form.body == nil {
			return common.Message(c, http.StatusBadRequest, ingest.MsgNoFile)
		}

		attemptID := form.attemptID
		if attemptID == "" {
			attemptID = uuid.NewString()
		}
		slog.Info("Upload received",
			"file_name", form.fileName, "review_name", form.name,
			"size", humanize.Bytes(uint64(len(form.body))), "attempt_id", attemptID)

		res, err := p.Run(r.Context(), ingest.Request{
			ReviewName:  form.name,
			Password:    form.password,
			FileName:    form.fileName,
			ContentType: form.contentType,
			Body:        form.body,
			Progress:    hub.Tracker(browserID, attemptID),
		})
		form.body = nil
		if err != nil {
			return writeAbort(c, err)
		}

		return c.JSON(http.StatusOK, uploadResponse{
			Message:   ingest.MsgUploaded,
			FileName:  res.ProviderID,
			Name:      res.ReviewName,
			FrameRate: res.FrameRate,
			ID:        res.ID,
			VideoURL:  res.VideoURL,
			AttemptID: attemptID,
		})
	}
}

func readForm(r *http.Request, maxBytes int64) (*uploadForm, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	form := &uploadForm{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return nil, err
		}

		if part.FormName() == fieldFile && part.FileName() != "" {
			if form.body != nil {
				part.Close()
				continue
			}
			form.fileName = part.FileName()
			form.contentType = part.Header.Get(echo.HeaderContentType)
			form.body, err = readFile(part, maxBytes)
			part.Close()
			if err != nil {
				return nil, err
			}
			continue
		}

		value, err := readField(part)
		part.Close()
		if err != nil {
			return nil, err
		}
		switch part.FormName() {
		case fieldName:
			form.name = value
		case fieldPassword:
			form.password = value
		case fieldAttemptID:
			form.attemptID = value
		}
	}
}

func readFile(part *multipart.Part, maxBytes int64) ([]byte, error) {
	var src io.Reader = part
	if maxBytes > 0 {
		src = io.LimitReader(part, maxBytes+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return nil, errFileTooLarge
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

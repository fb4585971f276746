package compress

import (
	"context"
	"errors"
	"io"

	"video-compressor/internal/models"
)

// ErrServerBusy is returned when the CPU admission gate rejects a new
// compression job before any work starts.
var ErrServerBusy = errors.New("server is too busy to accept new uploads")

// UseCase runs the full compression pipeline for one upload: persist the
// input to a temp artifact, supervise the transcode, publish the result
// and clean up. It blocks until the pipeline reaches a terminal state
// and returns the presigned retrieval URL on success.
type UseCase interface {
	Compress(ctx context.Context, input *models.UploadInput, file io.Reader) (string, error)
}

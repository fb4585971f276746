package compress

import "video-compressor/internal/models"

// Transcoder supervises one external transcode run. Implementations
// resolve to exactly one outcome per call, broadcasting progress as a
// side effect while the process runs.
type Transcoder interface {
	Run(job *models.UploadJob) models.TranscodeOutcome
}

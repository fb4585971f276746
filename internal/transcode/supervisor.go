package transcode

import (
	"errors"
	"os/exec"

	"video-compressor/internal/config"
	"video-compressor/internal/models"
	"video-compressor/internal/progress"
	"video-compressor/pkg/logger"
)

const readChunkSize = 4096

// Supervisor spawns ffmpeg with a fixed compression profile and wires
// its stderr into the progress parser, broadcasting each parsed percent
// as it is produced. Run blocks until the process exits and always
// returns exactly one outcome.
//
// The process is intentionally never killed mid-flight: if the client
// disconnects, the encode and the cleanup behind it still run to
// completion so no orphan process or temp file is leaked.
type Supervisor struct {
	cfg    *config.Config
	hub    progress.Broadcaster
	logger logger.Logger
}

func NewSupervisor(cfg *config.Config, hub progress.Broadcaster, logger logger.Logger) *Supervisor {
	return &Supervisor{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
	}
}

func (s *Supervisor) Run(job *models.UploadJob) models.TranscodeOutcome {
	cmd := exec.Command(s.cfg.Transcode.FFmpegPath, ffmpegArgs(job.InputPath, job.OutputPath)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return models.FailureOutcome("failed to attach to transcoder output: " + err.Error())
	}
	if err = cmd.Start(); err != nil {
		return models.FailureOutcome("failed to start transcoder: " + err.Error())
	}
	s.logger.Infof("transcoding %s -> %s", job.InputPath, job.OutputPath)

	parser := progress.NewParser()
	buf := make([]byte, readChunkSize)
	for {
		n, readErr := stderr.Read(buf)
		if n > 0 {
			for _, event := range parser.Feed(string(buf[:n])) {
				s.hub.Broadcast(event)
			}
		}
		if readErr != nil {
			break
		}
	}

	if err = cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.logger.Errorf("transcoder exited with code %d", exitErr.ExitCode())
			return models.FailureOutcome("compression failed")
		}
		return models.FailureOutcome(err.Error())
	}

	// observers always see completion, even if the parser under-reported
	s.hub.Broadcast(models.NewProgressEvent(100))
	return models.SuccessOutcome(job.OutputPath)
}

// ffmpegArgs is the fixed compression profile: h.265 at a slow preset,
// re-encoded aac audio, capped at 1080p, with the moov atom up front for
// streaming playback.
func ffmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", "libx265",
		"-preset", "slow",
		"-crf", "28",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "faststart",
		"-vf", "scale=-2:1080",
		outputPath,
	}
}

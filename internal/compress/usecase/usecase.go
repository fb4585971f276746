package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"video-compressor/internal/compress"
	"video-compressor/internal/config"
	"video-compressor/internal/metrics"
	"video-compressor/internal/models"
	"video-compressor/pkg/logger"
	"video-compressor/pkg/utils"
)

type compressUC struct {
	cfg        *config.Config
	awsRepo    compress.AWSRepository
	transcoder compress.Transcoder
	logger     logger.Logger
}

func NewCompressUseCase(
	cfg *config.Config,
	awsRepo compress.AWSRepository,
	transcoder compress.Transcoder,
	log logger.Logger,
) compress.UseCase {
	return &compressUC{
		cfg:        cfg,
		awsRepo:    awsRepo,
		transcoder: transcoder,
		logger:     log,
	}
}

func (u *compressUC) Compress(ctx context.Context, input *models.UploadInput, file io.Reader) (string, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("Compress - ValidateStruct error: %v", err)
		return "", fmt.Errorf("invalid upload: %v", err)
	}

	if canAcceptJob, usage := utils.CheckCPUUsage(u.cfg.Worker.MaxCPUUsage); !canAcceptJob {
		u.logger.Warnf("rejecting upload, CPU usage is high: %f", usage)
		return "", compress.ErrServerBusy
	}

	job, err := u.createJob(input, file)
	if err != nil {
		u.logger.Errorf("Compress - createJob error: %v", err)
		return "", err
	}

	metrics.JobsStarted.Inc()
	outcome := u.transcoder.Run(job)
	return u.finalize(ctx, job, outcome)
}

// createJob persists the upload to a temp input artifact and reserves a
// collision-resistant output path, so concurrent jobs never contend on
// the filesystem.
func (u *compressUC) createJob(input *models.UploadInput, file io.Reader) (*models.UploadJob, error) {
	dir := u.cfg.Transcode.UploadDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create upload dir")
	}

	id := uuid.New().String()
	inputPath := filepath.Join(dir, id+filepath.Ext(input.FileName))
	dst, err := os.Create(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp input artifact")
	}
	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(inputPath)
		return nil, errors.Wrap(err, "failed to write temp input artifact")
	}
	if err = dst.Close(); err != nil {
		os.Remove(inputPath)
		return nil, errors.Wrap(err, "failed to write temp input artifact")
	}

	return &models.UploadJob{
		InputPath:  inputPath,
		OutputPath: filepath.Join(dir, "compressed-"+id+".mp4"),
	}, nil
}

// finalize publishes a successful outcome to the durable store and
// returns the time-limited retrieval URL. Both temp artifacts are
// removed whatever happens here; removal errors never mask the primary
// result.
func (u *compressUC) finalize(ctx context.Context, job *models.UploadJob, outcome models.TranscodeOutcome) (string, error) {
	defer u.removeArtifacts(job)

	if !outcome.Success {
		metrics.JobsFailed.Inc()
		return "", errors.New(outcome.Reason)
	}

	output, err := os.Open(outcome.OutputPath)
	if err != nil {
		metrics.JobsFailed.Inc()
		return "", errors.Wrap(err, "failed to read compressed artifact")
	}
	defer output.Close()

	stat, err := output.Stat()
	if err != nil {
		metrics.JobsFailed.Inc()
		return "", errors.Wrap(err, "failed to read compressed artifact")
	}

	key := "compressed/" + filepath.Base(outcome.OutputPath)
	u.logger.Infof("uploading %s (%d bytes) to bucket %s", key, stat.Size(), u.cfg.S3.Bucket)
	err = u.awsRepo.PutObject(ctx, &models.StoreObjectInput{
		Bucket:   u.cfg.S3.Bucket,
		Key:      key,
		MimeType: "video/mp4",
		Size:     stat.Size(),
		Body:     output,
	})
	if err != nil {
		metrics.JobsFailed.Inc()
		u.logger.Errorf("finalize - PutObject error: %v", err)
		return "", err
	}

	url, err := u.awsRepo.GetPresignedURL(ctx, u.cfg.S3.Bucket, key, time.Duration(u.cfg.S3.PresignTTLMinutes)*time.Minute)
	if err != nil {
		metrics.JobsFailed.Inc()
		u.logger.Errorf("finalize - GetPresignedURL error: %v", err)
		return "", err
	}

	metrics.JobsCompleted.Inc()
	metrics.UploadedBytes.Add(float64(stat.Size()))
	return url, nil
}

func (u *compressUC) removeArtifacts(job *models.UploadJob) {
	for _, path := range []string{job.InputPath, job.OutputPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			u.logger.Errorf("failed to remove temp artifact %s: %v", path, err)
		}
	}
}

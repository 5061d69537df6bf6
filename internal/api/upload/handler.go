package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-study-buddy/config"
	"pdf-study-buddy/internal/core/extract"
	"pdf-study-buddy/internal/core/llm"
	"pdf-study-buddy/internal/core/retriever"
	"pdf-study-buddy/internal/core/summary"
	"pdf-study-buddy/internal/session"
	"pdf-study-buddy/pkg/apperror"
	"pdf-study-buddy/pkg/apperror/status"
	s3client "pdf-study-buddy/pkg/s3"
	"pdf-study-buddy/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v3"
)

// Handler processes PDF uploads end to end: store the blob, extract text,
// summarize, build the retrieval index, and open a session owning it all.
type Handler struct {
	Store *session.Store
	LLM   *llm.Client
}

type uploadResponse struct {
	SessionID string           `json:"session_id"`
	Filename  string           `json:"filename"`
	Pages     int              `json:"pages"`
	Chunks    int              `json:"chunks"`
	Summary   *summary.Summary `json:"summary"`
}

func (h *Handler) HandleUpload(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "file is required")
	}
	if fh == nil || fh.Size == 0 {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "empty file")
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		return apperror.BadRequest(config.ModuleUpload, c, status.InvalidRequestBody, "only PDF files are supported")
	}

	file, err := fh.Open()
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "cannot open file")
	}
	defer file.Close()

	// Buffer to a temp file while hashing; extraction needs a local path and
	// the blob store needs the stream again.
	hasher := sha256.New()
	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), file); err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}
	shaHex := hex.EncodeToString(hasher.Sum(nil))

	// Validate and extract before persisting anything user-visible.
	text, pages, err := extract.Extract(tmp.Name(), config.Cfg.Extract.MaxPages)
	if err != nil {
		return apperror.UnprocessableError(config.ModuleExtract, c, err)
	}

	storedPath, err := storeBlob(tmp.Name(), shaHex)
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}

	sumCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	sum, err := summary.Summarize(sumCtx, h.LLM, text)
	if err != nil {
		return apperror.UnprocessableError(config.ModuleSummary, c, err)
	}

	chunks := retriever.SplitSentences(text, config.Cfg.Retrieval.ChunkCount)

	sess := h.Store.Create()
	sess.Lock()
	sess.Document = &session.Document{
		Filename: fh.Filename,
		Path:     storedPath,
		Pages:    pages,
		Text:     text,
		Summary:  sum,
	}
	sess.Index = retriever.NewIndex(chunks)
	sess.Unlock()

	logger.WithFields(map[string]interface{}{
		"session_id": sess.ID,
		"filename":   fh.Filename,
		"pages":      pages,
		"chunks":     len(chunks),
	}).Info("upload: document processed")

	return apperror.Success(config.ModuleUpload, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "document processed successfully",
		TrackingID: trackingID,
		Data: uploadResponse{
			SessionID: sess.ID,
			Filename:  fh.Filename,
			Pages:     pages,
			Chunks:    len(chunks),
			Summary:   sum,
		},
	})
}

// storeBlob persists the uploaded PDF under its content hash, to S3 when a
// bucket is configured and to the local storage dir otherwise.
func storeBlob(tmpPath, shaHex string) (string, error) {
	if strings.TrimSpace(config.Cfg.S3.Bucket) != "" {
		return storeToS3(tmpPath, shaHex)
	}
	return storeToLocal(tmpPath, shaHex)
}

func storeToLocal(tmpPath, shaHex string) (string, error) {
	baseDir := filepath.Join("storage", "documents")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}
	finalPath := filepath.Join(baseDir, shaHex+".pdf")

	src, err := os.Open(tmpPath)
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.Create(finalPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return finalPath, nil
}

func storeToS3(tmpPath, shaHex string) (string, error) {
	client, err := s3client.GetClient()
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bucket := config.Cfg.S3.Bucket
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		_, crtErr := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
		if crtErr != nil {
			var bErr *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &bErr) {
				return "", fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	body, err := os.Open(tmpPath)
	if err != nil {
		return "", err
	}
	defer body.Close()

	key := fmt.Sprintf("documents/%s.pdf", shaHex)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

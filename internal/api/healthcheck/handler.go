package healthcheck

import (
	"context"
	"strings"
	"time"

	"pdf-study-buddy/config"
	"pdf-study-buddy/pkg/apperror"
	s3client "pdf-study-buddy/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v3"
)

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

// StorageHealthCheck verifies the blob store: a HeadBucket when S3 is
// configured, nothing to check for local storage.
func StorageHealthCheck(c fiber.Ctx) error {
	bucket := strings.TrimSpace(config.Cfg.S3.Bucket)
	if bucket == "" {
		return c.SendString("ok")
	}

	cli, err := s3client.GetClient()
	if err != nil {
		return apperror.InternalError(config.ModuleS3, c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := cli.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return apperror.InternalError(config.ModuleS3, c, err)
	}
	return c.SendString("ok")
}

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// StorageService stores uploaded images in the S3-compatible bucket.
// When storage is unconfigured or the upload fails, the original data
// URL is echoed back unchanged so the dashboard keeps working.
type StorageService interface {
	UploadDataURL(ctx context.Context, dataURL string) (*transfer.UploadResult, error)
}

type storageService struct {
	cfg config.Config
}

func NewStorageService(cfg config.Config) StorageService {
	return &storageService{cfg: cfg}
}

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
}

func (s *storageService) UploadDataURL(ctx context.Context, dataURL string) (*transfer.UploadResult, error) {
	content, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	if !s.configured() {
		log.Warn().Msg("object storage not configured, echoing data url")
		return &transfer.UploadResult{URL: dataURL, Stored: false}, nil
	}

	fileType, err := filetype.Match(content)
	if err != nil || fileType == filetype.Unknown {
		return nil, apperrors.Validation("dataUrl", "could not determine file type")
	}
	if _, ok := allowedImageTypes[fileType.Extension]; !ok {
		return nil, apperrors.Validation("dataUrl",
			fmt.Sprintf("file type %s is not allowed", fileType.Extension))
	}

	key, err := s.putObject(ctx, content, fileType.Extension, fileType.MIME.Value)
	if err != nil {
		log.Error().Err(err).Msg("upload failed, echoing data url")
		return &transfer.UploadResult{URL: dataURL, Stored: false}, nil
	}

	return &transfer.UploadResult{
		URL:    fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.Storage.PublicURL, "/"), key),
		Stored: true,
	}, nil
}

func (s *storageService) configured() bool {
	st := s.cfg.Storage
	return st.Endpoint != "" && st.AccessKey != "" && st.SecretKey != "" && st.PublicURL != ""
}

func (s *storageService) putObject(ctx context.Context, content []byte, ext, mime string) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Storage.AccessKey, s.cfg.Storage.SecretKey, "")),
		awsconfig.WithRegion(s.cfg.Storage.Region),
	)
	if err != nil {
		return "", err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.Storage.Endpoint)
		o.UsePathStyle = true
	})

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s.%s", id, ext)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Storage.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mime),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

// decodeDataURL parses a "data:<mime>;base64,<payload>" string.
func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, apperrors.Validation("dataUrl", "must be a base64 data URL")
	}
	idx := strings.Index(dataURL, ",")
	if idx < 0 || !strings.Contains(dataURL[:idx], ";base64") {
		return nil, apperrors.Validation("dataUrl", "must be a base64 data URL")
	}

	content, err := base64.StdEncoding.DecodeString(dataURL[idx+1:])
	if err != nil {
		return nil, apperrors.Validation("dataUrl", "invalid base64 payload")
	}
	if len(content) == 0 {
		return nil, apperrors.Validation("dataUrl", "empty payload")
	}
	return content, nil
}

package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
)

func pngDataURL() string {
	// Minimal PNG magic bytes, enough for type sniffing.
	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestUploadRejectsNonDataURLs(t *testing.T) {
	svc := NewStorageService(config.Config{})

	var validation *apperrors.ValidationError

	_, err := svc.UploadDataURL(context.Background(), "https://example.com/image.png")
	require.ErrorAs(t, err, &validation)

	_, err = svc.UploadDataURL(context.Background(), "data:image/png,rawpayload")
	require.ErrorAs(t, err, &validation)

	_, err = svc.UploadDataURL(context.Background(), "data:image/png;base64,!!!not-base64!!!")
	require.ErrorAs(t, err, &validation)

	_, err = svc.UploadDataURL(context.Background(), "data:image/png;base64,")
	require.ErrorAs(t, err, &validation)
}

func TestUploadEchoesWhenStorageUnconfigured(t *testing.T) {
	svc := NewStorageService(config.Config{})
	dataURL := pngDataURL()

	result, err := svc.UploadDataURL(context.Background(), dataURL)
	require.NoError(t, err)

	assert.False(t, result.Stored)
	assert.Equal(t, dataURL, result.URL)
}

func TestUploadRejectsDisallowedFileTypes(t *testing.T) {
	cfg := config.Config{Storage: config.Storage{
		Endpoint:  "https://storage.example.com",
		AccessKey: "key",
		SecretKey: "secret",
		PublicURL: "https://cdn.example.com",
	}}
	svc := NewStorageService(cfg)

	// A PDF header decodes fine but is not an allowed image type.
	pdf := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 minimal"))

	_, err := svc.UploadDataURL(context.Background(), pdf)

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
}

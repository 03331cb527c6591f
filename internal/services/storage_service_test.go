package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/config"
)

func storageTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "8080"},
		AWS:    config.AWSConfig{Region: "us-east-1", S3Bucket: "test-bucket"},
	}
}

func makeUpload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestNewStorageServiceWithoutCredentials(t *testing.T) {
	service, err := NewStorageService(storageTestConfig())
	require.NoError(t, err)
	require.NotNil(t, service)
}

func TestUploadProductImageLocalFallback(t *testing.T) {
	service, err := NewStorageService(storageTestConfig())
	require.NoError(t, err)

	file, header := makeUpload(t, "photo.png", []byte("fake image bytes"))
	defer file.Close()

	result, err := service.UploadProductImage(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8080/uploads/products/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, int64(len("fake image bytes")), result.Size)
}

func TestUploadProductImageRejectsBadExtension(t *testing.T) {
	service, err := NewStorageService(storageTestConfig())
	require.NoError(t, err)

	file, header := makeUpload(t, "malware.exe", []byte("nope"))
	defer file.Close()

	_, err = service.UploadProductImage(file, header)
	assert.Error(t, err)
}

func TestUploadProductImageRejectsOversized(t *testing.T) {
	service, err := NewStorageService(storageTestConfig())
	require.NoError(t, err)

	file, header := makeUpload(t, "huge.jpg", bytes.Repeat([]byte("x"), maxImageSize+1))
	defer file.Close()

	_, err = service.UploadProductImage(file, header)
	assert.Error(t, err)
}

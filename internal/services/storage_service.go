// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

// StorageService pins content to IPFS through Pinata and keeps an
// optional S3 mirror for serving media without depending on a gateway.
// With neither configured it simulates both, which is enough for local
// development.
type StorageService struct {
	s3Client   *s3.S3
	httpClient *http.Client
	config     *config.Config
}

type PinResult struct {
	CID        string `json:"cid"`
	GatewayURL string `json:"gateway_url"`
	MirrorURL  string `json:"mirror_url,omitempty"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	if cfg.AWS.AccessKeyID == "" {
		// No mirror for local development
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// PinUpload validates an uploaded file, pins it and mirrors it. The
// returned CID is what gets recorded on the content row.
func (s *StorageService) PinUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, options UploadOptions) (*PinResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type %s is not allowed", fileExt)
		}
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return s.PinBytes(ctx, fileBytes, header.Filename, header.Header.Get("Content-Type"), options.Folder)
}

// PinBytes pins raw bytes, used for generated media and text bodies.
func (s *StorageService) PinBytes(ctx context.Context, data []byte, filename, contentType, folder string) (*PinResult, error) {
	var result *PinResult
	var err error

	if s.config.Pinning.PinataJWT != "" {
		result, err = s.pinToPinata(ctx, data, filename)
	} else {
		result, err = s.pinLocal(data)
	}
	if err != nil {
		return nil, err
	}
	result.Size = int64(len(data))
	result.MimeType = contentType

	if s.s3Client != nil {
		key := s.generateFileName(filename, folder)
		mirrorURL, mirrorErr := s.mirrorToS3(data, key, contentType)
		if mirrorErr != nil {
			// The pin already succeeded; a missing mirror only costs
			// gateway bandwidth.
			logrus.WithError(mirrorErr).Warn("Failed to mirror pinned file to S3")
		} else {
			result.MirrorURL = mirrorURL
		}
	}

	return result, nil
}

func (s *StorageService) pinToPinata(ctx context.Context, data []byte, filename string) (*PinResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.Pinning.PinataBaseURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.Pinning.PinataJWT)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinning service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("pinning service rejected file: status %d: %s", resp.StatusCode, string(respBody))
	}

	var pinResp struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pinResp); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}

	return &PinResult{
		CID:        pinResp.IpfsHash,
		GatewayURL: s.GatewayURL(pinResp.IpfsHash),
	}, nil
}

// pinLocal fabricates a CID-shaped identifier from the content hash so
// development flows behave like production ones.
func (s *StorageService) pinLocal(data []byte) (*PinResult, error) {
	cid := "bafy" + utils.ContentFingerprint(data)[:46]
	return &PinResult{
		CID:        cid,
		GatewayURL: s.GatewayURL(cid),
	}, nil
}

func (s *StorageService) mirrorToS3(data []byte, key, contentType string) (string, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.getS3URL(key), nil
}

func (s *StorageService) DeleteMirror(key string) error {
	if s.s3Client == nil {
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (s *StorageService) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(s.config.Pinning.GatewayURL, "/"), cid)
}

func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "content":
		return UploadOptions{
			Folder:       "content",
			MaxSize:      50 * 1024 * 1024, // 50MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4", ".mp3", ".wav", ".txt", ".md"},
		}
	case "avatars":
		return UploadOptions{
			Folder:       "avatars",
			MaxSize:      2 * 1024 * 1024, // 2MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png"},
		}
	default:
		return UploadOptions{
			Folder:       "general",
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".txt"},
		}
	}
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	id := uuid.New()
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}

	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) ValidateImage(file multipart.File) error {
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	file.Seek(0, 0)

	if !isValidImageType(buffer) {
		return fmt.Errorf("invalid image file")
	}

	return nil
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}

package upload

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/swasthya/medrec-api/internal/config"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

// Kind selects the upload target: photos land in the image folder, documents
// go up as raw assets.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

// Result is the subset of the media-host upload response callers get back.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// UploadService proxies files to the Cloudinary upload API. The local temp
// file is deleted whether or not the upload succeeds.
type UploadService interface {
	Upload(ctx context.Context, localPath string, kind Kind) (*Result, error)
	Delete(ctx context.Context, publicID, resourceType string) error
}

type Service struct {
	cfg     config.CloudinaryConfig
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewService(cfg config.CloudinaryConfig, log *logger.Logger) *Service {
	return &Service{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.cloudinary.com/v1_1",
		log:     log,
	}
}

type target struct {
	folder       string
	resourceType string
}

func targetFor(kind Kind) (target, error) {
	switch kind {
	case KindPhoto:
		return target{folder: "patient-photos", resourceType: "image"}, nil
	case KindDocument:
		return target{folder: "patient-documents", resourceType: "raw"}, nil
	default:
		return target{}, errors.Validation(fmt.Sprintf("unknown upload kind %q", kind))
	}
}

func (s *Service) Upload(ctx context.Context, localPath string, kind Kind) (*Result, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove temp upload file", "path", localPath)
		}
	}()

	dst, err := targetFor(kind)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to open upload file: %w", err))
	}
	defer file.Close()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    dst.folder,
		"timestamp": timestamp,
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, errors.Internal(err)
		}
	}
	if err := writer.WriteField("api_key", s.cfg.APIKey); err != nil {
		return nil, errors.Internal(err)
	}
	if err := writer.WriteField("signature", s.sign(params)); err != nil {
		return nil, errors.Internal(err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, errors.Internal(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to read upload file: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Internal(err)
	}

	url := fmt.Sprintf("%s/%s/%s/upload", s.baseURL, s.cfg.CloudName, dst.resourceType)
	var uploaded struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := s.post(ctx, url, writer.FormDataContentType(), strings.NewReader(body.String()), &uploaded); err != nil {
		s.log.Error(err, "media host upload failed")
		return nil, errors.Internal(fmt.Errorf("failed to upload file to media host"))
	}
	return &Result{URL: uploaded.SecureURL, PublicID: uploaded.PublicID}, nil
}

func (s *Service) Delete(ctx context.Context, publicID, resourceType string) error {
	switch resourceType {
	case "image", "raw", "auto":
	case "":
		resourceType = "auto"
	default:
		return errors.Validation("resource_type must be one of image, raw or auto")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return errors.Internal(err)
		}
	}
	if err := writer.WriteField("api_key", s.cfg.APIKey); err != nil {
		return errors.Internal(err)
	}
	if err := writer.WriteField("signature", s.sign(params)); err != nil {
		return errors.Internal(err)
	}
	if err := writer.Close(); err != nil {
		return errors.Internal(err)
	}

	url := fmt.Sprintf("%s/%s/%s/destroy", s.baseURL, s.cfg.CloudName, resourceType)
	var deleted struct {
		Result string `json:"result"`
	}
	if err := s.post(ctx, url, writer.FormDataContentType(), strings.NewReader(body.String()), &deleted); err != nil {
		s.log.Error(err, "media host delete failed")
		return errors.Internal(fmt.Errorf("failed to delete file from media host"))
	}
	if deleted.Result != "ok" && deleted.Result != "not found" {
		return errors.Internal(fmt.Errorf("media host delete returned %q", deleted.Result))
	}
	return nil
}

func (s *Service) post(ctx context.Context, url, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("media host returned %d: %s", resp.StatusCode, payload)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// sign produces the Cloudinary request signature: the sha1 hex digest of the
// sorted key=value pairs joined by '&', followed by the API secret.
func (s *Service) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + s.cfg.APISecret))
	return hex.EncodeToString(digest[:])
}

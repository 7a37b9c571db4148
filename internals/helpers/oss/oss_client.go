package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ilmhub_backend/internals/configs"
)

const maxUploadSize = int64(5 * 1024 * 1024)

// ImageUploader is what controllers depend on; tests swap in a fake.
type ImageUploader interface {
	UploadAsWebP(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type OSSService struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string // CDN in front of the bucket, optional
	Prefix     string // every key lives under this, e.g. "ilmhub"
	Now        func() time.Time
}

// NewOSSServiceFromEnv reads ALI_OSS_* and checks the bucket is reachable.
// An error means uploads stay disabled; the API still boots.
func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := configs.GetEnv("ALI_OSS_ENDPOINT")
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN"); sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// RAM users scoped to one bucket often cannot read its location
	if _, err := client.GetBucketLocation(bucketName); err != nil {
		var se oss.ServiceError
		if !errors.As(err, &se) || se.StatusCode != fiber.StatusForbidden {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
		log.Printf("[OSS] skip location check (bucket=%s): %s", bucketName, se.Code)
	}
	log.Printf("✅ OSS bucket %s ready", bucketName)

	return &OSSService{
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: strings.TrimRight(configs.GetEnv("ALI_OSS_PUBLIC_BASE"), "/"),
		Prefix:     strings.Trim(prefix, "/"),
		Now:        time.Now,
	}, nil
}

// UploadAsWebP re-encodes the image and stores it at ObjectKey(folder).
func (s *OSSService) UploadAsWebP(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("file too large (max %d bytes)", maxUploadSize))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	data, err := ConvertToWebP(src, fh.Filename, DefaultWebPOptions())
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format (use jpg/png/webp)")
		}
		return "", fiber.NewError(fiber.StatusBadRequest, "Cannot decode image")
	}

	key := s.ObjectKey(folder)
	if err := s.Bucket.PutObject(key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	); err != nil {
		log.Printf("[ERROR] oss put %s: %v", key, err)
		return "", fiber.NewError(fiber.StatusBadGateway, "Failed to upload image")
	}
	return s.PublicURL(key), nil
}

// DeleteByPublicURL removes an object this service uploaded. URLs pointing
// anywhere else (old external covers) are ignored.
func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.KeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	if s.Prefix != "" && !strings.HasPrefix(key, s.Prefix+"/") {
		return nil
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

// ObjectKey is <prefix>/<folder>/<yyyy>/<mm>/<uuid>.webp; the random name
// keeps cached URLs immutable.
func (s *OSSService) ObjectKey(folder string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now().UTC()
	parts := make([]string, 0, 5)
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	if f := strings.Trim(folder, "/"); f != "" {
		parts = append(parts, f)
	}
	parts = append(parts, t.Format("2006"), t.Format("01"), uuid.NewString()+".webp")
	return strings.Join(parts, "/")
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, host, key)
}

// KeyFromPublicURL reverses PublicURL for both the CDN and bucket hosts.
func (s *OSSService) KeyFromPublicURL(publicURL string) (string, error) {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return "", errors.New("empty url")
	}
	if s.PublicBase != "" && strings.HasPrefix(publicURL, s.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, s.PublicBase+"/"), nil
	}
	u, err := url.Parse(publicURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("not an absolute url: %s", publicURL)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("no object key in url: %s", publicURL)
	}
	return key, nil
}

/* ===================== controller helpers ===================== */

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

var defaultImageFields = []string{"file", "image", "cover"}

// GetImageFile returns the first file found under fieldNames; (nil, nil) when none.
func GetImageFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Use multipart/form-data")
	}
	names := fieldNames
	if len(names) == 0 {
		names = defaultImageFields
	}
	for _, fn := range names {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, nil
}

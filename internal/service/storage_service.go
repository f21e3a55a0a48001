package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	appconfig "github.com/shopupgh/shopup-api/internal/config"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// ObjectKeyPrefix is the required prefix of every product image key. The
// bucket access policy only grants a seller read/write under their own
// seller/<uid>/ subtree, so keys outside this convention are never signed.
const ObjectKeyPrefix = "seller/"

// NewProductSentinel is the product segment used for uploads that happen
// before the product row exists.
const NewProductSentinel = "new"

// UploadFile is one raw image blob in an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type s3PresignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// StorageService owns object-store access for product images: key allocation,
// batch upload, deletion, and signed GET URLs.
type StorageService struct {
	client    s3API
	presigner s3PresignAPI
	bucket    string
	region    string
	endpoint  string
}

// NewStorageService creates a StorageService backed by the configured bucket.
func NewStorageService(cfg *appconfig.S3Config) (*StorageService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &StorageService{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  cfg.Endpoint,
	}, nil
}

// UploadProductImages uploads a batch of files under the seller's product
// prefix, one file at a time, and returns the ordered list of allocated keys.
// The first failed upload aborts the batch: keys already written are
// best-effort deleted and no paths are returned. Keys are never overwritten;
// collision resistance comes from the generated suffix, not the file name.
func (s *StorageService) UploadProductImages(ctx context.Context, sellerID, productID string, files []UploadFile) ([]string, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: missing seller identity", utils.ErrAuthentication)
	}
	if len(files) == 0 {
		return []string{}, nil
	}

	uploaded := make([]string, 0, len(files))
	for _, f := range files {
		key, err := AllocateObjectKey(sellerID, productID, f.Name)
		if err != nil {
			s.rollback(ctx, uploaded)
			return nil, fmt.Errorf("%w: could not allocate object key", utils.ErrUpload)
		}

		contentType := f.ContentType
		if contentType == "" {
			contentType = "image/" + fileExt(f.Name)
		}

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(s.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(f.Data),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String("max-age=3600"),
		})
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("image upload failed")
			s.rollback(ctx, uploaded)
			return nil, fmt.Errorf("%w: image upload failed", utils.ErrUpload)
		}

		uploaded = append(uploaded, key)
	}

	log.Info().Int("count", len(uploaded)).Str("seller_id", sellerID).Msg("uploaded product images")
	return uploaded, nil
}

// rollback best-effort deletes keys written before a batch aborted.
func (s *StorageService) rollback(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.DeleteObjects(ctx, keys); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("rollback of partial upload failed, objects orphaned")
	}
}

// DeleteObjects removes the given keys from the bucket in a single call.
func (s *StorageService) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("failed to delete %d of %d objects", len(out.Errors), len(keys))
	}
	return nil
}

// PresignGet returns a time-limited signed GET URL for a stored object.
func (s *StorageService) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL returns the direct URL of an object. Only meaningful when the
// bucket is public; treated as a best-effort cache, signed URLs are preferred.
func (s *StorageService) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SafeObjectName sanitizes a client-supplied file name for use as the last
// key segment.
func SafeObjectName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "image"
	}
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// fileExt returns the lowercase file extension without the dot, or "jpg".
func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return strings.ToLower(name[i+1:])
	}
	return "jpg"
}

// AllocateObjectKey builds the object-store key for one uploaded file:
//
//	seller/<sellerID>/product/<productID|new>/<suffix>-<safename>
//
// The structure is deterministic so the bucket policy can restrict each
// seller to their own prefix; the suffix makes the key collision-resistant.
func AllocateObjectKey(sellerID, productID, fileName string) (string, error) {
	suffix, err := utils.GenerateObjectSuffix()
	if err != nil {
		return "", err
	}
	if productID == "" {
		productID = NewProductSentinel
	}
	return strings.Join([]string{
		"seller", sellerID,
		"product", productID,
		suffix + "-" + SafeObjectName(fileName),
	}, "/"), nil
}

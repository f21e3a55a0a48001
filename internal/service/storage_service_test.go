package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/shopupgh/shopup-api/internal/utils"
)

type fakeS3 struct {
	putKeys    []string
	failAtPut  int // 1-based index of the PutObject call that fails, 0 = never
	deleted    []string
	deleteErrs []types.Error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failAtPut > 0 && len(f.putKeys)+1 == f.failAtPut {
		return nil, fmt.Errorf("put failed")
	}
	f.putKeys = append(f.putKeys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	for _, obj := range in.Delete.Objects {
		f.deleted = append(f.deleted, *obj.Key)
	}
	return &s3.DeleteObjectsOutput{Errors: f.deleteErrs}, nil
}

func newTestStorage(client *fakeS3) *StorageService {
	return &StorageService{client: client, bucket: "product-images", region: "eu-west-1"}
}

var objectKeyPattern = regexp.MustCompile(`^seller/s1/product/p1/[0-9a-z]+-[0-9a-f]{16}-[a-zA-Z0-9._-]+$`)

func TestAllocateObjectKeyShape(t *testing.T) {
	key, err := AllocateObjectKey("s1", "p1", "front photo.JPG")
	require.NoError(t, err)
	require.Regexp(t, objectKeyPattern, key)
	require.Contains(t, key, "front_photo.JPG")

	// Uploads before the product row exists land under the sentinel segment.
	key, err = AllocateObjectKey("s1", "", "a.jpg")
	require.NoError(t, err)
	require.Contains(t, key, "/product/new/")

	// Two allocations for the same file never collide.
	again, err := AllocateObjectKey("s1", "p1", "front photo.JPG")
	require.NoError(t, err)
	first, err := AllocateObjectKey("s1", "p1", "front photo.JPG")
	require.NoError(t, err)
	require.NotEqual(t, again, first)
}

func TestSafeObjectName(t *testing.T) {
	require.Equal(t, "front_photo.jpg", SafeObjectName("front photo.jpg"))
	require.Equal(t, "a_b_c.png", SafeObjectName("a/b\\c.png"))
	require.Equal(t, "image", SafeObjectName("   "))
	require.Equal(t, "plain-name_1.webp", SafeObjectName("plain-name_1.webp"))
}

func TestFileExt(t *testing.T) {
	require.Equal(t, "png", fileExt("photo.PNG"))
	require.Equal(t, "jpg", fileExt("noextension"))
	require.Equal(t, "jpg", fileExt("trailingdot."))
	require.Equal(t, "webp", fileExt("a.b.webp"))
}

func TestUploadProductImagesSequential(t *testing.T) {
	client := &fakeS3{}
	svc := newTestStorage(client)

	keys, err := svc.UploadProductImages(context.Background(), "s1", "p1", []UploadFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("aa")},
		{Name: "b.png", Data: []byte("bb")},
	})
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Equal(t, client.putKeys, keys)
	for _, k := range keys {
		require.Regexp(t, objectKeyPattern, k)
	}
}

func TestUploadProductImagesAbortsAndRollsBack(t *testing.T) {
	client := &fakeS3{failAtPut: 2}
	svc := newTestStorage(client)

	keys, err := svc.UploadProductImages(context.Background(), "s1", "p1", []UploadFile{
		{Name: "a.jpg", Data: []byte("aa")},
		{Name: "b.jpg", Data: []byte("bb")},
		{Name: "c.jpg", Data: []byte("cc")},
	})
	require.ErrorIs(t, err, utils.ErrUpload)
	require.Nil(t, keys)

	// The key written before the failure is cleaned up.
	require.Len(t, client.putKeys, 1)
	require.Equal(t, client.putKeys, client.deleted)
}

func TestUploadProductImagesRequiresSeller(t *testing.T) {
	svc := newTestStorage(&fakeS3{})

	_, err := svc.UploadProductImages(context.Background(), "", "p1", []UploadFile{{Name: "a.jpg"}})
	require.ErrorIs(t, err, utils.ErrAuthentication)
}

func TestDeleteObjects(t *testing.T) {
	client := &fakeS3{}
	svc := newTestStorage(client)

	require.NoError(t, svc.DeleteObjects(context.Background(), []string{"seller/s1/a", "seller/s1/b"}))
	require.Equal(t, []string{"seller/s1/a", "seller/s1/b"}, client.deleted)

	// An empty batch never calls the store.
	client.deleted = nil
	require.NoError(t, svc.DeleteObjects(context.Background(), nil))
	require.Empty(t, client.deleted)
}

func TestDeleteObjectsReportsPartialFailure(t *testing.T) {
	code := "InternalError"
	client := &fakeS3{deleteErrs: []types.Error{{Code: &code}}}
	svc := newTestStorage(client)

	err := svc.DeleteObjects(context.Background(), []string{"seller/s1/a", "seller/s1/b"})
	require.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	svc := newTestStorage(&fakeS3{})
	require.Equal(t,
		"https://product-images.s3.eu-west-1.amazonaws.com/seller/s1/a.jpg",
		svc.PublicURL("seller/s1/a.jpg"))

	svc.endpoint = "http://localhost:9000/"
	require.Equal(t,
		"http://localhost:9000/product-images/seller/s1/a.jpg",
		svc.PublicURL("seller/s1/a.jpg"))
}

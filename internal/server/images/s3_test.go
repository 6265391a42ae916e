package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	data []byte
	mime string
}

type fakeS3 struct {
	objects map[string]object
	putErr  error
	deleted []string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string]object{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{data: b, mime: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	o, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(o.data)),
		ContentType: aws.String(o.mime),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func stubKeys(t *testing.T, keys ...string) {
	t.Helper()
	orig := newKey
	t.Cleanup(func() { newKey = orig })
	i := 0
	newKey = func(userID string) string {
		k := "users/" + userID + "/" + keys[i]
		i++
		return k
	}
}

func TestS3Store_OffloadLoadRemove(t *testing.T) {
	stubKeys(t, "k1")
	fake := newFakeS3()
	store := &S3Store{client: fake, bucket: "meals"}
	ctx := context.Background()

	img := DataURL("image/png", []byte("png-bytes"))
	key, err := store.Offload(ctx, "u1", img)
	require.NoError(t, err)
	assert.Equal(t, "users/u1/k1", key)
	assert.Equal(t, object{data: []byte("png-bytes"), mime: "image/png"}, fake.objects["meals/users/u1/k1"])

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, img, got)

	require.NoError(t, store.Remove(ctx, key))
	assert.Equal(t, []string{"meals/users/u1/k1"}, fake.deleted)

	_, err = store.Load(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3Store_NonDataURLStaysInline(t *testing.T) {
	fake := newFakeS3()
	store := &S3Store{client: fake, bucket: "meals"}

	key, err := store.Offload(context.Background(), "u1", "https://cdn.example/a.jpg")
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, fake.objects)
}

func TestS3Store_PutError(t *testing.T) {
	stubKeys(t, "k1")
	fake := newFakeS3()
	fake.putErr = errors.New("bucket gone")
	store := &S3Store{client: fake, bucket: "meals"}

	_, err := store.Offload(context.Background(), "u1", DataURL("image/png", []byte("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestNewKey_Format(t *testing.T) {
	k1, k2 := newKey("u1"), newKey("u1")
	assert.Regexp(t, `^users/u1/[0-9a-v]{20}$`, k1)
	assert.NotEqual(t, k1, k2)
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}
	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return &s3.Client{}
	}

	store, err := NewS3Store(context.Background(), S3Options{
		AccessKey: "ak", SecretKey: "sk", Region: "eu-west-1",
		BaseEndpoint: "http://127.0.0.1:9000", Bucket: "meals",
	})
	require.NoError(t, err)
	assert.Equal(t, "meals", store.bucket)
	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3Store(context.Background(), S3Options{})
	require.Error(t, err)
}

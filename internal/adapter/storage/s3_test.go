package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockS3 is a mock implementation of S3API
type MockS3 struct {
	mock.Mock
}

func (m *MockS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *MockS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

func (m *MockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func testS3Config() S3Config {
	return S3Config{
		Bucket:       "avatars",
		Region:       "eu-central-1",
		KeyPrefix:    "uploads/",
		CreateBucket: true,
	}
}

func TestNewS3Store_BucketExists(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)

	store, err := NewS3Store(context.Background(), client, testS3Config(), NewNamer("random", nil), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "s3://avatars/uploads/", store.Location())

	client.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything)
}

func TestNewS3Store_CreatesMissingBucket(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
	client.On("CreateBucket", mock.Anything, mock.MatchedBy(func(in *s3.CreateBucketInput) bool {
		return *in.Bucket == "avatars" &&
			in.CreateBucketConfiguration != nil &&
			in.CreateBucketConfiguration.LocationConstraint == types.BucketLocationConstraint("eu-central-1")
	})).Return(&s3.CreateBucketOutput{}, nil)

	_, err := NewS3Store(context.Background(), client, testS3Config(), NewNamer("random", nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	client.AssertExpectations(t)
}

func TestNewS3Store_AlreadyOwned(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("forbidden"))
	client.On("CreateBucket", mock.Anything, mock.Anything).Return(nil, &types.BucketAlreadyOwnedByYou{})

	_, err := NewS3Store(context.Background(), client, testS3Config(), NewNamer("random", nil), zaptest.NewLogger(t))
	assert.NoError(t, err)
}

func TestNewS3Store_MissingBucketNotCreated(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})

	cfg := testS3Config()
	cfg.CreateBucket = false

	_, err := NewS3Store(context.Background(), client, cfg, NewNamer("random", nil), zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bucket "avatars" is not accessible`)
}

func TestS3Store_Save(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)

	var body string
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "avatars" &&
			*in.Key == "uploads/1700000000123.png" &&
			in.ContentType != nil && *in.ContentType == "image/png"
	})).Run(func(args mock.Arguments) {
		data, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		body = string(data)
	}).Return(&s3.PutObjectOutput{}, nil)

	store, err := NewS3Store(context.Background(), client, testS3Config(), NewNamer("timestamp", fixedClock), zaptest.NewLogger(t))
	require.NoError(t, err)

	name, err := store.Save(context.Background(), "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000123.png", name)
	assert.Equal(t, "png-bytes", body)
}

func TestS3Store_Save_Error(t *testing.T) {
	client := new(MockS3)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	store, err := NewS3Store(context.Background(), client, testS3Config(), NewNamer("random", nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "me.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

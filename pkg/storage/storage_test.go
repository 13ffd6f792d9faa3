package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"storefront/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAferoStore_Create(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewAferoStore(fs, "data/invoices")
	require.NoError(t, err)

	w, err := store.Create(context.Background(), "invoice-1.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("%PDF-1.3"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(fs, store.Path("invoice-1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestAferoStore_StaysInsideDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewAferoStore(fs, "data/invoices")
	require.NoError(t, err)

	w, err := store.Create(context.Background(), "../../etc/passwd")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	exists, err := afero.Exists(fs, "data/invoices/passwd")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "etc/passwd")
	assert.False(t, exists)
}

func TestAferoStore_Truncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := storage.NewAferoStore(fs, "out")
	require.NoError(t, err)

	for _, content := range []string{"a longer first version", "short"} {
		w, err := store.Create(context.Background(), "doc.pdf")
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	data, err := afero.ReadFile(fs, store.Path("doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

// MockS3Client is a mock implementation of storage.PutObjectAPI
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Store_UploadsOnClose(t *testing.T) {
	client := new(MockS3Client)
	store := storage.NewS3Store(client, "invoices-bucket", "invoices", "application/pdf")

	var body []byte
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "invoices-bucket" &&
			*in.Key == "invoices/invoice-1.pdf" &&
			*in.ContentType == "application/pdf"
	})).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	w, err := store.Create(context.Background(), "invoice-1.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("%PDF-"))
	require.NoError(t, err)
	_, err = w.Write([]byte("1.3"))
	require.NoError(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, "%PDF-1.3", string(body))
	client.AssertExpectations(t)

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestS3Store_UploadFailure(t *testing.T) {
	client := new(MockS3Client)
	store := storage.NewS3Store(client, "bucket", "", "")
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()

	w, err := store.Create(context.Background(), "invoice-2.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)

	err = w.Close()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	client.AssertExpectations(t)
}

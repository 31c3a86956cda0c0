package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	failures int32
	calls    atomic.Int32
	body     []byte
	lastKey  string
}

func (f *fakeGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	n := f.calls.Add(1)
	f.lastKey = *params.Key
	if n <= f.failures {
		return nil, errors.New("connection reset")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func testConfig() Config {
	return Config{Bucket: "cvs", Attempts: 3, Backoff: time.Millisecond}
}

func TestDownload_Success(t *testing.T) {
	getter := &fakeGetter{body: []byte("%PDF-1.4 resume")}
	d := NewWithClient(getter, testConfig(), nil)

	data, err := d.Download(context.Background(), "uploads/user/cv.pdf")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 resume"), data)
	assert.Equal(t, "uploads/user/cv.pdf", getter.lastKey)
	assert.Equal(t, int32(1), getter.calls.Load())
}

func TestDownload_RetriesTransientFailures(t *testing.T) {
	getter := &fakeGetter{failures: 2, body: []byte("text")}
	d := NewWithClient(getter, testConfig(), nil)

	data, err := d.Download(context.Background(), "cv.txt")

	require.NoError(t, err)
	assert.Equal(t, []byte("text"), data)
	assert.Equal(t, int32(3), getter.calls.Load())
}

func TestDownload_GivesUpAfterAttempts(t *testing.T) {
	getter := &fakeGetter{failures: 10}
	d := NewWithClient(getter, testConfig(), nil)

	_, err := d.Download(context.Background(), "cv.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, int32(3), getter.calls.Load())
}

func TestDownload_TooLarge(t *testing.T) {
	getter := &fakeGetter{body: make([]byte, MaxObjectSize+1)}
	d := NewWithClient(getter, testConfig(), nil)

	_, err := d.Download(context.Background(), "huge.pdf")

	require.ErrorIs(t, err, ErrObjectTooLarge)
	assert.Equal(t, int32(1), getter.calls.Load())
}

func TestDownload_StopsWhenContextEnds(t *testing.T) {
	getter := &fakeGetter{failures: 10}
	d := NewWithClient(getter, Config{Bucket: "cvs", Attempts: 5, Backoff: time.Hour}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		for getter.calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := d.Download(ctx, "cv.txt")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), getter.calls.Load())
}

func TestNewWithClient_Defaults(t *testing.T) {
	d := NewWithClient(&fakeGetter{}, Config{Bucket: "cvs"}, nil)
	assert.Equal(t, DefaultAttempts, d.attempts)
	assert.Equal(t, DefaultBackoff, d.backoff)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	assert.Error(t, err)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"upload-relay-api/internal/scratch"
	"upload-relay-api/internal/services"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func fixture(t *testing.T, payload string) *services.StagedUpload {
	t.Helper()
	file, err := scratch.Write(t.TempDir(), strings.NewReader(payload))
	if err != nil {
		t.Fatalf("scratch.Write: %v", err)
	}
	t.Cleanup(file.Cleanup)
	return &services.StagedUpload{File: file, Filename: "cat.png", MimeType: "image/png"}
}

func TestS3UploadStoresObjectAndBuildsURL(t *testing.T) {
	fake := &fakePutObject{}
	target := &S3Target{client: fake, bucket: "relay-bucket", region: "us-east-1", prefix: "uploads/"}

	result, err := target.Upload(context.Background(), fixture(t, "png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if fake.input == nil {
		t.Fatal("PutObject was never called")
	}
	if got := aws.ToString(fake.input.Bucket); got != "relay-bucket" {
		t.Errorf("bucket = %q", got)
	}
	key := aws.ToString(fake.input.Key)
	if !strings.HasPrefix(key, "uploads/") || !strings.HasSuffix(key, "-cat.png") {
		t.Errorf("key = %q, want uploads/<uuid>-cat.png", key)
	}
	if got := aws.ToString(fake.input.ContentType); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	if string(fake.body) != "png-bytes" {
		t.Errorf("stored bytes = %q", fake.body)
	}

	wantURL := "https://relay-bucket.s3.us-east-1.amazonaws.com/" + key
	if result.URL != wantURL {
		t.Errorf("result URL = %q, want %q", result.URL, wantURL)
	}
	if result.ID != key {
		t.Errorf("result ID = %q, want object key", result.ID)
	}
}

func TestS3UploadFailure(t *testing.T) {
	fake := &fakePutObject{err: fmt.Errorf("AccessDenied")}
	target := &S3Target{client: fake, bucket: "relay-bucket", region: "us-east-1"}

	_, err := target.Upload(context.Background(), fixture(t, "x"))
	if err == nil {
		t.Fatal("Upload succeeded, want PutObject failure")
	}
	if !strings.Contains(err.Error(), "AccessDenied") {
		t.Errorf("error = %q, want remote diagnostic included", err.Error())
	}
}

func TestS3UploadMissingBucket(t *testing.T) {
	target := &S3Target{client: &fakePutObject{}}

	_, err := target.Upload(context.Background(), fixture(t, "x"))
	if err == nil {
		t.Fatal("Upload succeeded, want configuration error")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Errorf("error = %q, want configuration diagnostic", err.Error())
	}
}

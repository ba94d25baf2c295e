package service

import (
	"context"
	"testing"

	"github.com/Mehmet-hhs/factuurvergelijker/config"
)

func TestNewMinioStorage(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "test",
		UseSSL:    false,
	}

	// Client creation does not dial; the connection is tested on first use.
	svc, err := NewMinioStorage(cfg)
	if err != nil {
		t.Fatalf("NewMinioStorage returned error: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil storage")
	}
}

func TestNewMinioStorageInvalidEndpoint(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "http://bad endpoint",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "test",
	}

	if _, err := NewMinioStorage(cfg); err == nil {
		t.Error("Expected error for malformed endpoint")
	}
}

func TestMinioStorageUploadCancelledContext(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:   "localhost:9000",
		AccessKey:  "test",
		SecretKey:  "test",
		Bucket:     "test",
		UseSSL:     false,
		ExpireDays: 7,
	}

	svc, err := NewMinioStorage(cfg)
	if err != nil {
		t.Skip("Could not create storage client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Upload(ctx, "test", []byte("test"), "text/plain"); err == nil {
		t.Error("Expected error uploading with cancelled context")
	}
}

package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"evo/internal/config"
)

func TestReceiptKey(t *testing.T) {
	key := ReceiptKey("veh-1", "Racun.JPG")
	assert.Regexp(t, regexp.MustCompile(`^receipts/veh-1/[0-9a-f-]{36}\.jpg$`), key)

	noExt := ReceiptKey("veh-1", "scan")
	assert.Regexp(t, regexp.MustCompile(`^receipts/veh-1/[0-9a-f-]{36}$`), noExt)

	assert.NotEqual(t, ReceiptKey("veh-1", "a.pdf"), ReceiptKey("veh-1", "a.pdf"))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.EqualError(t, err, tt.want)
		})
	}
}

package qdrant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name   string
		params ConnectParams
		want   ConnectionMode
	}{
		{"local path wins over everything", ConnectParams{LocalPath: "/tmp/q", URL: "https://x", APIKey: "k", Host: "h"}, ModeLocal},
		{"url with api key is cloud", ConnectParams{URL: "https://x.cloud.qdrant.io", APIKey: "k"}, ModeCloud},
		{"url without api key is server", ConnectParams{URL: "http://qdrant:6333"}, ModeServer},
		{"host and port is server", ConnectParams{Host: "qdrant", Port: 6334}, ModeServer},
		{"api key alone is server", ConnectParams{APIKey: "k"}, ModeServer},
		{"nothing is server", ConnectParams{}, ModeServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.params))
		})
	}
}

func TestRemoteEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		params ConnectParams
		want   endpoint
	}{
		{"defaults", ConnectParams{}, endpoint{host: "localhost", port: DefaultGRPCPort}},
		{"explicit host and port", ConnectParams{Host: "qdrant", Port: 7000, UseTLS: true}, endpoint{host: "qdrant", port: 7000, useTLS: true}},
		{"rest port in url becomes grpc port", ConnectParams{URL: "http://qdrant:6333"}, endpoint{host: "qdrant", port: DefaultGRPCPort}},
		{"custom port in url is kept", ConnectParams{URL: "http://qdrant:7334"}, endpoint{host: "qdrant", port: 7334}},
		{"https enables tls", ConnectParams{URL: "https://abc.eu-central.aws.cloud.qdrant.io:6333", APIKey: "k"}, endpoint{host: "abc.eu-central.aws.cloud.qdrant.io", port: DefaultGRPCPort, useTLS: true}},
		{"scheme is optional", ConnectParams{URL: "qdrant:6334"}, endpoint{host: "qdrant", port: DefaultGRPCPort}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.remoteEndpoint()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoteEndpoint_Invalid(t *testing.T) {
	for _, raw := range []string{"http://", "http://qdrant:port"} {
		_, err := ConnectParams{URL: raw}.remoteEndpoint()
		assert.Error(t, err, raw)
	}
}

func TestConfigConnectParams(t *testing.T) {
	cfg := DefaultConfig().WithURL("https://x", "key").WithLocalPath("/data")

	p := cfg.ConnectParams()
	assert.Equal(t, "https://x", p.URL)
	assert.Equal(t, "key", p.APIKey)
	assert.Equal(t, "/data", p.LocalPath)
	assert.Equal(t, "localhost", p.Host)
	assert.Equal(t, DefaultGRPCPort, p.Port)
	assert.Equal(t, ModeLocal, ResolveMode(p))
}

package qdrant

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ConnectionMode is how the manager reaches the vector database.
type ConnectionMode string

const (
	ModeLocal  ConnectionMode = "local"
	ModeServer ConnectionMode = "server"
	ModeCloud  ConnectionMode = "cloud"
)

// ConnectParams are the inputs to Connect. Only the fields relevant to the
// resolved mode are used.
type ConnectParams struct {
	LocalPath string
	URL       string
	APIKey    string
	Host      string
	Port      int
	UseTLS    bool
}

// ResolveMode applies the precedence local path > URL > host/port.
// A URL selects Cloud only when an API key accompanies it.
func ResolveMode(p ConnectParams) ConnectionMode {
	switch {
	case p.LocalPath != "":
		return ModeLocal
	case p.URL != "":
		if p.APIKey != "" {
			return ModeCloud
		}
		return ModeServer
	default:
		return ModeServer
	}
}

type endpoint struct {
	host   string
	port   int
	useTLS bool
}

// remoteEndpoint turns the params into a gRPC host/port pair.
func (p ConnectParams) remoteEndpoint() (endpoint, error) {
	if p.URL == "" {
		ep := endpoint{host: p.Host, port: p.Port, useTLS: p.UseTLS}
		if ep.host == "" {
			ep.host = "localhost"
		}
		if ep.port == 0 {
			ep.port = DefaultGRPCPort
		}
		return ep, nil
	}

	raw := p.URL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("[Qdrant] invalid url %q: %w", p.URL, err)
	}
	if u.Hostname() == "" {
		return endpoint{}, fmt.Errorf("[Qdrant] url %q has no host", p.URL)
	}

	ep := endpoint{
		host:   u.Hostname(),
		port:   DefaultGRPCPort,
		useTLS: u.Scheme == "https" || p.UseTLS,
	}
	if s := u.Port(); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return endpoint{}, fmt.Errorf("[Qdrant] invalid port in url %q: %w", p.URL, err)
		}
		if port != restPort {
			ep.port = port
		}
	}
	return ep, nil
}

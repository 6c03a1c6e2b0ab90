package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingTimeout bounds each reachability check made at startup and by the
// health check
const PingTimeout = 1500 * time.Millisecond

// defaultPorts fills in the port a service URL leaves implicit
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// ServiceAddress turns a service URL into the host:port to dial
func ServiceAddress(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid URL %q: no host", serviceURL)
	}

	port := u.Port()
	if port == "" {
		if port = defaultPorts[u.Scheme]; port == "" {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// PingService opens and closes a TCP connection to the service behind
// serviceURL
func PingService(serviceURL string, timeout time.Duration) error {
	address, err := ServiceAddress(serviceURL)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAuthorizer checks the session service is reachable
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, PingTimeout)
}

// PingStorage checks the object storage endpoint is reachable. The
// endpoint is host[:port] as given to the storage client.
func PingStorage(endpoint string, useSSL bool) error {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return PingService(scheme+"://"+endpoint, PingTimeout)
}

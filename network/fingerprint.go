package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/vidgrab/vidgrab/log"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// errNoH2 is returned by the h2 dialer when the server picks another protocol.
var errNoH2 = errors.New("server did not negotiate h2")

// dialError marks a failure that happened while connecting, before any request bytes were written.
type dialError struct {
	err error
}

func (e *dialError) Error() string { return e.err.Error() }

func (e *dialError) Unwrap() error { return e.err }

// fingerprintTransport sends https requests with a Chrome ClientHello.
// HTTP/2 is tried first. Only when the h2 connection could not be established is the request
// sent over HTTP/1.1 instead; a request that reached the server is never sent twice.
// Plain http requests go through the fallback transport untouched.
type fingerprintTransport struct {
	plain http.RoundTripper
	h2    http.RoundTripper
	h1    http.RoundTripper
}

func newFingerprintTransport(plain http.RoundTripper) *fingerprintTransport {
	return &fingerprintTransport{
		plain: plain,
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				conn, err := dialTLS(ctx, network, addr, nil)
				if err != nil {
					return nil, &dialError{err: err}
				}

				if conn.ConnectionState().NegotiatedProtocol != http2.NextProtoTLS {
					_ = conn.Close()
					return nil, &dialError{err: errNoH2}
				}

				return conn, nil
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, []string{"http/1.1"})
			},
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	var early *dialError
	if !errors.As(err, &early) || req.Context().Err() != nil {
		return nil, err
	}

	fallback, rewindErr := rewind(req)
	if rewindErr != nil {
		return nil, err
	}

	log.Infof("h2 unavailable for %s, using http/1.1: %s", req.URL.Host, err)
	return t.h1.RoundTrip(fallback)
}

// rewind clones a request with a fresh body for a second attempt.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}

	if req.GetBody == nil {
		return nil, fmt.Errorf("request body of %s cannot be replayed", req.URL)
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

// dialTLS opens a TLS connection mimicking Chrome 120.
// With nil protos the hello advertises both h2 and http/1.1.
func dialTLS(ctx context.Context, network, addr string, protos []string) (*utls.UConn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

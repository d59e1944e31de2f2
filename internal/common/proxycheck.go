package common

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// connectivityCheckURL returns 204 with no body, which keeps the
// pre-flight cheap on metered proxies.
const connectivityCheckURL = "https://www.gstatic.com/generate_204"

// BuildProxyURL turns a proxy server address plus optional credentials
// into a URL suitable for an HTTP client. A server without a scheme is
// assumed to be http.
func BuildProxyURL(server, username, password string) (string, error) {
	if len(server) == 0 {
		return "", fmt.Errorf("no proxy server configured")
	}

	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	proxyURL, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid proxy server address %s: %w", server, err)
	}

	if len(username) > 0 {
		proxyURL.User = url.UserPassword(username, password)
	}

	return proxyURL.String(), nil
}

// CheckProxy makes one request through the configured proxy to verify
// it is reachable before the browser is launched. The caller decides
// whether a failure is fatal; the launcher only warns.
func CheckProxy(server, username, password string, timeout time.Duration) error {
	proxyURL, err := BuildProxyURL(server, username, password)
	if err != nil {
		return err
	}

	client := resty.New().
		SetProxy(proxyURL).
		SetTimeout(timeout)

	resp, err := client.R().Get(connectivityCheckURL)
	if err != nil {
		return fmt.Errorf("proxy connectivity check failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"status": resp.StatusCode(),
	}).Debugln("Proxy connectivity check complete")

	return nil
}

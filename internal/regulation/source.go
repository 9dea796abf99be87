// Package regulation reads the external regulator page watched for policy
// changes.
package regulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"golang.org/x/net/html"
)

const (
	titleClass = "reg-title"
	bodyClass  = "reg-body"

	maxPageBytes   = 2 << 20
	defaultTimeout = 30 * time.Second
)

// HTMLSource fetches a regulation page from an http(s) URL or a file path.
type HTMLSource struct {
	location string
	client   *http.Client
	now      func() time.Time
}

type Option func(*HTMLSource)

func WithHTTPClient(c *http.Client) Option {
	return func(s *HTMLSource) {
		if c != nil {
			s.client = c
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *HTMLSource) {
		if now != nil {
			s.now = now
		}
	}
}

func NewHTMLSource(location string, opts ...Option) *HTMLSource {
	s := &HTMLSource{
		location: location,
		client:   &http.Client{Timeout: defaultTimeout},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTMLSource) Location() string {
	return s.location
}

// Fetch reads the page and extracts the regulation title and body.
// A missing page returns domain.ErrRegulationNotFound; a page without the
// expected structure returns domain.ErrRegulationMalformed.
func (s *HTMLSource) Fetch(ctx context.Context) (*domain.RegulationSnapshot, error) {
	var (
		page []byte
		err  error
	)
	if IsURL(s.location) {
		page, err = s.fetchURL(ctx)
	} else {
		page, err = s.readFile()
	}
	if err != nil {
		return nil, err
	}

	title, body, err := Parse(page)
	if err != nil {
		return nil, err
	}

	return &domain.RegulationSnapshot{
		Title:      title,
		Body:       body,
		Location:   s.location,
		DetectedAt: s.now().UTC(),
	}, nil
}

func (s *HTMLSource) readFile() ([]byte, error) {
	data, err := os.ReadFile(s.location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(err)
		}
		return nil, fmt.Errorf("read regulation page: %w", err)
	}
	return data, nil
}

func (s *HTMLSource) fetchURL(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, notFound(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, notFound(fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstreamFailure, "regulation source unavailable", fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// Parse extracts the text of the first h1.reg-title and div.reg-body.
func Parse(page []byte) (title, body string, err error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return "", "", domain.NewDomainErrorWithCause(domain.ErrCodeUnprocessable, domain.ErrRegulationMalformed.Message, err)
	}

	titleNode := findElement(doc, "h1", titleClass)
	bodyNode := findElement(doc, "div", bodyClass)
	if titleNode == nil || bodyNode == nil {
		return "", "", domain.ErrRegulationMalformed
	}

	title = collapseSpace(textContent(titleNode))
	body = strings.TrimSpace(textContent(bodyNode))
	if title == "" || body == "" {
		return "", "", domain.ErrRegulationMalformed
	}
	return title, body, nil
}

func findElement(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br", "p", "li":
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsURL reports whether location is fetched over http(s) rather than read
// from disk.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func notFound(cause error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrRegulationNotFound.Message, cause)
}

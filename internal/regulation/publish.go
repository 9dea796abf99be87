package regulation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const dateLayout = "2006-01-02"

// Notice is a regulation update as a regulator would publish it.
type Notice struct {
	Title     string
	Body      string
	Published time.Time
	Effective time.Time
}

// Render builds the regulator page for n in the structure Parse reads.
// Blank lines in Body become separate paragraphs.
func Render(n Notice) ([]byte, error) {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Body) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	body := element(atom.Div, "reg-body")
	for _, para := range strings.Split(strings.TrimSpace(n.Body), "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			p := element(atom.P, "")
			p.AppendChild(text(para))
			body.AppendChild(p)
		}
	}

	title := element(atom.H1, titleClass)
	title.AppendChild(text(strings.TrimSpace(n.Title)))

	meta := element(atom.P, "meta")
	meta.AppendChild(text(fmt.Sprintf("Published: %s | Effective: %s",
		n.Published.Format(dateLayout), n.Effective.Format(dateLayout))))

	wrapper := element(atom.Div, "")
	wrapper.Attr = append(wrapper.Attr, html.Attribute{Key: "id", Val: "regulation"})
	wrapper.AppendChild(title)
	wrapper.AppendChild(meta)
	wrapper.AppendChild(element(atom.Hr, ""))
	wrapper.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html, "")
	page := element(atom.Body, "")
	page.AppendChild(wrapper)
	root.AppendChild(page)
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render regulation page: %w", err)
	}
	return buf.Bytes(), nil
}

// Publish renders n and replaces the page at path, creating its directory.
func Publish(path string, n Notice) error {
	page, err := Render(n)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create regulation dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, page, 0o644); err != nil {
		return fmt.Errorf("write regulation page: %w", err)
	}
	return os.Rename(tmp, path)
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

package web

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// Page names.
const (
	pageIndex   = "index"
	pageResults = "results"
	pageMessage = "message"
)

// renderer turns result sets into HTML pages.
type renderer struct {
	md    goldmark.Markdown
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout").Parse(layoutHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for name, body := range map[string]string{
		pageIndex:   indexHTML,
		pageResults: resultsHTML,
		pageMessage: messageHTML,
	} {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &renderer{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pages: pages,
	}, nil
}

// markdown renders markdown to HTML. Raw HTML in the input is not passed through.
func (r *renderer) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}

// pageData is passed to every template.
type pageData struct {
	Title   string
	Index   *indexData
	Results *resultsData
	Message string
}

type indexData struct {
	Examples []domain.Example
	Recent   []recentData
}

type recentData struct {
	ID       string
	Document string
	Created  string
	Failures int
}

type resultsData struct {
	ID       string
	Document string
	Size     int
	Tabs     []tabData
}

type tabData struct {
	ID       string
	Label    string
	HTML     template.HTML
	Failed   bool
	Cached   bool
	Duration string
	Original template.URL
}

// results converts a result set into template data, original document last.
func (r *renderer) results(set *domain.ResultSet) (*resultsData, error) {
	doc := set.Document()
	data := &resultsData{
		ID:       set.ID(),
		Document: doc.Name,
		Size:     doc.Size(),
	}

	for _, res := range set.Results() {
		tab := tabData{
			ID:       res.Method.ID(),
			Label:    res.Method.Label(),
			Failed:   res.Failed(),
			Cached:   res.Cached,
			Duration: res.Duration.Round(time.Millisecond).String(),
		}
		if res.Failed() {
			tab.HTML = template.HTML("<pre class=\"error\">" + template.HTMLEscapeString(res.Text) + "</pre>") //nolint:gosec
		} else {
			html, err := r.markdown(res.Text)
			if err != nil {
				return nil, fmt.Errorf("rendering %s: %w", res.Method.Label(), err)
			}
			tab.HTML = html
		}
		data.Tabs = append(data.Tabs, tab)
	}

	data.Tabs = append(data.Tabs, tabData{
		ID:       domain.MethodOriginal.ID(),
		Label:    domain.MethodOriginal.Label(),
		Original: dataURL(set.Original()),
	})
	return data, nil
}

// dataURL embeds PDF bytes as a base64 data URL.
func dataURL(content []byte) template.URL {
	return template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(content)) //nolint:gosec
}

func (r *renderer) render(w io.Writer, page string, data pageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

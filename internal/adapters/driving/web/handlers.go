package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// handleIndex lists examples, the upload form and recent comparisons.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	examples, err := s.ports.Document.Examples(ctx)
	if err != nil {
		s.serverError(w, err)
		return
	}

	index := &indexData{Examples: examples}
	recent, err := s.ports.Comparison.Recent(ctx)
	if err != nil {
		logger.Warn("listing recent comparisons: %v", err)
	}
	for _, set := range recent {
		index.Recent = append(index.Recent, recentData{
			ID:       set.ID(),
			Document: set.Document().Name,
			Created:  set.CreatedAt().Format(time.DateTime),
			Failures: set.Failures(),
		})
	}

	s.render(w, http.StatusOK, pageIndex, pageData{Title: "Compare", Index: index})
}

// handleCompareExample compares a bundled example named by ?example=.
func (s *Server) handleCompareExample(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("example")
	if name == "" {
		s.message(w, http.StatusBadRequest, "Choose an example or upload a PDF.")
		return
	}

	doc, err := s.ports.Document.LoadExample(r.Context(), name)
	if err != nil {
		s.documentError(w, err)
		return
	}
	s.compare(w, r, doc)
}

// handleCompareUpload compares a PDF posted as the multipart field "file".
func (s *Server) handleCompareUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.message(w, http.StatusRequestEntityTooLarge, "The uploaded file is too large.")
			return
		}
		s.message(w, http.StatusBadRequest, "Upload a PDF file.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.serverError(w, err)
		return
	}

	doc, err := s.ports.Document.FromBytes(header.Filename, content)
	if err != nil {
		s.documentError(w, err)
		return
	}
	s.compare(w, r, doc)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request, doc domain.Document) {
	set, err := s.ports.Comparison.Compare(r.Context(), doc)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.renderResultSet(w, set)
}

// handleResultSet shows a previous comparison.
func (s *Server) handleResultSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.ports.Comparison.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.message(w, http.StatusNotFound, "That comparison is no longer available.")
			return
		}
		s.serverError(w, err)
		return
	}
	s.renderResultSet(w, set)
}

// handleOriginal serves the raw PDF for ?id= (a result set) or ?example=.
func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var doc domain.Document
	switch {
	case q.Get("id") != "":
		set, err := s.ports.Comparison.Lookup(r.Context(), q.Get("id"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		doc = set.Document()
		doc.Content = set.Original()
	case q.Get("example") != "":
		var err error
		doc, err = s.ports.Document.LoadExample(r.Context(), q.Get("example"))
		if err != nil {
			s.documentError(w, err)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": doc.Name}))
	_, _ = w.Write(doc.Content)
}

func (s *Server) renderResultSet(w http.ResponseWriter, set *domain.ResultSet) {
	data, err := s.renderer.results(set)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, pageResults, pageData{Title: set.Document().Name, Results: data})
}

// documentError reports a document that could not be loaded.
func (s *Server) documentError(w http.ResponseWriter, err error) {
	if msg, ok := domain.MissingInputMessage(err); ok {
		status := http.StatusNotFound
		if errors.Is(err, domain.ErrEmptyDocument) {
			status = http.StatusBadRequest
		}
		s.message(w, status, msg)
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		s.message(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serverError(w, err)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	logger.Warn("web: %v", err)
	s.message(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
}

func (s *Server) message(w http.ResponseWriter, status int, msg string) {
	s.render(w, status, pageMessage, pageData{Title: "pdfcompare", Message: msg})
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.render(w, page, data); err != nil {
		logger.Warn("rendering %s: %v", page, err)
	}
}

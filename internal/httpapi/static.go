package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tinoosan/sitehost/internal/errs"
	"github.com/tinoosan/sitehost/internal/storage/disk"
)

// static serves the site. Directory paths get their index document, after a
// redirect to the trailing-slash form so relative links resolve.
func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	asset, err := s.assets.Open(urlPath)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.serveNotFound(w, r)
			return
		}
		s.log.Error("open asset", "path", urlPath, "err", err)
		internalError(w)
		return
	}
	defer asset.Close()

	if asset.Index && !strings.HasSuffix(urlPath, "/") {
		// Built from the escaped path so names holding '?', '#' or spaces survive.
		// Leading slashes are collapsed so the target can never read as a host.
		target := "/" + strings.TrimLeft(r.URL.EscapedPath(), "/") + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		return
	}
	http.ServeContent(w, r, asset.Name, asset.ModTime, asset.Content)
}

// serveNotFound answers 404 with the site's 404 document when it has one.
func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	page, err := s.assets.Open(disk.NotFoundDocument)
	if err != nil || page.Index {
		if page != nil {
			_ = page.Close()
		}
		notFound(w)
		return
	}
	defer page.Close()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		if _, err := io.Copy(w, page.Content); err != nil {
			s.log.Debug("write 404 document", "err", err)
		}
	}
}

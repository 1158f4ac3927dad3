// Package web serves a local HTML preview of a skill corpus: the manifest,
// the document list, and goldmark-rendered markdown. It is a development
// aid, bound to localhost by default, not a public server.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	xlog "skillpack/internal/log"
	"skillpack/pkg/skill"
)

// Config holds the preview server configuration.
type Config struct {
	Addr string // listen address (default: "127.0.0.1:8322")
	Root string // corpus root directory

	// Registry for request metrics. Defaults to prometheus.DefaultRegisterer;
	// tests inject their own to avoid duplicate registration.
	Registry prometheus.Registerer
}

// Server is the corpus preview HTTP server.
type Server struct {
	root     string
	router   chi.Router
	renderer *renderer
	logger   zerolog.Logger
	addr     string
}

// NewServer creates a Server for the corpus at cfg.Root. The corpus must
// load at startup; per-request loads pick up edits after that.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8322"
	}
	if _, err := skill.Load(cfg.Root); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	rend, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		root:     cfg.Root,
		renderer: rend,
		logger:   xlog.WithComponent("web"),
		addr:     cfg.Addr,
	}

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	router, err := s.buildRouter(reg)
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info().Str("addr", s.addr).Str("root", s.root).Msg("preview server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter(reg prometheus.Registerer) (chi.Router, error) {
	counter, err := requestCounter(reg)
	if err != nil {
		return nil, fmt.Errorf("register request counter: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(counter)

	r.Get("/", s.handleOverview)
	r.Get("/doc/*", s.handleDoc)
	r.Get("/raw/*", s.handleRaw)
	r.Get("/skill.json", s.handleManifest)
	r.Get("/healthz", s.handleHealth)

	metricsHandler := promhttp.Handler()
	if g, ok := reg.(prometheus.Gatherer); ok {
		metricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	r.Handle("/metrics", metricsHandler)
	return r, nil
}

// logRequests emits one zerolog line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleOverview renders the manifest and document list.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	c, err := skill.Load(s.root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", c.Manifest.Name, c.Manifest.Description)
	if c.Manifest.Version != "" {
		fmt.Fprintf(&b, "Version %s\n\n", c.Manifest.Version)
	}
	b.WriteString("## Documents\n\n")
	for _, doc := range c.Documents() {
		fmt.Fprintf(&b, "- [%s](/doc/%s)\n", doc, doc)
	}

	assets := assetFiles(c)
	if len(assets) > 0 {
		b.WriteString("\n## Assets\n\n")
		for _, a := range assets {
			fmt.Fprintf(&b, "- [%s](/raw/%s)\n", a, a)
		}
	}

	page, err := s.renderer.renderMarkdown(c.Manifest.Name, c.Manifest.Name, []byte(b.String()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

// handleDoc renders one corpus markdown document.
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	abs, ok := s.confine(rel)
	if !ok {
		http.Error(w, "path escapes corpus root", http.StatusBadRequest)
		return
	}
	if !strings.HasSuffix(rel, ".md") {
		http.Error(w, "not a markdown document", http.StatusBadRequest)
		return
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Strip frontmatter from the index document before rendering.
	if filepath.Base(rel) == skill.IndexDoc {
		if _, body, err := skill.ParseFrontmatter(src); err == nil {
			src = body
		}
	}

	skillName := s.skillName()
	page, err := s.renderer.renderMarkdown(rel, skillName, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

// handleRaw serves any corpus file as text/plain.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	abs, ok := s.confine(rel)
	if !ok {
		http.Error(w, "path escapes corpus root", http.StatusBadRequest)
		return
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(b)
}

// handleManifest serves the frontmatter as JSON.
func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	c, err := skill.Load(s.root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, c.Manifest)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// confine resolves rel against the corpus root and rejects any path whose
// cleaned form escapes it.
func (s *Server) confine(rel string) (string, bool) {
	if rel == "" || strings.Contains(rel, "\x00") {
		return "", false
	}
	abs := filepath.Join(s.root, filepath.FromSlash(rel))

	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", false
	}
	absResolved, err := filepath.Abs(abs)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(absResolved, rootAbs+string(filepath.Separator)) {
		return "", false
	}
	return absResolved, true
}

// skillName returns the manifest name, or empty when the corpus no longer loads.
func (s *Server) skillName() string {
	c, err := skill.Load(s.root)
	if err != nil {
		return ""
	}
	return c.Manifest.Name
}

// assetFiles returns the corpus files that are not markdown documents.
func assetFiles(c *skill.Corpus) []string {
	docs := map[string]bool{}
	for _, d := range c.Documents() {
		docs[d] = true
	}
	var out []string
	for _, f := range c.Files {
		if !docs[f] {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Package server serves the single-user web UI on top of one explorer.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	htmltemplate "html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/at-ishikawa/rensou/internal/assets"
	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/conceptmap"
	"github.com/at-ishikawa/rensou/internal/explorer"
	"github.com/at-ishikawa/rensou/internal/export"
	"github.com/at-ishikawa/rensou/internal/search"
	"github.com/at-ishikawa/rensou/internal/session"
)

const dictionaryPreviewSize = 5

var errNoSources = errors.New("検索ソースを1つ以上選択してください")

type Options struct {
	PageTemplate       string
	ConceptMapTemplate string
	DictionaryTemplate string
	// FontPath is used for PDF exports.
	FontPath string
	// Fonts draw PNG labels; nil falls back to the built-in face.
	Fonts *conceptmap.Fonts
	// MySQL is the sink for the mysql export format. The format is unavailable when nil.
	MySQL export.Sink
}

// Server owns a single explorer. net/http serves requests concurrently, so every
// handler that touches the session holds mu.
type Server struct {
	mu       sync.Mutex
	explorer *explorer.Explorer
	searcher explorer.Searcher
	opts     Options
	flash    []assets.PageNotice
	logger   *slog.Logger
}

func New(e *explorer.Explorer, searcher explorer.Searcher, opts Options) *Server {
	return &Server{
		explorer: e,
		searcher: searcher,
		opts:     opts,
		logger:   slog.Default().With("component", "server"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /select", s.handleSelect)
	mux.HandleFunc("GET /replay", s.handleReplay)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /export/mysql", s.handleExportMySQL)
	mux.HandleFunc("GET /map.svg", s.handleMapSVG)
	mux.HandleFunc("GET /map.png", s.handleMapPNG)
	mux.HandleFunc("GET /api/search", s.handleAPISearch)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.pageData()
	s.flash = nil
	s.mu.Unlock()
	if err != nil {
		s.serverError(w, "build page", err)
		return
	}

	var buf bytes.Buffer
	if err := assets.WritePage(&buf, s.opts.PageTemplate, data); err != nil {
		s.serverError(w, "render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Form.Has("max") {
		maxConcepts, err := strconv.Atoi(r.Form.Get("max"))
		if err == nil {
			err = s.explorer.SetMaxConcepts(maxConcepts)
		}
		if err != nil {
			s.addFlash("error", err.Error())
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	sources, err := concept.ParseSources(r.Form["sources"])
	if err == nil && len(sources) == 0 {
		err = errNoSources
	}
	if err == nil {
		err = s.explorer.SetSources(sources)
	}
	if err != nil {
		s.addFlash("error", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	notice, err := s.explorer.Search(r.Context(), r.Form.Get("word"))
	s.addNotice(notice, err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notice, err := s.explorer.Select(r.Context(), r.URL.Query().Get("concept"))
	s.addNotice(notice, err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notice, err := s.explorer.Replay(r.Context(), r.URL.Query().Get("word"))
	s.addNotice(notice, err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.explorer.Clear()
	s.addFlash("success", "検索結果をクリアしました")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if value := r.URL.Query().Get("format"); value != "" {
		parsed, err := export.ParseFormat(value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = parsed
	}

	if !format.IsFile() {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "use POST /export/mysql to save a snapshot", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dictionary := &s.explorer.State().Dictionary

	content, err := export.Bytes(format, dictionary, export.FileOptions{
		DictionaryTemplate: s.opts.DictionaryTemplate,
		FontPath:           s.opts.FontPath,
	})
	if err != nil {
		s.serverError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.DefaultFileName()+`"`)
	_, _ = w.Write(content)
}

// handleExportMySQL saves a snapshot of the dictionary and reports the outcome as a flash message.
func (s *Server) handleExportMySQL(w http.ResponseWriter, r *http.Request) {
	if s.opts.MySQL == nil {
		http.Error(w, "mysql export is not configured", http.StatusNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	destination, err := s.opts.MySQL.Write(r.Context(), &s.explorer.State().Dictionary)
	if err != nil {
		s.logger.Error("export failed", "format", export.FormatMySQL, "error", err)
		s.addFlash("error", "エクスポートに失敗しました: "+err.Error())
	} else {
		s.addFlash("success", "辞書を保存しました: "+destination)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	diagram := s.explorer.Diagram()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := conceptmap.RenderSVG(&buf, diagram, conceptmap.SVGOptions{TemplatePath: s.opts.ConceptMapTemplate}); err != nil {
		s.serverError(w, "render svg", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleMapPNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	diagram := s.explorer.Diagram()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := conceptmap.RenderPNG(&buf, diagram, conceptmap.PNGOptions{Fonts: s.opts.Fonts}); err != nil {
		s.serverError(w, "render png", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Word     string             `json:"word"`
	Concepts concept.ConceptSet `json:"concepts"`
	Warnings []WarningResponse  `json:"warnings"`
}

type WarningResponse struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAPISearch runs a search without touching the session.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	word, err := search.NormalizeWord(query.Get("word"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	maxConcepts := s.explorer.MaxConcepts()
	s.mu.Unlock()
	if value := query.Get("max"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < explorer.MinConcepts || parsed > explorer.MaxConcepts {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: explorer.ErrMaxConceptsOutOfRange.Error()})
			return
		}
		maxConcepts = parsed
	}

	result := s.searcher.Search(r.Context(), word, maxConcepts)
	concepts := result.Concepts
	if value := query.Get("sources"); value != "" {
		sources, err := concept.ParseSources(strings.Split(value, ","))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		concepts = concepts.Filter(sources)
	}

	response := SearchResponse{
		Word:     result.Word,
		Concepts: concepts,
		Warnings: make([]WarningResponse, 0, len(result.Warnings)),
	}
	for _, warning := range result.Warnings {
		response.Warnings = append(response.Warnings, WarningResponse{
			Source: warning.Source.String(),
			Error:  warning.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) pageData() (assets.PageTemplate, error) {
	state := s.explorer.State()
	enabled := s.explorer.Sources()

	data := assets.PageTemplate{
		Word:        state.CurrentWord,
		Notices:     s.flash,
		MaxConcepts: s.explorer.MaxConcepts(),
		MinLimit:    explorer.MinConcepts,
		MaxLimit:    explorer.MaxConcepts,
	}
	for _, src := range concept.CanonicalSources {
		data.Sources = append(data.Sources, assets.PageSource{
			ID:      src.ID(),
			Name:    src.String(),
			Checked: slices.Contains(enabled, src),
		})
	}

	diagram := s.explorer.Diagram()
	if !diagram.Placeholder {
		var svg bytes.Buffer
		if err := conceptmap.RenderSVG(&svg, diagram, conceptmap.SVGOptions{
			TemplatePath: s.opts.ConceptMapTemplate,
			ConceptHref:  selectHref,
		}); err != nil {
			return data, err
		}
		data.Map = htmltemplate.HTML(svg.String())
	}

	// Rings follow the displayed sources and skip the empty ones, as the result list does.
	for _, ring := range diagram.Rings {
		result := assets.PageResult{
			Source: ring.Source.String(),
			Color:  ring.Color,
		}
		for _, node := range ring.Nodes {
			result.Concepts = append(result.Concepts, assets.PageLink{Label: node.Concept, Href: selectHref(node.Concept)})
		}
		data.Results = append(data.Results, result)
	}

	statistics := s.explorer.Statistics()
	data.Statistics = assets.PageStatistics{
		Word:          statistics.Word,
		TotalConcepts: statistics.TotalConcepts,
		Sources:       statistics.Sources,
	}

	for _, word := range state.RecentHistory(session.RecentHistorySize) {
		data.History = append(data.History, assets.PageLink{
			Label: word,
			Href:  "/replay?word=" + url.QueryEscape(word),
		})
	}

	data.Dictionary.Size = state.Dictionary.Len()
	for i, entry := range state.Dictionary.Entries() {
		if i >= dictionaryPreviewSize {
			break
		}
		preview := entry.Concepts
		if len(preview) > dictionaryPreviewSize {
			preview = preview[:dictionaryPreviewSize]
		}
		data.Dictionary.Entries = append(data.Dictionary.Entries, assets.PageDictionaryEntry{
			Word:     entry.Word,
			Concepts: preview,
			More:     len(entry.Concepts) > dictionaryPreviewSize,
		})
	}
	for _, format := range export.Formats {
		link := assets.PageLink{
			Label: strings.ToUpper(string(format)),
			Href:  "/export?format=" + string(format),
		}
		if !format.IsFile() {
			if s.opts.MySQL == nil {
				continue
			}
			link.Href, link.Post = "/export/mysql", true
		}
		data.Exports = append(data.Exports, link)
	}
	return data, nil
}

// addNotice turns the outcome of an explorer event into flash messages.
func (s *Server) addNotice(notice explorer.Notice, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyWord):
		s.addFlash("error", "検索する単語を入力してください。")
		return
	case err != nil:
		s.addFlash("error", err.Error())
		return
	}

	for _, message := range notice.WarningMessages() {
		s.addFlash("warning", message)
	}
	switch notice.Kind {
	case explorer.NoticeFound:
		s.addFlash("success", notice.Message())
	case explorer.NoticeNotFound:
		s.addFlash("warning", notice.Message())
	case explorer.NoticeSaved:
		s.addFlash("info", notice.Message())
	}
}

func (s *Server) addFlash(level, message string) {
	s.flash = append(s.flash, assets.PageNotice{Level: level, Message: message})
}

func (s *Server) serverError(w http.ResponseWriter, action string, err error) {
	s.logger.Error("request failed", "action", action, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func selectHref(c string) string {
	return "/select?concept=" + url.QueryEscape(c)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(body)
}

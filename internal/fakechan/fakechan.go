// Package fakechan runs an in-process imageboard API origin for tests.
// Responses are scripted by the test; the server applies no freshness
// logic of its own.
package fakechan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

type threadKey struct {
	board string
	no    int64
}

// Server is a scriptable stand-in for the JSON API host.
type Server struct {
	URL string

	srv *httptest.Server

	mu            sync.Mutex
	boards        []string
	boardsStatus  int
	catalogs      map[string]string
	catalogStatus map[string]int
	threads       map[threadKey]string
	threadStatus  map[threadKey]int
	hits          map[string]int
	lastIMS       map[string]string
	lastUA        map[string]string
}

// New starts the fake origin. Callers must Close it.
func New() *Server {
	s := &Server{
		catalogs:      make(map[string]string),
		catalogStatus: make(map[string]int),
		threads:       make(map[threadKey]string),
		threadStatus:  make(map[threadKey]int),
		hits:          make(map[string]int),
		lastIMS:       make(map[string]string),
		lastUA:        make(map[string]string),
	}

	r := chi.NewRouter()
	r.Get("/boards.json", s.handleBoards)
	r.Get("/{board}/catalog.json", s.handleCatalog)
	r.Get("/{board}/thread/{no}.json", s.handleThread)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	return s
}

// Close shuts the fake origin down.
func (s *Server) Close() {
	s.srv.Close()
}

// SetBoards replaces the board directory served by /boards.json.
func (s *Server) SetBoards(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = names
	s.boardsStatus = 0
}

// SetBoardsStatus forces a status code for /boards.json until the next
// SetBoards.
func (s *Server) SetBoardsStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boardsStatus = code
}

// SetCatalog scripts a board's catalog body, a bare JSON array of pages.
func (s *Server) SetCatalog(board, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[board] = body
	delete(s.catalogStatus, board)
}

// SetCatalogStatus forces a status code for a board's catalog endpoint
// until the next SetCatalog.
func (s *Server) SetCatalogStatus(board string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogStatus[board] = code
}

// SetThread scripts a thread body, a JSON object with a "posts" array.
func (s *Server) SetThread(board string, no int64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadKey{board, no}] = body
	delete(s.threadStatus, threadKey{board, no})
}

// SetThreadStatus forces a status code for one thread endpoint until the
// next SetThread.
func (s *Server) SetThreadStatus(board string, no int64, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadStatus[threadKey{board, no}] = code
}

// ExpireThread makes one thread endpoint answer 404.
func (s *Server) ExpireThread(board string, no int64) {
	s.SetThreadStatus(board, no, http.StatusNotFound)
}

// Hits returns how many requests the given path has received.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastIMS returns the If-Modified-Since header of the path's most recent
// request, or "" if the request was unconditional.
func (s *Server) LastIMS(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIMS[path]
}

// LastUserAgent returns the User-Agent header of the path's most recent
// request.
func (s *Server) LastUserAgent(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUA[path]
}

func (s *Server) record(r *http.Request) {
	s.hits[r.URL.Path]++
	s.lastIMS[r.URL.Path] = r.Header.Get("If-Modified-Since")
	s.lastUA[r.URL.Path] = r.Header.Get("User-Agent")
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.record(r)
	names := s.boards
	code := s.boardsStatus
	s.mu.Unlock()

	if code != 0 {
		w.WriteHeader(code)
		return
	}

	type boardInfo struct {
		Board string `json:"board"`
		Title string `json:"title"`
	}
	payload := struct {
		Boards []boardInfo `json:"boards"`
	}{Boards: make([]boardInfo, 0, len(names))}
	for _, name := range names {
		payload.Boards = append(payload.Boards, boardInfo{Board: name, Title: "/" + name + "/"})
	}

	writeJSON(w, payload)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	s.mu.Lock()
	s.record(r)
	code := s.catalogStatus[board]
	body, ok := s.catalogs[board]
	s.mu.Unlock()

	if code != 0 {
		w.WriteHeader(code)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeBody(w, body)
}

func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	no, err := strconv.ParseInt(chi.URLParam(r, "no"), 10, 64)
	if err != nil {
		http.Error(w, "bad thread number", http.StatusBadRequest)
		return
	}
	key := threadKey{board, no}

	s.mu.Lock()
	s.record(r)
	code := s.threadStatus[key]
	body, ok := s.threads[key]
	s.mu.Unlock()

	if code != 0 {
		w.WriteHeader(code)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeBody(w, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
	}
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"globe_atlas/internal/app"
	"globe_atlas/internal/domain"
	"globe_atlas/internal/page"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q     *app.QueryService
	R     *app.ResolveService
	Scene *app.Scene
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.readyz)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/globe/texture", h.texture)
		r.Get("/locations", h.listLocations)
		r.Get("/locations/{id}", h.getLocation)
		r.Get("/locations/{id}/gallery", h.gallery)
		r.Get("/regions", h.regions)
		r.Get("/markers", h.markers)
		r.Get("/markers.geojson", h.markersGeoJSON)
		r.Get("/project", h.project)
		r.Get("/nearest", h.nearest)
		r.Post("/page", h.applyPage)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.opts.ResolveRPS))
			r.Post("/resolve", h.resolve)
			r.Post("/resolve/batch", h.resolveBatch)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrNotReady):
		w.Header().Set("Retry-After", "1")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "globe is still loading")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "request cancelled")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes a JSON body with an ETag, answering 304 when the client
// already holds it.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if etag == "" {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeCached(w, r, "application/json", body)
}

// writeResult writes a JSON answer to a POST; those are never conditional.
func writeResult(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func floatParam(r *http.Request, name string, required bool) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return f, nil
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if !h.Scene.Ready() {
		writeError(w, domain.ErrNotReady)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func (h *Handlers) texture(w http.ResponseWriter, r *http.Request) {
	img, err := h.Scene.Texture()
	if err != nil {
		writeError(w, err)
		return
	}
	ct := mime.TypeByExtension(path.Ext(h.Scene.TextureName()))
	if ct == "" {
		ct = http.DetectContentType(img)
	}
	writeCached(w, r, ct, img)
}

func (h *Handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.LocationsQuery{Q: qs.Get("q"), Region: qs.Get("region")}
	if c := qs.Get("category"); c != "" {
		cat, err := domain.ParseCategory(c)
		if err != nil {
			writeError(w, err)
			return
		}
		q.Category = cat
	}
	if ls := qs.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > app.MaxPageLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", fmt.Sprintf("limit must be an integer between 1 and %d", app.MaxPageLimit))
			return
		}
		q.Limit = l
	}
	if c := qs.Get("cursor"); c != "" {
		q.Cursor = &c
	}

	out, err := h.Q.ListLocations(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getLocation(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.GetLocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Language", "ru")
	writeJSON(w, r, resp)
}

func (h *Handlers) gallery(w http.ResponseWriter, r *http.Request) {
	index := 0
	if s := r.URL.Query().Get("index"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid index", "index must be an integer")
			return
		}
		index = n
	}
	out, err := h.Q.Gallery(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) regions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string][]string{"regions": h.Q.Regions(r.Context())})
}

func (h *Handlers) markers(w http.ResponseWriter, r *http.Request) {
	ms, err := h.Q.Markers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, map[string]any{"radius": h.Scene.Radius(), "markers": ms})
}

func (h *Handlers) markersGeoJSON(w http.ResponseWriter, r *http.Request) {
	b, err := h.Q.MarkersGeoJSON(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, "application/geo+json", b)
}

func (h *Handlers) project(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat", true)
	if err != nil {
		writeError(w, err)
		return
	}
	lng, err := floatParam(r, "lng", true)
	if err != nil {
		writeError(w, err)
		return
	}
	radius, err := floatParam(r, "radius", false)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Q.Project(domain.Coords{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) nearest(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat", true)
	if err != nil {
		writeError(w, err)
		return
	}
	lng, err := floatParam(r, "lng", true)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Q.NearestTo(r.Context(), domain.Coords{Lat: lat, Lng: lng})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

type pageRequest struct {
	State  page.State `json:"state"`
	Action string     `json:"action"`
	Value  string     `json:"value"`
}

func (h *Handlers) applyPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Q.ApplyPage(r.Context(), req.State, req.Action, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, r, out)
}

func (h *Handlers) resolve(w http.ResponseWriter, r *http.Request) {
	var q domain.ClickQuery
	if err := decodeBody(w, r, &q); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.R.ResolveClick(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, r, res)
}

type batchRequest struct {
	Clicks []domain.ClickQuery `json:"clicks"`
}

func (h *Handlers) resolveBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.R.ResolveBatch(r.Context(), req.Clicks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, r, map[string][]domain.BatchItem{"results": out})
}

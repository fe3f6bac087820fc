package bridge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	hnerrors "github.com/vango-dev/hashnav/internal/errors"
	"github.com/vango-dev/hashnav/pkg/hashroute"
	"github.com/vango-dev/hashnav/pkg/linkstore"
)

// VarJSON is one route variable. A nil Value marks the key unset.
type VarJSON struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// StateJSON is the JSON form of a hashroute.RouteState. Vars is a list so
// that order survives the round trip.
type StateJSON struct {
	Page string    `json:"page"`
	Vars []VarJSON `json:"vars"`
}

// ParseRequest is the body of POST /api/parse.
type ParseRequest struct {
	Fragment string `json:"fragment"`
}

// ParseResponse is the reply to POST /api/parse.
type ParseResponse struct {
	StateJSON
	Report hashroute.Report `json:"report"`
}

// FragmentResponse carries a formatted fragment and, for links, its ID.
type FragmentResponse struct {
	ID       string `json:"id,omitempty"`
	Fragment string `json:"fragment"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StateToJSON converts state to its JSON form. Unset entries are kept.
func StateToJSON(state hashroute.RouteState) StateJSON {
	out := StateJSON{Page: state.PageKey, Vars: []VarJSON{}}
	for k, v := range state.Vars.Entries() {
		out.Vars = append(out.Vars, VarJSON{Key: k, Value: v})
	}
	return out
}

// RouteState converts the JSON form back to a RouteState.
func (s StateJSON) RouteState() hashroute.RouteState {
	vars := hashroute.NewVars()
	for _, v := range s.Vars {
		if v.Value == nil {
			vars.Unset(v.Key)
		} else {
			vars.Set(v.Key, *v.Value)
		}
	}
	return hashroute.RouteState{PageKey: s.Page, Vars: vars}
}

func handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	state, report := hashroute.Inspect(req.Fragment)
	writeJSON(w, http.StatusOK, ParseResponse{StateJSON: StateToJSON(state), Report: report})
}

func handleFormat(w http.ResponseWriter, r *http.Request) {
	var req StateJSON
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, FragmentResponse{Fragment: hashroute.Format(req.RouteState())})
}

func (s *Server) handleSaveLink(w http.ResponseWriter, r *http.Request) {
	if s.config.Links == nil {
		writeError(w, http.StatusServiceUnavailable, hnerrors.New("E403"))
		return
	}
	var req ParseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.config.Links.Save(r.Context(), req.Fragment)
	if err != nil {
		s.logger.Error("save link failed", "error", err)
		writeError(w, http.StatusInternalServerError, hnerrors.New("E400").Wrap(err))
		return
	}
	writeJSON(w, http.StatusCreated, FragmentResponse{ID: id, Fragment: linkstore.Normalize(req.Fragment)})
}

func (s *Server) handleLoadLink(w http.ResponseWriter, r *http.Request) {
	if s.config.Links == nil {
		writeError(w, http.StatusServiceUnavailable, hnerrors.New("E403"))
		return
	}
	id := chi.URLParam(r, "id")
	fragment, err := s.config.Links.Load(r.Context(), id)
	switch {
	case errors.Is(err, linkstore.ErrInvalidID):
		writeError(w, http.StatusBadRequest, hnerrors.New("E401").Wrap(err))
	case errors.Is(err, linkstore.ErrNotFound):
		writeError(w, http.StatusNotFound, hnerrors.New("E401"))
	case err != nil:
		s.logger.Error("load link failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, hnerrors.New("E400").Wrap(err))
	default:
		writeJSON(w, http.StatusOK, FragmentResponse{ID: id, Fragment: fragment})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, hnerrors.New("E302").Wrap(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err *hnerrors.HashnavError) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: err.Code})
}

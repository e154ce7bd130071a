package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"webgen-backend/internal/auth"
	"webgen-backend/internal/completion"
	"webgen-backend/internal/database"
	"webgen-backend/internal/generation"
	pkgapi "webgen-backend/pkg/api"
)

type GenerateService struct {
	db  *gorm.DB
	gen *generation.Service
}

func NewGenerateService(db *gorm.DB, gen *generation.Service) *GenerateService {
	return &GenerateService{db: db, gen: gen}
}

// AddRoutes registers the authenticated routes; the caller is expected to
// wrap the router in auth.LoginRequired.
func (s *GenerateService) AddRoutes(r chi.Router) {
	r.Get("/", RestHandler(s.GetIndex))
	r.Post("/", RestHandler(s.Generate))
	r.Get("/generate", RestHandler(s.GetGenerate))
	r.Post("/generate", RestHandler(s.Regenerate))
	r.Get("/history", RestHandler(s.GetHistory))
	r.Post("/history", RestHandler(s.SearchHistory))
	r.Get("/result", RestHandler(s.GetResult))
}

func (s *GenerateService) GetIndex(r *http.Request) (any, error) {
	all := generation.Patterns()
	view := make([]pkgapi.PatternInfo, 0, len(all))
	for _, p := range all {
		view = append(view, pkgapi.PatternInfo{Key: p.Key, Instruction: p.Instruction})
	}
	return pkgapi.IndexResponse{Patterns: view}, nil
}

func (s *GenerateService) Generate(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	req, err := ParseForm[pkgapi.GenerateRequest](r)
	if err != nil {
		return nil, err
	}

	response, err := s.gen.Submit(r.Context(), session, req.Requirement, req.Pattern)
	if err != nil {
		return nil, generationError(err)
	}

	return pkgapi.GenerateResponse{Response: response}, nil
}

// GetGenerate renders the last response. A session with no generation yet is
// sent back to the index instead of erroring.
func (s *GenerateService) GetGenerate(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	if session.LastResponse == "" {
		return Redirect("/")
	}

	return pkgapi.GenerateResponse{Response: session.LastResponse}, nil
}

func (s *GenerateService) Regenerate(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	response, err := s.gen.Regenerate(r.Context(), session)
	if err != nil {
		if errors.Is(err, generation.ErrNoPriorGeneration) {
			return Redirect("/")
		}
		return nil, generationError(err)
	}

	return pkgapi.GenerateResponse{Response: response}, nil
}

func (s *GenerateService) GetHistory(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	histories, err := database.ListHistories(r.Context(), s.db, session.UserId.Int64)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to load history")
	}

	return pkgapi.HistoryResponse{Histories: historyView(histories)}, nil
}

func (s *GenerateService) SearchHistory(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	req, err := ParseForm[pkgapi.SearchRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Requirement == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "must provide keyword")
	}

	results, err := database.SearchHistories(r.Context(), s.db, session.UserId.Int64, req.Requirement)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to search history")
	}

	return pkgapi.SearchResponse{Results: historyView(results)}, nil
}

// GetResult serves the standalone result page; without POSTed search state it
// shows the full listing rather than a dead end.
func (s *GenerateService) GetResult(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)

	histories, err := database.ListHistories(r.Context(), s.db, session.UserId.Int64)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to load history")
	}

	return pkgapi.SearchResponse{Results: historyView(histories)}, nil
}

func historyView(histories []database.History) []pkgapi.HistoryItem {
	items := make([]pkgapi.HistoryItem, 0, len(histories))
	for _, h := range histories {
		items = append(items, pkgapi.HistoryItem{
			Pattern: h.Pattern,
			Input:   h.Input,
			Result:  h.Result,
			Time:    h.Time.Format("2006-01-02 15:04:05"),
		})
	}
	return items
}

func generationError(err error) error {
	var upstream *completion.UpstreamError
	switch {
	case errors.Is(err, generation.ErrEmptyRequirement):
		return CodedErrorf(http.StatusBadRequest, "must provide requirement")
	case errors.Is(err, generation.ErrUnknownPattern):
		return CodedErrorf(http.StatusBadRequest, "invalid pattern")
	case errors.As(err, &upstream):
		return CodedErrorf(http.StatusBadRequest, "API failed: %v", upstream.Detail)
	default:
		return CodedErrorf(http.StatusInternalServerError, "failed to generate response")
	}
}

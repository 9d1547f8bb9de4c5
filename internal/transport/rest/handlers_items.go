package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/service"
	"github.com/flashboard/board-service/internal/transport/rest/response"
)

type BoardHandler struct {
	svc *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type itemRequest struct {
	Token       string `json:"token,omitempty"` // consumed by TokenAuth
	Title       string `json:"title" validate:"required,max=140"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	AddInfo     string `json:"addInfo" validate:"max=2000"`
	Category    string `json:"category" validate:"required,max=40"`

	BirthDate  string `json:"birthdate"`
	ExpiryDate string `json:"expirydate" validate:"required"`

	MemberLimit   int  `json:"memberLimit" validate:"gte=0"`
	AllowOverload bool `json:"allowOverload"`
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidField(field, "must be an RFC3339 timestamp")
	}
	return t, nil
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	var req itemRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Error(w, domain.ErrInvalidJSON(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		response.Error(w, err)
		return
	}

	birth, err := parseDate("birthdate", req.BirthDate)
	if err != nil {
		response.Error(w, err)
		return
	}
	expiry, err := parseDate("expirydate", req.ExpiryDate)
	if err != nil {
		response.Error(w, err)
		return
	}

	it, err := h.svc.CreateItem(r.Context(), claims.SubjectID, service.CreateItemInput{
		Title:         sanitizeInput(req.Title, 140),
		Description:   sanitizeInput(req.Description, 2000),
		Location:      sanitizeInput(req.Location, 200),
		AddInfo:       sanitizeInput(req.AddInfo, 2000),
		Category:      domain.Category(sanitizeInput(req.Category, 40)),
		BirthDate:     birth,
		ExpiryDate:    expiry,
		MemberLimit:   req.MemberLimit,
		AllowOverload: req.AllowOverload,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Successfully added", map[string]any{"id": it.ID})
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	var req itemRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Error(w, domain.ErrInvalidJSON(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		response.Error(w, err)
		return
	}

	birth, err := parseDate("birthdate", req.BirthDate)
	if err != nil {
		response.Error(w, err)
		return
	}
	expiry, err := parseDate("expirydate", req.ExpiryDate)
	if err != nil {
		response.Error(w, err)
		return
	}

	_, err = h.svc.UpdateItem(r.Context(), claims.SubjectID, itemID, service.UpdateItemInput{
		Title:         sanitizeInput(req.Title, 140),
		Description:   sanitizeInput(req.Description, 2000),
		Location:      sanitizeInput(req.Location, 200),
		AddInfo:       sanitizeInput(req.AddInfo, 2000),
		BirthDate:     birth,
		ExpiryDate:    expiry,
		MemberLimit:   req.MemberLimit,
		AllowOverload: req.AllowOverload,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Info updated", nil)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	if err := h.svc.DeleteItem(r.Context(), claims.SubjectID, itemID); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Info removed", nil)
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *BoardHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	items, err := h.svc.ListItemsByOwner(r.Context(), ownerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *BoardHandler) Join(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	if err := h.svc.Join(r.Context(), eventID, claims.SubjectID); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Event joined", nil)
}

func (h *BoardHandler) Leave(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	if err := h.svc.Leave(r.Context(), eventID, claims.SubjectID); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User removed from event", nil)
}

func (h *BoardHandler) Vote(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}
	polarity, err := domain.ParsePolarity(chi.URLParam(r, "votetype"))
	if err != nil {
		response.Error(w, err)
		return
	}

	res, err := h.svc.CastVote(r.Context(), itemID, claims.SubjectID, polarity)
	if err != nil {
		response.Error(w, err)
		return
	}

	msg := "Vote recorded"
	if res.Updated {
		msg = "Vote updated"
	}
	response.Success(w, http.StatusOK, msg, map[string]any{"voteCount": res.VoteCount})
}

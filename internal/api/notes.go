package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NoteHub-io/notehub/internal/apierr"
	"github.com/NoteHub-io/notehub/internal/auth"
	"github.com/NoteHub-io/notehub/internal/models"
	"github.com/NoteHub-io/notehub/internal/store"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
}

func userID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// ListNotesHandler returns a page of the caller's notes, optionally filtered
// by tag and a search term over title and content.
func (api *Api) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q.Get("page"), 1)
	if err != nil || page < 1 {
		apierr.Write(w, apierr.BadRequest("page must be a positive integer"))
		return
	}
	perPage, err := queryInt(q.Get("perPage"), defaultPerPage)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		apierr.Write(w, apierr.BadRequest("perPage must be between 1 and 100"))
		return
	}

	tag := q.Get("tag")
	if tag != "" && !models.ValidNoteTag(tag) {
		apierr.Write(w, apierr.BadRequest("Unknown tag"))
		return
	}

	notes, total, err := api.Store.ListNotes(userID(r), store.NoteFilter{
		Tag:     tag,
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		apierr.Write(w, err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	respondJSON(w, http.StatusOK, models.NoteList{
		Page:       page,
		PerPage:    perPage,
		TotalNotes: total,
		TotalPages: totalPages,
		Notes:      notes,
	})
}

// GetNoteHandler returns one of the caller's notes by id.
func (api *Api) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	note, err := api.Store.GetNote(userID(r), chi.URLParam(r, "noteId"))
	if err != nil {
		writeNoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}

// CreateNoteHandler creates a note owned by the caller.
func (api *Api) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if req.Title == "" {
		apierr.Write(w, apierr.BadRequest("Title is required"))
		return
	}
	if req.Tag != "" && !models.ValidNoteTag(req.Tag) {
		apierr.Write(w, apierr.BadRequest("Unknown tag"))
		return
	}

	note, err := api.Store.CreateNote(userID(r), &models.Note{
		Title:   req.Title,
		Content: req.Content,
		Tag:     req.Tag,
	})
	if err != nil {
		apierr.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

// UpdateNoteHandler applies a partial update to one of the caller's notes.
func (api *Api) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if req.Title != nil && *req.Title == "" {
		apierr.Write(w, apierr.BadRequest("Title is required"))
		return
	}
	if req.Tag != nil && !models.ValidNoteTag(*req.Tag) {
		apierr.Write(w, apierr.BadRequest("Unknown tag"))
		return
	}

	note, err := api.Store.UpdateNote(userID(r), chi.URLParam(r, "noteId"), store.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tag:     req.Tag,
	})
	if err != nil {
		writeNoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}

// DeleteNoteHandler removes one of the caller's notes and returns the
// deleted entity.
func (api *Api) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	note, err := api.Store.DeleteNote(userID(r), chi.URLParam(r, "noteId"))
	if err != nil {
		writeNoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}

func writeNoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNoteNotFound) {
		apierr.Write(w, apierr.NotFound("Note not found"))
		return
	}
	apierr.Write(w, err)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

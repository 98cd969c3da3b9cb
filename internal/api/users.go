package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/NoteHub-io/notehub/internal/apierr"
)

const maxAvatarSize = 5 << 20 // 5 MiB

// UpdateAvatarHandler accepts a multipart upload in the `avatar` field,
// stores it, and records the resulting URL on the user.
func (api *Api) UpdateAvatarHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		apierr.Write(w, apierr.BadRequest("No file uploaded"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		apierr.Write(w, apierr.BadRequest("No file uploaded"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	avatarURL, err := api.Uploader.Upload(r.Context(), key, file, contentType)
	if err != nil {
		apierr.Write(w, apierr.Internal("Failed to upload avatar"))
		return
	}

	if _, err := api.Store.UpdateUserAvatar(userID(r), avatarURL); err != nil {
		apierr.Write(w, apierr.NotFound("User not found"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Avatar updated successfully",
		"url":     avatarURL,
	})
}

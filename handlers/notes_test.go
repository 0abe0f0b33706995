package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dragnotes/logger"
	"dragnotes/middleware"
	"dragnotes/models"
	"dragnotes/service"
)

func createNote(t *testing.T, api *testAPI, token string, body any) map[string]any {
	t.Helper()

	rr := api.do(t, http.MethodPost, "/api/notes", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	return decode(t, rr)["note"].(map[string]any)
}

func TestNotesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/notes"},
		{http.MethodGet, "/api/notes/archived"},
		{http.MethodPost, "/api/notes"},
		{http.MethodGet, "/api/notes/" + models.NewID()},
		{http.MethodPut, "/api/notes/" + models.NewID()},
		{http.MethodDelete, "/api/notes/" + models.NewID()},
		{http.MethodPatch, "/api/notes/" + models.NewID() + "/favorite"},
		{http.MethodPatch, "/api/notes/" + models.NewID() + "/archive"},
		{http.MethodPost, "/api/notes/reorder"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := api.do(t, tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestCreateNote(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupAndLogin(t, "a@x.com")

	t.Run("Title only", func(t *testing.T) {
		note := createNote(t, api, token, map[string]any{"title": "Hi"})

		assert.Equal(t, "Hi", note["title"])
		assert.Equal(t, []any{}, note["blocks"])
		assert.Equal(t, false, note["isFavorite"])
		assert.Equal(t, false, note["isArchived"])
		assert.NotEmpty(t, note["_id"])
		assert.NotEmpty(t, note["user"])
	})

	t.Run("Client owner is ignored", func(t *testing.T) {
		note := createNote(t, api, token, map[string]any{"title": "Mine", "user": "someone-else"})

		assert.NotEqual(t, "someone-else", note["user"])
	})

	t.Run("With blocks", func(t *testing.T) {
		note := createNote(t, api, token, map[string]any{
			"title": "Blocks",
			"blocks": []map[string]any{
				{"type": "heading", "content": map[string]any{"text": "H"}, "order": 0},
				{"_id": "b-2", "type": "checkbox", "content": map[string]any{"text": "c", "checked": true}, "order": 1},
			},
		})

		blocks := note["blocks"].([]any)
		require.Len(t, blocks, 2)
		assert.NotEmpty(t, blocks[0].(map[string]any)["_id"])
		assert.Equal(t, "b-2", blocks[1].(map[string]any)["_id"])
		assert.Equal(t, true, blocks[1].(map[string]any)["content"].(map[string]any)["checked"])
	})

	t.Run("Missing title", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token, map[string]any{"title": "   "})

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := decode(t, rr)["errors"].([]any)
		assert.Equal(t, "Title is required", errs[0].(map[string]any)["message"])
	})

	t.Run("Unknown block type", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token, map[string]any{
			"title":  "T",
			"blocks": []map[string]any{{"type": "video", "content": map[string]any{}}},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Blocks not an array", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token, `{"title":"T","blocks":"nope"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "Validation failed", body["message"])
		errs := body["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "blocks", errs[0].(map[string]any)["field"])
	})

	t.Run("Block content not an object", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token,
			`{"title":"T","blocks":[{"type":"text","content":"plain","order":0}]}`)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := decode(t, rr)["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "blocks.content", errs[0].(map[string]any)["field"])
	})

	t.Run("Block without order", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token, map[string]any{
			"title":  "T",
			"blocks": []map[string]any{{"type": "text", "content": map[string]any{"text": "a"}}},
		})

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errs := decode(t, rr)["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "blocks[0].order", errs[0].(map[string]any)["field"])
		assert.Equal(t, "Block order is required", errs[0].(map[string]any)["message"])
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes", token, `{"title":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetAndListNotes(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signupAndLogin(t, "alice@x.com")
	bob := api.signupAndLogin(t, "bob@x.com")

	mine := createNote(t, api, alice, map[string]any{"title": "Test Note 1"})
	createNote(t, api, alice, map[string]any{"title": "Test Note 2"})
	theirs := createNote(t, api, bob, map[string]any{"title": "Test Note 3"})

	t.Run("List only own notes", func(t *testing.T) {
		rr := api.do(t, http.MethodGet, "/api/notes", alice, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "Notes fetched successfully", body["message"])
		notes := body["notes"].([]any)
		require.Len(t, notes, 2)
		for _, n := range notes {
			assert.Equal(t, mine["user"], n.(map[string]any)["user"])
		}
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		carol := api.signupAndLogin(t, "carol@x.com")
		rr := api.do(t, http.MethodGet, "/api/notes", carol, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []any{}, decode(t, rr)["notes"])
	})

	t.Run("Get own note", func(t *testing.T) {
		rr := api.do(t, http.MethodGet, "/api/notes/"+mine["_id"].(string), alice, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Test Note 1", decode(t, rr)["note"].(map[string]any)["title"])
	})

	t.Run("Foreign and absent notes are both 404", func(t *testing.T) {
		foreign := api.do(t, http.MethodGet, "/api/notes/"+theirs["_id"].(string), alice, nil)
		absent := api.do(t, http.MethodGet, "/api/notes/"+models.NewID(), alice, nil)
		malformed := api.do(t, http.MethodGet, "/api/notes/not-an-id", alice, nil)

		for _, rr := range []*httptest.ResponseRecorder{foreign, absent, malformed} {
			require.Equal(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, msgNoteNotFound, decode(t, rr)["message"])
		}
	})
}

func TestUpdateNote(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signupAndLogin(t, "alice@x.com")
	bob := api.signupAndLogin(t, "bob@x.com")

	note := createNote(t, api, alice, map[string]any{"title": "Old"})
	path := "/api/notes/" + note["_id"].(string)

	t.Run("Replace title and blocks", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, path, alice, map[string]any{
			"title":  "New",
			"blocks": []map[string]any{{"type": "text", "content": map[string]any{"text": "body"}, "order": 0}},
		})

		require.Equal(t, http.StatusOK, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "Note updated successfully", body["message"])
		updated := body["note"].(map[string]any)
		assert.Equal(t, "New", updated["title"])
		assert.Len(t, updated["blocks"], 1)
	})

	t.Run("Blocks are required", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, path, alice, map[string]any{"title": "New"})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Other user gets 404", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, path, bob, map[string]any{"title": "Stolen", "blocks": []any{}})

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, msgNoteNotAuthorized, decode(t, rr)["message"])
	})
}

func TestDeleteNote(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signupAndLogin(t, "alice@x.com")
	bob := api.signupAndLogin(t, "bob@x.com")

	note := createNote(t, api, alice, map[string]any{"title": "Doomed"})
	path := "/api/notes/" + note["_id"].(string)

	rr := api.do(t, http.MethodDelete, path, bob, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Note deleted successfully", decode(t, rr)["message"])

	rr = api.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestToggleNote(t *testing.T) {
	api := newTestAPI(t)
	token := api.signupAndLogin(t, "alice@x.com")

	note := createNote(t, api, token, map[string]any{"title": "T"})
	path := "/api/notes/" + note["_id"].(string)

	rr := api.do(t, http.MethodPatch, path+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "Note added to favorites", body["message"])
	assert.Equal(t, true, body["note"].(map[string]any)["isFavorite"])

	rr = api.do(t, http.MethodPatch, path+"/favorite", token, nil)
	assert.Equal(t, "Note removed from favorites", decode(t, rr)["message"])

	rr = api.do(t, http.MethodPatch, path+"/archive", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Note archived", decode(t, rr)["message"])

	rr = api.do(t, http.MethodGet, "/api/notes", token, nil)
	assert.Empty(t, decode(t, rr)["notes"])

	rr = api.do(t, http.MethodGet, "/api/notes/archived", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["notes"], 1)

	rr = api.do(t, http.MethodPatch, path+"/archive", token, nil)
	assert.Equal(t, "Note unarchived", decode(t, rr)["message"])

	rr = api.do(t, http.MethodPatch, "/api/notes/"+models.NewID()+"/favorite", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReorderNotes(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signupAndLogin(t, "alice@x.com")
	bob := api.signupAndLogin(t, "bob@x.com")

	first := createNote(t, api, alice, map[string]any{"title": "first"})
	second := createNote(t, api, alice, map[string]any{"title": "second"})
	theirs := createNote(t, api, bob, map[string]any{"title": "theirs"})

	t.Run("Source moves above target", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes/reorder", alice, map[string]string{
			"sourceId": first["_id"].(string),
			"targetId": second["_id"].(string),
		})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Notes reordered successfully", decode(t, rr)["message"])

		rr = api.do(t, http.MethodGet, "/api/notes", alice, nil)
		notes := decode(t, rr)["notes"].([]any)
		require.Len(t, notes, 2)
		assert.Equal(t, first["_id"], notes[0].(map[string]any)["_id"])
	})

	t.Run("Malformed ids", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes/reorder", alice, map[string]string{"sourceId": "x", "targetId": "y"})

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Len(t, decode(t, rr)["errors"], 2)
	})

	t.Run("Foreign note", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/notes/reorder", alice, map[string]string{
			"sourceId": first["_id"].(string),
			"targetId": theirs["_id"].(string),
		})

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "One or both notes not found or not authorized.", decode(t, rr)["message"])
	})
}

// brokenNotes fails every call with an internal error.
type brokenNotes struct {
	NoteService
}

func (brokenNotes) List(context.Context, models.Identity) ([]models.Note, error) {
	return nil, errors.New("connection refused to 10.0.0.7:3306")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	h := NewHandler(Deps{Notes: brokenNotes{}}, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), models.Identity{UserID: "u"}))
	rr := httptest.NewRecorder()

	h.listNotes(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Fetching notes failed.", decode(t, rr)["message"])
	assert.False(t, strings.Contains(rr.Body.String(), "10.0.0.7"))
}

func TestHandlerWithoutIdentity(t *testing.T) {
	h := NewHandler(Deps{Notes: brokenNotes{}}, logger.Nop())

	rr := httptest.NewRecorder()
	h.listNotes(rr, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errInvalidJSON, http.StatusBadRequest},
		{&service.ValidationError{Fields: []service.FieldError{{Field: "title", Message: "x"}}}, http.StatusUnprocessableEntity},
		{service.ErrConflict, http.StatusUnprocessableEntity},
		{service.ErrAuthentication, http.StatusUnauthorized},
		{service.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

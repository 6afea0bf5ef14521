package handlers_test

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirado/clinic-console-api/internal/models"
)

func TestPortalLoginGatesOnStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)
	env.seedAccount(t, adminA, "amy", "amy@y.com", models.StatusPending)
	env.seedAccount(t, adminA, "cleo", "cleo@z.com", models.StatusRejected)

	w := env.do(t, http.MethodPost, "/portal/login", map[string]any{"email": "bob@x.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ok struct {
		Email   string         `json:"email"`
		Account models.Account `json:"account"`
	}
	decodeJSON(t, w, &ok)
	assert.Equal(t, "bob@x.com", ok.Email)
	assert.Equal(t, models.StatusApproved, ok.Account.Status)

	// The denial message carries the literal status value.
	for email, status := range map[string]string{
		"amy@y.com":  models.StatusPending,
		"cleo@z.com": models.StatusRejected,
	} {
		w = env.do(t, http.MethodPost, "/portal/login", map[string]any{"email": email}, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
		var denial struct {
			Error string `json:"error"`
		}
		decodeJSON(t, w, &denial)
		assert.Contains(t, denial.Error, status)
	}

	w = env.do(t, http.MethodPost, "/portal/login", map[string]any{"email": "nobody@x.com"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/portal/login", map[string]any{"email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortalRoutesReverifyStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, adminA, "amy", "amy@y.com", models.StatusPending)

	w := env.do(t, http.MethodGet, "/portal/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.asPortal(t, "nobody@x.com", http.MethodGet, "/portal/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.asPortal(t, "amy@y.com", http.MethodGet, "/portal/profile", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPortalDocumentsFilteredByAssignment(t *testing.T) {
	env := newTestEnv(t)
	bobID := env.seedAccount(t, adminA, "Bob", "bob@x.com", models.StatusApproved)
	env.seedAccount(t, adminA, "Amy", "amy@y.com", models.StatusApproved)

	w := env.asAdmin(t, adminA, http.MethodPost, "/api/documents", map[string]any{
		"documentName":  "Bob Only",
		"assignedUsers": []string{bobID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var docs []models.Document
	w = env.asPortal(t, "bob@x.com", http.MethodGet, "/portal/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "Bob Only", docs[0].DocumentName)

	w = env.asPortal(t, "amy@y.com", http.MethodGet, "/portal/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs = nil
	decodeJSON(t, w, &docs)
	assert.Empty(t, docs)
}

// imageUploadBody builds a multipart body with an "image" file part and any
// extra form fields.
func imageUploadBody(t *testing.T, filename, contentType string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (e *testEnv) uploadImage(t *testing.T, email string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/portal/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Portal-Email", email)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// fakeImageHost mimics the external host's upload endpoint.
func fakeImageHost(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/upload", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"success":false,"error":{"message":"bad multipart"}}`)
			return
		}
		if _, err := base64.StdEncoding.DecodeString(r.FormValue("image")); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"success":false,"error":{"message":"image is not base64"}}`)
			return
		}
		name := r.FormValue("name")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"data":{"id":"img-%s","url":"https://host.example/%s","display_url":"https://host.example/d/%s","delete_url":"https://host.example/del/%s","thumb":{"url":"https://host.example/t/%s"},"medium":{"url":"https://host.example/m/%s"}}}`,
			name, name, name, name, name, name)
	}))
}

func TestUploadImageOversizeRejectedBeforeNetwork(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)

	// The image host points at an unroutable address; a 502 here would mean
	// the network call was attempted.
	payload := bytes.Repeat([]byte{0xAB}, 6<<20)
	body, contentType := imageUploadBody(t, "big.png", "image/png", payload, nil)
	w := env.uploadImage(t, "bob@x.com", body, contentType)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "5 MB")
}

func TestUploadImageWrongTypeRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)

	body, contentType := imageUploadBody(t, "notes.txt", "text/plain", []byte("hello"), nil)
	w := env.uploadImage(t, "bob@x.com", body, contentType)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image files")
}

func TestUploadFourthImageRejectedBeforeNetwork(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)
	for i := 0; i < models.MaxAccountImages; i++ {
		require.NoError(t, env.accounts.PushImage(t.Context(), id, testImageRef(fmt.Sprintf("img-%d", i))))
	}

	body, contentType := imageUploadBody(t, "extra.png", "image/png", []byte("png-bytes"), nil)
	w := env.uploadImage(t, "bob@x.com", body, contentType)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "limit")
}

func TestUploadImageStoresHostRef(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)

	srv := fakeImageHost(t)
	defer srv.Close()
	env.handler.Images.BaseURL = srv.URL

	body, contentType := imageUploadBody(t, "avatar.png", "image/png", []byte("png-bytes"), nil)
	w := env.uploadImage(t, "bob@x.com", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Image models.ImageRef `json:"image"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "img-avatar.png", resp.Image.ImageID)
	assert.Equal(t, "https://host.example/avatar.png", resp.Image.URL)
	assert.Equal(t, "avatar.png", resp.Image.Filename)
	assert.False(t, resp.Image.UploadedAt.IsZero())

	acc, err := env.accounts.GetByEmail(t.Context(), "bob@x.com")
	require.NoError(t, err)
	require.Len(t, acc.Images, 1)
	assert.Equal(t, "img-avatar.png", acc.Images[0].ImageID)
}

func TestUploadImageReplaceSwapsEntry(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)
	for i := 0; i < models.MaxAccountImages; i++ {
		require.NoError(t, env.accounts.PushImage(t.Context(), id, testImageRef(fmt.Sprintf("img-%d", i))))
	}

	srv := fakeImageHost(t)
	defer srv.Close()
	env.handler.Images.BaseURL = srv.URL

	// Replacing is allowed even at the cap; the old ref is pulled first.
	body, contentType := imageUploadBody(t, "new.png", "image/png", []byte("png-bytes"), map[string]string{"replace": "img-1"})
	w := env.uploadImage(t, "bob@x.com", body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	acc, err := env.accounts.GetByEmail(t.Context(), "bob@x.com")
	require.NoError(t, err)
	require.Len(t, acc.Images, models.MaxAccountImages)
	ids := make([]string, 0, len(acc.Images))
	for _, img := range acc.Images {
		ids = append(ids, img.ImageID)
	}
	assert.NotContains(t, ids, "img-1")
	assert.Contains(t, ids, "img-new.png")

	// Replacing an unknown id touches nothing.
	body, contentType = imageUploadBody(t, "x.png", "image/png", []byte("png-bytes"), map[string]string{"replace": "no-such-id"})
	w = env.uploadImage(t, "bob@x.com", body, contentType)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteImageByFullFieldMatch(t *testing.T) {
	env := newTestEnv(t)
	bobID := env.seedAccount(t, adminA, "bob", "bob@x.com", models.StatusApproved)
	amyID := env.seedAccount(t, adminA, "amy", "amy@y.com", models.StatusApproved)

	shared := testImageRef("shared")
	keep := testImageRef("keep")
	require.NoError(t, env.accounts.PushImage(t.Context(), bobID, shared))
	require.NoError(t, env.accounts.PushImage(t.Context(), bobID, keep))
	require.NoError(t, env.accounts.PushImage(t.Context(), amyID, shared))

	w := env.asPortal(t, "bob@x.com", http.MethodDelete, "/portal/images", shared)
	require.Equal(t, http.StatusOK, w.Code)

	bob, err := env.accounts.GetByEmail(t.Context(), "bob@x.com")
	require.NoError(t, err)
	require.Len(t, bob.Images, 1)
	assert.True(t, bob.Images[0].Equal(keep))

	// The byte-identical entry on the other account is untouched.
	amy, err := env.accounts.GetByEmail(t.Context(), "amy@y.com")
	require.NoError(t, err)
	require.Len(t, amy.Images, 1)
	assert.True(t, amy.Images[0].Equal(shared))

	// A near-match (one field differs) deletes nothing.
	almost := keep
	almost.Filename = "other.png"
	w = env.asPortal(t, "bob@x.com", http.MethodDelete, "/portal/images", almost)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func testImageRef(id string) models.ImageRef {
	return models.ImageRef{
		URL:        "https://host.example/" + id + ".png",
		DisplayURL: "https://host.example/d/" + id,
		ThumbURL:   "https://host.example/t/" + id,
		MediumURL:  "https://host.example/m/" + id,
		DeleteURL:  "https://host.example/del/" + id,
		ImageID:    id,
		UploadedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Filename:   id + ".png",
	}
}

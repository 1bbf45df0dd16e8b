package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kriedko/tastepulse/internal/domain"
)

func TestAdminSurfaceRejectsAnonymous(t *testing.T) {
	srv, _ := newTestServer(t)
	seedSubmission(t, srv, `{"overall": 5}`)

	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/submissions"},
		{http.MethodDelete, "/api/submissions?all=true"},
		{http.MethodPost, "/api/submissions"},
		{http.MethodGet, "/api/export"},
	}

	for _, tc := range cases {
		rec := doRequest(srv, jsonRequest(tc.method, tc.target, "{}"))
		assert.Equalf(t, 401, rec.Code, "%s %s", tc.method, tc.target)
	}

	// Nothing was deleted by the rejected requests.
	rec := doRequest(srv, adminRequest(http.MethodGet, "/api/submissions", ""))
	require.Equal(t, 200, rec.Code)
	var listing struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &listing)
	assert.Equal(t, 1, listing.Count)
}

func TestAdminSurfaceRejectsWrongHeaderToken(t *testing.T) {
	srv, _ := newTestServer(t)

	req := getRequest("/api/submissions")
	req.Header.Set(adminTokenHeader, "not-the-token")
	rec := doRequest(srv, req)
	assert.Equal(t, 401, rec.Code)
}

func TestHandleListSubmissions_NewestFirst(t *testing.T) {
	srv, _ := newTestServer(t)

	first := seedSubmission(t, srv, `{"overall": 1, "improvements": "terrible"}`)
	srv.clock.(*clockwork.FakeClock).Advance(time.Minute)
	second := seedSubmission(t, srv, `{"overall": 5, "favouriteItem": "amazing"}`)

	rec := doRequest(srv, adminRequest(http.MethodGet, "/api/submissions", ""))
	require.Equal(t, 200, rec.Code)

	var listing struct {
		Count     int                 `json:"count"`
		Feedbacks []domain.Submission `json:"feedbacks"`
	}
	decodeBody(t, rec, &listing)
	require.Equal(t, 2, listing.Count)
	assert.Equal(t, second.ID, listing.Feedbacks[0].ID)
	assert.Equal(t, first.ID, listing.Feedbacks[1].ID)
}

func TestHandleDeleteSubmissions_ByID(t *testing.T) {
	srv, _ := newTestServer(t)
	sub := seedSubmission(t, srv, `{"overall": 3}`)

	rec := doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions?id="+sub.ID, ""))
	assert.Equal(t, 200, rec.Code)

	rec = doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions?id="+sub.ID, ""))
	assert.Equal(t, 404, rec.Code)
}

func TestHandleDeleteSubmissions_All(t *testing.T) {
	srv, _ := newTestServer(t)
	seedSubmission(t, srv, `{"overall": 3}`)
	seedSubmission(t, srv, `{"overall": 4}`)

	rec := doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions?all=true", ""))
	require.Equal(t, 200, rec.Code)

	rec = doRequest(srv, adminRequest(http.MethodGet, "/api/submissions", ""))
	var listing struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &listing)
	assert.Equal(t, 0, listing.Count)
}

func TestHandleDeleteSubmissions_BadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions", ""))
	assert.Equal(t, 400, rec.Code)

	rec = doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions?id=x&all=true", ""))
	assert.Equal(t, 400, rec.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	seedSubmission(t, srv, `{"overall": 5, "favouriteItem": "amazing pho"}`)
	seedSubmission(t, srv, `{"overall": 2, "improvements": "cold food"}`)

	rec := doRequest(srv, adminRequest(http.MethodGet, "/api/export", ""))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	var file domain.ExportFile
	decodeBody(t, rec, &file)
	assert.Equal(t, domain.ExportFormatVersion, file.Version)
	require.Len(t, file.Feedbacks, 2)

	// Wipe and restore from the export.
	wipe := doRequest(srv, adminRequest(http.MethodDelete, "/api/submissions?all=true", ""))
	require.Equal(t, 200, wipe.Code)

	imp := doRequest(srv, adminRequest(http.MethodPost, "/api/submissions", rec.Body.String()))
	require.Equal(t, 200, imp.Code)

	var result struct {
		Imported int `json:"imported"`
	}
	decodeBody(t, imp, &result)
	assert.Equal(t, 2, result.Imported)

	// Sentiment survives the round trip without being recomputed.
	list := doRequest(srv, adminRequest(http.MethodGet, "/api/submissions", ""))
	var listing struct {
		Feedbacks []domain.Submission `json:"feedbacks"`
	}
	decodeBody(t, list, &listing)
	require.Len(t, listing.Feedbacks, 2)
	for i, restored := range listing.Feedbacks {
		assert.Equal(t, file.Feedbacks[i].ID, restored.ID)
		assert.Equal(t, file.Feedbacks[i].Sentiment, restored.Sentiment)
	}
}

func TestHandleImportSubmissions_UnsupportedVersion(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"version": "2.0", "feedbacks": []}`
	rec := doRequest(srv, adminRequest(http.MethodPost, "/api/submissions", body))
	assert.Equal(t, 400, rec.Code)
}

func TestHandleImportSubmissions_MissingFeedbacks(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, adminRequest(http.MethodPost, "/api/submissions", `{"version": "1.0"}`))
	assert.Equal(t, 400, rec.Code)
}

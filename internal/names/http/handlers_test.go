package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/names/service"
	"github.com/randomnamegen/namegen-backend/internal/names/upstream"
	"github.com/randomnamegen/namegen-backend/internal/names/usages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router      *gin.Engine
	btnCalls    int32
	namsorCalls int32
}

// newTestEnv wires the real service and clients against fake upstreams.
func newTestEnv(t *testing.T, btn http.HandlerFunc, namsor http.HandlerFunc, namsorKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{}

	btnServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&env.btnCalls, 1)
		btn(w, r)
	}))
	t.Cleanup(btnServer.Close)

	namsorServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&env.namsorCalls, 1)
		if namsor != nil {
			namsor(w, r)
		}
	}))
	t.Cleanup(namsorServer.Close)

	db := upstream.NewBehindTheNameClient(upstream.BehindTheNameOptions{
		BaseURL: btnServer.URL,
		APIKey:  "btn-key",
		Timeout: 2 * time.Second,
	})
	origin := upstream.NewNamsorClient(namsorServer.URL, namsorKey, 2*time.Second, nil)
	catalog, err := usages.Default()
	require.NoError(t, err)

	h, err := New(service.NewNameService(db, origin, 2, nil), catalog, nil)
	require.NoError(t, err)
	env.router = gin.New()
	h.Register(env.router.Group("/api"))
	return env
}

func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestGenerateNames_Success(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("number"))
		assert.Equal(t, "ger", r.URL.Query().Get("usage"))
		w.Write([]byte(`{"names":["Lukas","Jonas","Felix","Paul","Finn"]}`))
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{
		"gender": "m", "usage": "GER", "number": 5, "includeSurname": false,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp generateNamesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Names, 5)
	assert.Equal(t, "Lukas", resp.Names[0].Name)
	assert.Equal(t, "ger", resp.Names[0].Usage)
}

func TestGenerateNames_LegacySurnameFlag(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.URL.Query().Get("randomsurname"))
		w.Write([]byte(`{"names":["Marta","Nowak"]}`))
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{
		"gender": "", "usage": "pol", "number": 1, "randomsurname": true,
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGenerateNames_InvalidInputMakesNoUpstreamCall(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"names":["x"]}`))
	}, nil, "")

	cases := map[string]any{
		"bad gender":      map[string]any{"gender": "x", "usage": "eng", "number": 3},
		"missing usage":   map[string]any{"number": 3},
		"bad usage":       map[string]any{"usage": "en g!", "number": 3},
		"zero number":     map[string]any{"usage": "eng", "number": 0},
		"number too high": map[string]any{"usage": "eng", "number": 11},
		"number string":   map[string]any{"usage": "eng", "number": "3"},
		"not json":        "{usage:",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := env.post(t, "/api/generate-names", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, msgInvalidRequest, decodeError(t, rr))
		})
	}
	assert.Zero(t, atomic.LoadInt32(&env.btnCalls))
}

func TestGenerateNames_UpstreamErrorPayload(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":40,"error":"Invalid usage"}`))
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{"usage": "zzz", "number": 2})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid usage", decodeError(t, rr))
}

func TestGenerateNames_EmptyResult(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"names":[]}`))
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{"usage": "eng", "number": 2})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgNoNames, decodeError(t, rr))
}

func TestGenerateNames_UpstreamBroken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{"usage": "eng", "number": 2})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, msgGenerateFailed, decodeError(t, rr))
}

func TestGenerateNames_IncludeDetails(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/random.json":
			w.Write([]byte(`{"names":["Sofia"]}`))
		case "/lookup.json":
			w.Write([]byte(`[{"name":"Sofia","gender":"f","meaning":"wisdom"}]`))
		}
	}, nil, "")

	rr := env.post(t, "/api/generate-names", map[string]any{"usage": "spa", "number": 1, "includeDetails": true})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp generateNamesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Names, 1)
	assert.Equal(t, "wisdom", resp.Names[0].Meaning)
	assert.Equal(t, "f", resp.Names[0].Gender)
}

func TestLookupName_Found(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no", r.URL.Query().Get("exact"))
		w.Write([]byte(`[{"name":"Oskar","gender":"m","usages":[{"usage_code":"swe","usage_full":"Swedish","usage_gender":"m"}]}]`))
	}, nil, "")

	rr := env.post(t, "/api/lookup-name", map[string]any{"name": "Oskar"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp domain.NameData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Oskar", resp.Name)
	assert.Equal(t, "m", resp.Gender)
	assert.Equal(t, "Swedish", resp.Usage)
}

func TestLookupName_Unknown(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":50,"error":"Name could not be found"}`))
	}, nil, "")

	rr := env.post(t, "/api/lookup-name", map[string]any{"name": "Qwzx", "exact": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, msgNameNotFound, decodeError(t, rr))
}

func TestLookupName_OutageIsServerError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Service temporarily unavailable"}`))
	}, nil, "")

	rr := env.post(t, "/api/lookup-name", map[string]any{"name": "Anna"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, msgLookupFailed, decodeError(t, rr))
}

func TestLookupName_BlankName(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, nil, "")

	rr := env.post(t, "/api/lookup-name", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, atomic.LoadInt32(&env.btnCalls))
}

func TestRelatedNames_EmptyIsNotAnError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"names":[]}`))
	}, nil, "")

	rr := env.post(t, "/api/related-names", map[string]any{"name": "Xanthe", "usage": "eng", "gender": "f"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"relatedNames":[]}`, rr.Body.String())
}

func TestRelatedNames_NoRelationsPayload(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":50,"error":"No related names found"}`))
	}, nil, "")

	rr := env.post(t, "/api/related-names", map[string]any{"name": "Xanthe"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"relatedNames":[]}`, rr.Body.String())
}

func TestRelatedNames_List(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"names":["Johann","Hans","Jan"]}`))
	}, nil, "")

	rr := env.post(t, "/api/related-names", map[string]any{"name": "John"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp relatedNamesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Johann", "Hans", "Jan"}, resp.RelatedNames)
}

func TestRelatedNames_UpstreamRejects(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":51,"error":"Invalid gender"}`))
	}, nil, "")

	rr := env.post(t, "/api/related-names", map[string]any{"name": "John"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid gender", decodeError(t, rr))
}

func TestNameOrigin_MissingKeyIsServerError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, nil, "")

	for _, body := range []any{
		map[string]any{"firstName": "Anna", "lastName": "Nowak"},
		map[string]any{},
		"garbage",
	} {
		rr := env.post(t, "/api/name-origin", body)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, msgOriginNotSet, decodeError(t, rr))
	}
	assert.Zero(t, atomic.LoadInt32(&env.namsorCalls))
}

func TestNameOrigin_Success(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"personalNames":[{"countryOrigin":"NL","regionOrigin":"Europe","subRegionOrigin":"Western Europe","probabilityCalibrated":0.7,"score":3.5}]}`))
	}, "namsor-key")

	rr := env.post(t, "/api/name-origin", map[string]any{"firstName": "Daan", "lastName": "de Vries"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp domain.OriginResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "NL", resp.CountryOrigin)
	assert.Empty(t, resp.CountryOriginAlt)
	assert.Equal(t, "Western Europe", resp.SubRegionOrigin)
	assert.InDelta(t, 0.7, resp.ProbabilityCalibrated, 1e-9)
}

func TestNameOrigin_NeedsAName(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, nil, "namsor-key")

	rr := env.post(t, "/api/name-origin", map[string]any{"firstName": " ", "lastName": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, atomic.LoadInt32(&env.namsorCalls))
}

func TestNameOrigin_NoResult(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"personalNames":[]}`))
	}, "namsor-key")

	rr := env.post(t, "/api/name-origin", map[string]any{"lastName": "Zzz"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNameOrigin_UpstreamRejects(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, "namsor-key")

	rr := env.post(t, "/api/name-origin", map[string]any{"firstName": "Anna"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListUsages(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, nil, "")

	req, err := http.NewRequest(http.MethodGet, "/api/usages", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp usagesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Usages, 13)
	assert.Equal(t, domain.Usage{Code: "eng", Label: "English"}, resp.Usages[0])
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/amigo-secreto-api/internal/auth"
	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/draw"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/services"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode, PublicURL: "https://amigo.example.com"},
		CORS:   config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET", "POST"}, AllowHeaders: []string{"Authorization"}},
	}
	container := memory.NewContainer()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := services.NewGroupService(container.Groups(), tokens, report.NewMemoryStore(time.Hour), draw.DefaultOptions(), cfg.Server.PublicURL)

	return &api{t: t, router: New(cfg, svc, tokens, container).Router()}
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type createdGroup struct {
	Group struct {
		ID           string `json:"id"`
		Participants []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"participants"`
	} `json:"group"`
	Token string `json:"token"`
}

func (a *api) createGroup(names ...string) createdGroup {
	a.t.Helper()

	participants := make([]map[string]string, len(names))
	for i, name := range names {
		participants[i] = map[string]string{"name": name}
	}

	w, env := a.do(http.MethodPost, "/api/groups", "", map[string]any{"name": "Natal", "participants": participants})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var created createdGroup
	require.NoError(a.t, json.Unmarshal(env.Data, &created))
	return created
}

func TestPing(t *testing.T) {
	a := newAPI(t)

	w, _ := a.do(http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGroupRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	g := a.createGroup("Ana", "Bia", "Caio")
	other := a.createGroup("Duda")

	w, _ := a.do(http.MethodGet, "/api/groups/"+g.Group.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = a.do(http.MethodGet, "/api/groups/"+g.Group.ID, other.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := a.do(http.MethodGet, "/api/groups/"+g.Group.ID, g.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestDrawFlow(t *testing.T) {
	a := newAPI(t)
	g := a.createGroup("Ana", "Bia", "Caio", "Duda")
	base := "/api/groups/" + g.Group.ID

	w, env := a.do(http.MethodGet, base+"/validation", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"is_valid":true`)

	w, _ = a.do(http.MethodGet, base+"/cycles", g.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "no draw yet")

	w, env = a.do(http.MethodPost, base+"/draw", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var drawn struct {
		Mode   string `json:"mode"`
		Cycles []struct {
			Line string `json:"line"`
		} `json:"cycles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &drawn))
	assert.Equal(t, "circular", drawn.Mode)
	require.Len(t, drawn.Cycles, 1)

	w, env = a.do(http.MethodGet, base+"/links", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var links []struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &links))
	require.Len(t, links, 4)

	parsed, err := url.Parse(links[0].Link)
	require.NoError(t, err)
	w, env = a.do(http.MethodGet, "/api/reveal?"+parsed.RawQuery, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"giver":"Ana"`)

	w, _ = a.do(http.MethodGet, base+"/report", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "amigo-secreto-")
	assert.Contains(t, w.Body.String(), "Giver,Receiver")

	w, env = a.do(http.MethodPost, base+"/report/export", g.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "memory://amigo-secreto-")
}

func TestDrawErrors(t *testing.T) {
	a := newAPI(t)

	small := a.createGroup("Ana", "Bia")
	w, env := a.do(http.MethodPost, "/api/groups/"+small.Group.ID+"/draw", small.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(env.Data), `"code":"too_few_participants"`)

	g := a.createGroup("A", "B", "C", "D")
	ids := map[string]string{}
	for _, p := range g.Group.Participants {
		ids[p.Name] = p.ID
	}
	base := "/api/groups/" + g.Group.ID
	for _, giver := range []string{"A", "B"} {
		w, _ = a.do(http.MethodPut, fmt.Sprintf("%s/participants/%s/blacklist", base, ids[giver]), g.Token,
			map[string]any{"blacklist": []string{ids["C"], ids["D"]}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env = a.do(http.MethodPost, base+"/draw", g.Token, map[string]any{"relaxed": false})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Error, "A and B")
	assert.Contains(t, string(env.Data), `"can_relax":true`)

	w, env = a.do(http.MethodPost, base+"/draw", g.Token, map[string]any{"relaxed": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"mode":"multi_cycle"`)
}

func TestParticipantRoutes(t *testing.T) {
	a := newAPI(t)
	g := a.createGroup("Ana")
	base := "/api/groups/" + g.Group.ID

	w, env := a.do(http.MethodPost, base+"/participants", g.Token, map[string]string{"name": "Bia", "phone": "+55 11 98765-4321"})
	require.Equal(t, http.StatusCreated, w.Code)
	var bia struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bia))

	w, _ = a.do(http.MethodPost, base+"/participants", g.Token, map[string]string{"name": "bia"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodPost, base+"/participants", g.Token, map[string]string{"phone": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPut, base+"/participants/"+bia.ID+"/blacklist", g.Token, map[string]any{"blacklist": []string{bia.ID}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodDelete, base+"/participants/"+bia.ID, g.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodDelete, base+"/participants/"+bia.ID, g.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodDelete, base, g.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, base, g.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevealRejectsBrokenLink(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(http.MethodGet, "/api/reveal?u=QW5h&f=", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestDrawSearchExhaustedIsServiceUnavailable(t *testing.T) {
	a := newAPI(t)
	// two triangles sharing A: strongly connected but with no single circle
	g := a.createGroup("A", "B", "C", "D", "E")
	ids := map[string]string{}
	for _, p := range g.Group.Participants {
		ids[p.Name] = p.ID
	}
	base := "/api/groups/" + g.Group.ID

	blacklists := map[string][]string{
		"B": {ids["D"], ids["E"]},
		"C": {ids["D"], ids["E"]},
		"D": {ids["B"], ids["C"]},
		"E": {ids["B"], ids["C"]},
	}
	for giver, excluded := range blacklists {
		w, _ := a.do(http.MethodPut, fmt.Sprintf("%s/participants/%s/blacklist", base, ids[giver]), g.Token,
			map[string]any{"blacklist": excluded})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env := a.do(http.MethodPost, base+"/draw", g.Token, map[string]any{"relaxed": false})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, env.Error, "try again")

	w, env = a.do(http.MethodPost, base+"/draw", g.Token, map[string]any{"relaxed": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"mode":"multi_cycle"`)
}

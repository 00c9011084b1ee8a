package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"cosmos-mcp/internal/config"
	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend serves a COSMOS JSON-RPC endpoint that answers get_target_names
// and records the Authorization header it saw.
func newBackend(t *testing.T) (config.Endpoint, *string) {
	t.Helper()
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token = r.Header.Get("Authorization")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "get_target_names":
			resp["result"] = []any{"INST", "EXAMPLE"}
		default:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return config.Endpoint{Schema: "http", Hostname: u.Hostname(), Port: port}, &token
}

func testGatewayConfig(api config.Endpoint) *config.Config {
	c := config.GetDefaultConfig()
	c.Backend.API = api
	c.Auth.Password = "secret"
	c.Server.Port = 0
	return &c
}

func TestNewAuth(t *testing.T) {
	password := NewAuth(config.AuthConfig{Mode: config.AuthModePassword, Password: "pw"}, nil)
	assert.Equal(t, cosmos.PasswordAuth{Password: "pw"}, password)

	keycloak := NewAuth(config.AuthConfig{KeycloakURL: "https://kc.example/auth", Realm: "openc3", User: "admin"}, nil)
	assert.IsType(t, &cosmos.KeycloakAuth{}, keycloak)
}

func TestNewPipeline_UsesPrefixAndDenylist(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	p := NewPipeline(config.GatewayConfig{Prefix: "c3_", ExtraDenied: []string{"get_target_names"}}, nil, fixed)

	reg, report, err := p.Run(cosmos.ScriptNamespace(nil, ""))
	require.NoError(t, err)

	_, err = reg.Lookup("c3_cmd")
	assert.NoError(t, err)
	_, err = reg.Lookup("ping")
	assert.NoError(t, err, "built-ins are not prefixed")
	_, err = reg.Lookup("c3_get_target_names")
	assert.True(t, gateway.IsNotFound(err))
	assert.Contains(t, report.Excluded[gateway.ReasonDenylisted], "get_target_names")
}

func TestInitializeServices(t *testing.T) {
	api, token := newBackend(t)
	cfg := &Config{Version: "1.2.3", Gateway: testGatewayConfig(api)}

	services, err := InitializeServices(cfg)
	require.NoError(t, err)
	require.NotNil(t, services.Metrics)
	require.NotNil(t, services.Server)
	assert.True(t, services.Registry.Sealed())
	assert.Equal(t, api.Hostname, mustHost(t, services.Client.Endpoint()))

	res := services.Gateway.Call(context.Background(), gateway.CallRequest{Name: "openc3_get_target_names"})
	assert.Equal(t, "[\n  \"INST\",\n  \"EXAMPLE\"\n]", res.Text)
	assert.Equal(t, "secret", *token)

	rec := httptest.NewRecorder()
	services.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), "cosmos_mcp_tool_calls")
	require.NoError(t, services.Metrics.Shutdown(context.Background()))
}

func TestInitializeServices_MetricsDisabled(t *testing.T) {
	api, _ := newBackend(t)
	gc := testGatewayConfig(api)
	gc.Metrics.Enabled = false

	services, err := InitializeServices(&Config{Gateway: gc})
	require.NoError(t, err)
	assert.Nil(t, services.Metrics)

	rec := httptest.NewRecorder()
	services.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitializeServices_BadTemplate(t *testing.T) {
	api, _ := newBackend(t)
	gc := testGatewayConfig(api)
	gc.Metrics.Enabled = false
	gc.Gateway.SuccessTemplate = "{{ .Tool"

	_, err := InitializeServices(&Config{Gateway: gc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid success template")
}

func TestInitializeServices_RequiresConfig(t *testing.T) {
	_, err := InitializeServices(&Config{})
	assert.Error(t, err)
}

func mustHost(t *testing.T, endpoint string) string {
	t.Helper()
	u, err := url.Parse(endpoint)
	require.NoError(t, err)
	return u.Hostname()
}

package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/lottopool/poold/internal/core/application"
	"github.com/lottopool/poold/internal/core/ports"
	"github.com/lottopool/poold/internal/infrastructure/db"
	inmemoryengine "github.com/lottopool/poold/internal/infrastructure/engine/inmemory"
	inmemorytoken "github.com/lottopool/poold/internal/infrastructure/token/inmemory"
	"github.com/lottopool/poold/internal/interface/web"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type testServer struct {
	router *mux.Router
	engine inmemoryengine.Engine
	token  ports.TokenService
}

func newTestServer(t *testing.T) *testServer {
	token := inmemorytoken.NewService()
	engine, err := inmemoryengine.NewEngine("engine-test", 10_000, 500, 0, token)
	require.NoError(t, err)

	repos, err := db.NewService(db.ServiceConfig{
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)
	t.Cleanup(repos.Close)

	svc, err := application.NewService(engine, token, repos, nil, 0)
	require.NoError(t, err)

	router := mux.NewRouter()
	web.NewPoolsHandler(svc).Mount(router, "/v1/pools")

	return &testServer{router: router, engine: engine, token: token}
}

func (s *testServer) do(
	t *testing.T, method, path string, body interface{},
) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

func TestPoolLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodPost, "/v1/pools", map[string]string{
		"creator": "creator", "salt": "web",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var pool map[string]interface{}
	srv.decode(t, rr, &pool)
	addr, ok := pool["address"].(string)
	require.True(t, ok)
	require.NotEmpty(t, addr)

	// same (creator, salt) again conflicts
	rr = srv.do(t, http.MethodPost, "/v1/pools", map[string]string{
		"creator": "creator", "salt": "web",
	})
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = srv.do(t, http.MethodGet, "/v1/pools/"+addr, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	srv.decode(t, rr, &pool)
	require.Equal(t, "0", pool["engineStake"])

	rr = srv.do(t, http.MethodGet, "/v1/pools/pool1unknown", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePoolValidation(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodPost, "/v1/pools", map[string]string{"salt": "x"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(t, http.MethodPost, "/v1/pools", map[string]string{"bogus": "field"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestContributeValidation(t *testing.T) {
	srv := newTestServer(t)
	addr := srv.createPool(t)

	rr := srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/contributions", map[string]string{
		"contributor": "alice", "amount": "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/contributions", map[string]string{
		"amount": "10000",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// not a multiple of the unit price
	rr = srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/contributions", map[string]string{
		"contributor": "alice", "amount": "10001",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestContributeCaptureAndClaim(t *testing.T) {
	const prize = uint64(1_000_001)

	srv := newTestServer(t)
	addr := srv.createPool(t)

	srv.fundAndApprove(t, "alice", addr, 10_000)
	rr := srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/contributions", map[string]string{
		"contributor": "alice", "amount": "10000",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var contributed map[string]string
	srv.decode(t, rr, &contributed)
	require.Equal(t, "9500", contributed["stake"])

	require.NoError(t, srv.engine.AwardPrize(addr, prize))
	srv.engine.AdvanceRound()

	rr = srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/captures", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var captured map[string]string
	srv.decode(t, rr, &captured)
	require.Equal(t, "1000001", captured["captured"])

	rr = srv.do(t, http.MethodGet, "/v1/pools/"+addr+"/captures", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var captures []map[string]interface{}
	srv.decode(t, rr, &captures)
	require.Len(t, captures, 1)

	path := "/v1/pools/" + addr + "/participants/alice/claimable"
	rr = srv.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var claimable map[string]string
	srv.decode(t, rr, &claimable)
	require.Equal(t, "1000001", claimable["claimable"])

	rr = srv.do(t, http.MethodPost, "/v1/pools/"+addr+"/claims", map[string]string{
		"participant": "alice",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var claimed map[string]string
	srv.decode(t, rr, &claimed)
	require.Equal(t, "1000001", claimed["paid"])

	path = "/v1/pools/" + addr + "/participants/alice/payouts"
	rr = srv.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var payouts []map[string]interface{}
	srv.decode(t, rr, &payouts)
	require.Len(t, payouts, 1)
	require.Equal(t, "1000001", payouts[0]["paid"])
}

func (s *testServer) createPool(t *testing.T) string {
	rr := s.do(t, http.MethodPost, "/v1/pools", map[string]string{
		"creator": "creator", "salt": "web",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var pool map[string]interface{}
	s.decode(t, rr, &pool)
	return pool["address"].(string)
}

func (s *testServer) fundAndApprove(t *testing.T, account, poolAddr string, amount uint64) {
	minter, ok := s.token.(inmemorytoken.Minter)
	require.True(t, ok)
	minter.Mint(account, amount)
	require.NoError(t, s.token.Approve(ctx, account, poolAddr, amount))
}

package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/basin-network/basin/fsm"
	"github.com/basin-network/basin/lib"
	"github.com/basin-network/basin/store"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewServer(fsm.New(lib.DefaultConfig(), db, nil, log), lib.DefaultConfig(), log)
	return s, createRouter(s)
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	bz, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(bz)))
	return w
}

func TestSubmitAndQuery(t *testing.T) {
	_, router := newTestServer(t)
	owner := bytes.Repeat([]byte{0xaa}, 20)
	tokenX, tokenY := bytes.Repeat([]byte{2}, 20), bytes.Repeat([]byte{1}, 20)
	pairAddress := fsm.PairAddress(tokenX, tokenY).Bytes()
	// initialize, create, configure through the operation endpoints
	w := post(t, router, TxInitializeRoutePath, &fsm.MessageInitializeRegistry{Owner: owner})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = post(t, router, TxCreatePairRoutePath, &fsm.MessageCreatePair{Signer: owner, TokenX: tokenX, TokenY: tokenY})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = post(t, router, TxConfigurePairRoutePath, &fsm.MessageConfigurePair{
		Signer:    owner,
		TokenX:    tokenX,
		TokenY:    tokenY,
		CustodyX:  fsm.ReserveAccountAddress(pairAddress, tokenX).Bytes(),
		CustodyY:  fsm.ReserveAccountAddress(pairAddress, tokenY).Bytes(),
		ShareMint: fsm.ShareMintAddress(pairAddress).Bytes(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// the pair query reflects the configuration
	w = post(t, router, PairRoutePath, &pairRequest{TokenX: tokenX, TokenY: tokenY})
	require.Equal(t, http.StatusOK, w.Code)
	pair := new(fsm.Pair)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), pair))
	require.Equal(t, fsm.PairStateConfigured, pair.State)
	require.Equal(t, lib.HexBytes(pairAddress), pair.Address)
	// the registry query reflects the bumped counter
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, RegistryRoutePath, nil))
	require.Equal(t, http.StatusOK, w.Code)
	registry := new(fsm.Registry)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), registry))
	require.EqualValues(t, 1, registry.PairCount)
}

func TestSubmitRejectsCodedErrors(t *testing.T) {
	_, router := newTestServer(t)
	owner := bytes.Repeat([]byte{0xaa}, 20)
	// identical assets fail the stateless check with a 400 and the coded error body
	w := post(t, router, TxCreatePairRoutePath, &fsm.MessageCreatePair{
		Signer: owner,
		TokenX: bytes.Repeat([]byte{1}, 20),
		TokenY: bytes.Repeat([]byte{1}, 20),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	coded := new(lib.Error)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), coded))
	require.Equal(t, lib.CodeIdenticalAssets, coded.Code())
}

func TestQueryInvalidBody(t *testing.T) {
	_, router := newTestServer(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, PairRoutePath, bytes.NewReader([]byte("{"))))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

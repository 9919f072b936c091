package rpc

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/alecthomas/units"
	"github.com/basin-network/basin/fsm"
	"github.com/basin-network/basin/lib"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"
)

// Basin RPC paths
const (
	VersionRoutePath  = "/v1/"
	RegistryRoutePath = "/v1/query/registry"
	PairRoutePath     = "/v1/query/pair"
	PairsRoutePath    = "/v1/query/pairs"
	BalanceRoutePath  = "/v1/query/balance"
	PriceRoutePath    = "/v1/query/price"
	// operations
	TxInitializeRoutePath      = "/v1/tx/initialize-registry"
	TxSetProtocolFeeRoutePath  = "/v1/tx/set-protocol-fee"
	TxCreatePairRoutePath      = "/v1/tx/create-pair"
	TxConfigurePairRoutePath   = "/v1/tx/configure-pair"
	TxAddLiquidityRoutePath    = "/v1/tx/add-liquidity"
	TxRemoveLiquidityRoutePath = "/v1/tx/remove-liquidity"
	TxSwapRoutePath            = "/v1/tx/swap"
)

// Server exposes the exchange state and operations over HTTP.
// A single mutex serializes every state access: no two operations on the same pair may
// interleave at sub-operation granularity, and the registry needs a single writer.
type Server struct {
	sm     *fsm.StateMachine
	mux    sync.Mutex
	config lib.Config
	log    lib.LoggerI
}

// NewServer() constructs and returns a new basin RPC server
func NewServer(sm *fsm.StateMachine, config lib.Config, log lib.LoggerI) *Server {
	return &Server{sm: sm, config: config, log: log}
}

// Start() serves the RPC API on the configured port
func (s *Server) Start() {
	go s.startRPC(createRouter(s), s.config.RPCPort)
}

// startRPC() starts an RPC server with the provided router and port
func (s *Server) startRPC(router *httprouter.Router, port string) {
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{s.config.CORSOrigin},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})
	timeout := time.Duration(s.config.TimeoutS) * time.Second
	s.log.Infof("Starting RPC server at 0.0.0.0:%s", port)
	s.log.Fatal((&http.Server{
		Addr:    colon + port,
		Handler: cor.Handler(http.TimeoutHandler(router, timeout, ErrServerTimeout().Error())),
	}).ListenAndServe().Error())
}

// createRouter() binds the query and operation paths
func createRouter(s *Server) *httprouter.Router {
	router := httprouter.New()
	router.GET(VersionRoutePath, s.Version)
	router.GET(RegistryRoutePath, s.Registry)
	router.POST(PairRoutePath, s.Pair)
	router.GET(PairsRoutePath, s.Pairs)
	router.POST(BalanceRoutePath, s.Balance)
	router.POST(PriceRoutePath, s.Price)
	router.POST(TxInitializeRoutePath, submit[fsm.MessageInitializeRegistry](s))
	router.POST(TxSetProtocolFeeRoutePath, submit[fsm.MessageSetProtocolFee](s))
	router.POST(TxCreatePairRoutePath, submit[fsm.MessageCreatePair](s))
	router.POST(TxConfigurePairRoutePath, submit[fsm.MessageConfigurePair](s))
	router.POST(TxAddLiquidityRoutePath, submit[fsm.MessageAddLiquidity](s))
	router.POST(TxRemoveLiquidityRoutePath, submit[fsm.MessageRemoveLiquidity](s))
	router.POST(TxSwapRoutePath, submit[fsm.MessageSwap](s))
	return router
}

// submit() builds an operation handler for one message type: decode, apply, commit
func submit[M any, PM interface {
	*M
	lib.MessageI
}](s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		msg := PM(new(M))
		if ok := unmarshal(w, r, msg); !ok {
			return
		}
		s.mux.Lock()
		defer s.mux.Unlock()
		if err := s.sm.ApplyMessage(msg); err != nil {
			write(w, err, http.StatusBadRequest)
			return
		}
		if err := s.sm.Commit(); err != nil {
			write(w, err, http.StatusInternalServerError)
			return
		}
		write(w, txResult{Name: msg.Name(), OK: true}, http.StatusOK)
	}
}

type txResult struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// readState() runs a query callback under the state mutex
func (s *Server) readState(w http.ResponseWriter, callback func(sm *fsm.StateMachine) (any, lib.ErrorI)) {
	s.mux.Lock()
	result, err := callback(s.sm)
	s.mux.Unlock()
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// unmarshal() decodes a JSON request body, writing the coded error on failure
func unmarshal(w http.ResponseWriter, r *http.Request, ptr any) bool {
	bz, err := io.ReadAll(io.LimitReader(r.Body, int64(units.MB)))
	if err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	return true
}

// write() encodes a response payload as indented JSON
func write(w http.ResponseWriter, payload any, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)
	bz, _ := lib.MarshalJSONIndent(payload)
	if _, err := w.Write(bz); err != nil {
		return
	}
}

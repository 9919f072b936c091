package rpc

import (
	"net/http"

	"github.com/basin-network/basin/fsm"
	"github.com/basin-network/basin/lib"
	"github.com/julienschmidt/httprouter"
)

// Version writes the software version
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// Registry responds with the exchange registry singleton
func (s *Server) Registry(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.readState(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.GetRegistry()
	})
}

// pairRequest addresses a pair by its unordered asset pair
type pairRequest struct {
	TokenX lib.HexBytes `json:"tokenX"`
	TokenY lib.HexBytes `json:"tokenY"`
}

// Pair responds with the pair record for an unordered asset pair
func (s *Server) Pair(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(pairRequest)
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	s.readState(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.GetPairForAssets(req.TokenX, req.TokenY)
	})
}

// Pairs responds with every pair record
func (s *Server) Pairs(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.readState(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		return sm.GetPairs()
	})
}

// balanceRequest addresses the custody balance of one holder for one asset
type balanceRequest struct {
	Asset   lib.HexBytes `json:"asset"`
	Address lib.HexBytes `json:"address"`
}

// Balance responds with the custodied amount of an asset held by an address
func (s *Server) Balance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(balanceRequest)
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	s.readState(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		amount, err := sm.GetBalance(req.Asset, req.Address)
		if err != nil {
			return nil, err
		}
		return &balanceResponse{Asset: req.Asset, Address: req.Address, Amount: amount}, nil
	})
}

type balanceResponse struct {
	Asset   lib.HexBytes `json:"asset"`
	Address lib.HexBytes `json:"address"`
	Amount  uint64       `json:"amount"`
}

// priceResponse reports both fixed-point spot prices of a pool
type priceResponse struct {
	Pair   lib.HexBytes `json:"pair"`
	PriceA uint64       `json:"priceA"` // token B per token A, scaled by fsm.PriceScale
	PriceB uint64       `json:"priceB"` // token A per token B, scaled by fsm.PriceScale
	Scale  uint64       `json:"scale"`
}

// Price responds with the spot prices of a configured pair
func (s *Server) Price(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(pairRequest)
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	s.readState(w, func(sm *fsm.StateMachine) (any, lib.ErrorI) {
		pair, err := sm.GetPairForAssets(req.TokenX, req.TokenY)
		if err != nil {
			return nil, err
		}
		priceA, priceB, err := pair.SpotPrices()
		if err != nil {
			return nil, err
		}
		return &priceResponse{Pair: pair.Address, PriceA: priceA, PriceB: priceB, Scale: fsm.PriceScale}, nil
	})
}

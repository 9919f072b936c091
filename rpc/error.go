package rpc

import (
	"fmt"

	"github.com/basin-network/basin/lib"
)

// This file defines error objects for the RPC module

func ErrServerTimeout() lib.ErrorI {
	return lib.NewError(lib.CodeRPCServer, lib.RPCModule, "server timeout")
}

func ErrInvalidParams(err error) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidParams, lib.RPCModule, fmt.Sprintf("invalid params: %s", err.Error()))
}

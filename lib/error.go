package lib

import (
	"fmt"
)

// ErrorI is the coded error type used across every module. Each error carries
// a numeric code scoped to the module that produced it so callers can react
// programmatically instead of string matching.
type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	// Lib Module
	LibModule ErrorModule = "lib"

	// Lib Module Error Codes
	CodeJSONMarshal     ErrorCode = 1
	CodeJSONUnmarshal   ErrorCode = 2
	CodeStringToBytes   ErrorCode = 3
	CodeWriteFile       ErrorCode = 4
	CodeReadFile        ErrorCode = 5
	CodeInvalidAddress  ErrorCode = 6
	CodeMathOverflow    ErrorCode = 7
	CodeMathUnderflow   ErrorCode = 8
	CodeDivideByZero    ErrorCode = 9
	CodeAmountOverflow  ErrorCode = 10
	CodeEmptyEvents     ErrorCode = 11
	CodeInvalidLogLevel ErrorCode = 12
	CodeInvalidLogSize  ErrorCode = 13
	CodePanic           ErrorCode = 14

	// State Machine Module
	StateMachineModule ErrorModule = "state_machine"

	// State Machine Module Error Codes
	CodeUnauthorized                ErrorCode = 1
	CodeRegistryExists              ErrorCode = 2
	CodeRegistryNotExists           ErrorCode = 3
	CodeIdenticalAssets             ErrorCode = 4
	CodePairExists                  ErrorCode = 5
	CodePairNotExists               ErrorCode = 6
	CodeAlreadyConfigured           ErrorCode = 7
	CodeNotConfigured               ErrorCode = 8
	CodeInvalidAsset                ErrorCode = 9
	CodeInvalidCustodyReference     ErrorCode = 10
	CodeInvalidShareMint            ErrorCode = 11
	CodeInsufficientAmount          ErrorCode = 12
	CodeInsufficientLiquidityMinted ErrorCode = 13
	CodeInsufficientOutputAmount    ErrorCode = 14
	CodeInsufficientLiquidity       ErrorCode = 15
	CodeInvariantViolated           ErrorCode = 16
	CodeInsufficientFunds           ErrorCode = 17
	CodeInvalidKey                  ErrorCode = 18
	CodeWrongStoreType              ErrorCode = 19
	CodeUnknownMessage              ErrorCode = 20
	CodeAddressEmpty                ErrorCode = 21
	CodeAddressSize                 ErrorCode = 22
	CodeInvalidAmount               ErrorCode = 23

	// Store Module
	StoreModule ErrorModule = "store"

	// Store Module Error Codes
	CodeOpenDB       ErrorCode = 1
	CodeCloseDB      ErrorCode = 2
	CodeStoreSet     ErrorCode = 3
	CodeStoreGet     ErrorCode = 4
	CodeStoreDelete  ErrorCode = 5
	CodeStoreIter    ErrorCode = 6
	CodeCommitDB     ErrorCode = 7
	CodeNestedTxn    ErrorCode = 8
	CodeMaxKeyLength ErrorCode = 9

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeRPCServer     ErrorCode = 1
	CodeInvalidParams ErrorCode = 2
)

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, LibModule, fmt.Sprintf("json marshal failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, LibModule, fmt.Sprintf("json unmarshal failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, LibModule, fmt.Sprintf("hex decode failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, LibModule, fmt.Sprintf("write file failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, LibModule, fmt.Sprintf("read file failed with err: %s", err.Error()))
}

func ErrMathOverflow() ErrorI {
	return NewError(CodeMathOverflow, LibModule, "arithmetic overflow")
}

func ErrMathUnderflow() ErrorI {
	return NewError(CodeMathUnderflow, LibModule, "arithmetic underflow")
}

func ErrDivideByZero() ErrorI {
	return NewError(CodeDivideByZero, LibModule, "division by zero")
}

func ErrAmountOverflow() ErrorI {
	return NewError(CodeAmountOverflow, LibModule, "amount exceeds the 64 bit range")
}

func ErrEmptyEventsTracker() ErrorI {
	return NewError(CodeEmptyEvents, LibModule, "events tracker is empty")
}

func ErrInvalidLogLevel(level string) ErrorI {
	return NewError(CodeInvalidLogLevel, LibModule, fmt.Sprintf("log level %s is invalid", level))
}

func ErrPanic() ErrorI {
	return NewError(CodePanic, LibModule, "panic")
}

func ErrInvalidValueLogSize(err error) ErrorI {
	return NewError(CodeInvalidLogSize, LibModule, "invalid value log size: "+err.Error())
}

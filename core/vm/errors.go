package vm

import "errors"

var (
	ErrEmptyGroup         = errors.New("vm: empty transaction group")
	ErrGroupTooLarge      = errors.New("vm: transaction group too large")
	ErrUnknownApplication = errors.New("vm: unknown application")
	ErrUnknownProgram     = errors.New("vm: unknown program")
	ErrProgramRegistered  = errors.New("vm: program already registered")
	ErrInsufficientFunds  = errors.New("vm: insufficient funds")
	ErrInsufficientAsset  = errors.New("vm: insufficient asset balance")
	ErrTooManyAccounts    = errors.New("vm: foreign account list too long")
	ErrUnsupportedTxType  = errors.New("vm: unsupported transaction type")
	ErrCreationCompletion = errors.New("vm: creation call must be a plain NoOp")
	ErrZeroSender         = errors.New("vm: transaction sender not set")
)

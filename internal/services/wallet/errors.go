package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidType    = errors.New("invalid wallet type")
	ErrNotOwner       = errors.New("only the wallet owner may do this")
	ErrMemberExists   = errors.New("user is already a member of this wallet")
	ErrNotJoint       = errors.New("members can only be added to joint wallets")
)

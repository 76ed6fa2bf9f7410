package domain

// Identity is the resolved caller of an operation. A nil *Identity means the
// caller is not authenticated.
type Identity struct {
	AccountID int64 `json:"account_id"`
	Role      Role  `json:"role"`
}

// Is reports whether the identity belongs to the given account.
func (i *Identity) Is(accountID int64) bool {
	return i != nil && i.AccountID == accountID
}

package cqe

import (
	"strings"

	"segment-service/pkg/errno"
)

// GrantCreditsReq tops up a user's balance. Exposed for billing integration
// and operator use.
type GrantCreditsReq struct {
	UserUUID    string `json:"user_uuid"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

func (r *GrantCreditsReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if r.Amount <= 0 {
		return errno.ErrInvalidParam
	}
	return nil
}

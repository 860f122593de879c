package domain

import (
	"time"

	"farming-engine/pkg/apperror"
)

// MaxReferralDepth is the deepest ancestor level that can earn commission.
const MaxReferralDepth = 20

// ReferralEdge links a user to their direct (level 1) referrer. Edges are
// immutable once written; deeper levels are derived by walking.
type ReferralEdge struct {
	UserID     int64     `json:"user_id"`
	ReferrerID int64     `json:"referrer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReferralEdge rejects self-referral and non-positive ids.
func NewReferralEdge(userID, referrerID int64, at time.Time) (*ReferralEdge, error) {
	if userID <= 0 || referrerID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	if userID == referrerID {
		return nil, apperror.Validation("a user cannot refer themselves")
	}
	return &ReferralEdge{UserID: userID, ReferrerID: referrerID, CreatedAt: at}, nil
}

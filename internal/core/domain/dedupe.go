package domain

import (
	"regexp"
	"strconv"
	"time"

	"farming-engine/pkg/apperror"

	"github.com/google/uuid"
)

var externalRefPattern = regexp.MustCompile(`^[A-Za-z0-9:_\-.]{1,128}$`)

// ValidateExternalRef checks an upstream deposit reference such as an
// on-chain transaction hash.
func ValidateExternalRef(ref string) error {
	if !externalRefPattern.MatchString(ref) {
		return apperror.ErrInvalidExternalRef()
	}
	return nil
}

// DepositDedupeKey is unique per upstream deposit reference.
func DepositDedupeKey(externalRef string) string {
	return "deposit:" + externalRef
}

// YieldDedupeKey identifies one accrual window of one position. Window
// bounds are encoded as Unix microseconds, the store's timestamp precision.
func YieldDedupeKey(userID int64, currency Currency, from, to time.Time) string {
	return "yield:" + strconv.FormatInt(userID, 10) + ":" + string(currency) + ":" +
		strconv.FormatInt(from.UnixMicro(), 10) + ":" + strconv.FormatInt(to.UnixMicro(), 10)
}

// CommissionDedupeKey identifies one ancestor's share of one yield reward.
func CommissionDedupeKey(originTxID uuid.UUID, ancestorID int64, level int) string {
	return "commission:" + originTxID.String() + ":" + strconv.FormatInt(ancestorID, 10) + ":" + strconv.Itoa(level)
}

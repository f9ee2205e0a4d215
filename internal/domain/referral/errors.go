package referral

import "errors"

// ErrBadTable marks a referral tier table that fails its integrity check.
var ErrBadTable = errors.New("invalid referral tier table")

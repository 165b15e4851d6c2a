package nsrdb

import "errors"

// Sentinel markers for the failure taxonomy. Every error surfaced by this
// package (and by the committer's structural validation) wraps exactly one of
// them so retry decisions reduce to errors.Is checks.
var (
	ErrRateLimited    = errors.New("rate limited")
	ErrTransient      = errors.New("transient failure")
	ErrPermanent      = errors.New("permanent rejection")
	ErrContentInvalid = errors.New("content invalid")
)

// Kind is the classification a marker maps to.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindTransient
	KindPermanent
	KindContentInvalid
)

// Classify maps an error to its Kind. Unwrapped errors come back as
// KindUnknown; callers treat those as transient to stay on the safe side.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrPermanent):
		return KindPermanent
	case errors.Is(err, ErrContentInvalid):
		return KindContentInvalid
	case errors.Is(err, ErrTransient):
		return KindTransient
	default:
		return KindUnknown
	}
}

// String returns the label persisted in error markers and the journal.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindContentInvalid:
		return "content_invalid"
	default:
		return "unknown"
	}
}

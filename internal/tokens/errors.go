package tokens

import "errors"

var (
	ErrTokenBlacklisted = errors.New("the token is blacklisted")
	ErrTokenExpired     = errors.New("the token has expired")
	ErrTokenInvalid     = errors.New("the token is invalid")
)

// Kind is the single classification every caller maps token failures through.
type Kind int

const (
	KindUnknown Kind = iota
	KindBlacklisted
	KindExpired
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindBlacklisted:
		return "blacklisted"
	case KindExpired:
		return "expired"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Blacklisted wins over the other kinds because the
// revocation check runs first.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrTokenBlacklisted):
		return KindBlacklisted
	case errors.Is(err, ErrTokenExpired):
		return KindExpired
	case errors.Is(err, ErrTokenInvalid):
		return KindInvalid
	default:
		return KindUnknown
	}
}

package gate

import (
	"errors"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// CheckKind names one of the five eligibility checks, in evaluation order.
type CheckKind uint8

const (
	CheckAssetCooldown CheckKind = iota + 1
	CheckSmartCooldown
	CheckDailyLimit
	CheckColony
	CheckTimeWindow
)

func (c CheckKind) String() string {
	switch c {
	case CheckAssetCooldown:
		return "asset_cooldown"
	case CheckSmartCooldown:
		return "smart_cooldown"
	case CheckDailyLimit:
		return "daily_limit"
	case CheckColony:
		return "colony_requirement"
	case CheckTimeWindow:
		return "time_window"
	default:
		return "unknown"
	}
}

var (
	ErrAssetCooldown = errors.New("asset cooldown active")
	ErrSmartCooldown = errors.New("activity cooldown active")
	ErrDailyLimit    = errors.New("daily limit reached")
	ErrColony        = errors.New("colony requirement not met")
	ErrTimeWindow    = errors.New("outside action time window")
)

func (c CheckKind) sentinel() error {
	switch c {
	case CheckAssetCooldown:
		return ErrAssetCooldown
	case CheckSmartCooldown:
		return ErrSmartCooldown
	case CheckDailyLimit:
		return ErrDailyLimit
	case CheckColony:
		return ErrColony
	case CheckTimeWindow:
		return ErrTimeWindow
	default:
		return nil
	}
}

// IneligibleError is the structured rejection produced by the hard check path.
type IneligibleError struct {
	Check     CheckKind
	Reason    string
	ActorID   string
	Asset     assets.Key
	Action    catalog.ActionID
	Remaining time.Duration
}

func (e *IneligibleError) Error() string {
	msg := fmt.Sprintf("%s: %s (actor %s, asset %s, action %d)",
		e.Check, e.Reason, e.ActorID, assets.FormatKey(e.Asset), e.Action)
	if e.Remaining > 0 {
		msg += fmt.Sprintf(", retry in %s", e.Remaining.Round(time.Second))
	}
	return msg
}

func (e *IneligibleError) Unwrap() error {
	return e.Check.sentinel()
}

// IsIneligible extracts an IneligibleError from err.
func IsIneligible(err error) (*IneligibleError, bool) {
	var ie *IneligibleError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

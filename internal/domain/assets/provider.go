package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

//go:generate mockgen -source=provider.go -destination=mock/provider.go -package=mock

// MaxAccessories is the largest accessory list accepted from the registry. Longer
// responses are treated as corrupted.
const MaxAccessories = 8

var ErrLookupFailed = errors.New("asset registry lookup failed")

// AttributeProvider is the asset registry as seen by the engine.
type AttributeProvider interface {
	Owner(ctx context.Context, key Key) (string, error)
	Variant(ctx context.Context, key Key) (int, error)
	Accessories(ctx context.Context, key Key) ([]Accessory, error)
}

// SafeProvider never fails: any error, panic or out-of-range answer from the wrapped
// provider is replaced by a conservative default.
type SafeProvider struct {
	inner AttributeProvider
}

func NewSafeProvider(inner AttributeProvider) *SafeProvider {
	return &SafeProvider{inner: inner}
}

// Owner returns the registered owner, or "" when unknown.
func (p *SafeProvider) Owner(ctx context.Context, key Key) (owner string) {
	if p == nil || p.inner == nil {
		return ""
	}
	defer p.recoverLookup("owner", key, func() { owner = "" })

	owner, err := p.inner.Owner(ctx, key)
	if err != nil {
		p.logFailure("owner", key, err)
		return ""
	}
	return owner
}

// Variant returns the asset variant in 1..4, defaulting to 1.
func (p *SafeProvider) Variant(ctx context.Context, key Key) (variant int) {
	if p == nil || p.inner == nil {
		return MinVariant
	}
	defer p.recoverLookup("variant", key, func() { variant = MinVariant })

	variant, err := p.inner.Variant(ctx, key)
	if err != nil {
		p.logFailure("variant", key, err)
		return MinVariant
	}
	if variant < MinVariant || variant > MaxVariant {
		p.logFailure("variant", key, fmt.Errorf("variant %d out of range", variant))
		return MinVariant
	}
	return variant
}

// Accessories returns the equipped items, or nil on failure or oversized responses.
func (p *SafeProvider) Accessories(ctx context.Context, key Key) (items []Accessory) {
	if p == nil || p.inner == nil {
		return nil
	}
	defer p.recoverLookup("accessories", key, func() { items = nil })

	items, err := p.inner.Accessories(ctx, key)
	if err != nil {
		p.logFailure("accessories", key, err)
		return nil
	}
	if len(items) > MaxAccessories {
		p.logFailure("accessories", key, fmt.Errorf("%d accessories exceeds limit %d", len(items), MaxAccessories))
		return nil
	}
	return items
}

func (p *SafeProvider) recoverLookup(lookup string, key Key, fallback func()) {
	if r := recover(); r != nil {
		p.logFailure(lookup, key, fmt.Errorf("panic: %v", r))
		fallback()
	}
}

func (p *SafeProvider) logFailure(lookup string, key Key, err error) {
	slog.Warn("Asset registry lookup failed, using default",
		slog.String("type", "registry"),
		slog.String("lookup", lookup),
		slog.String("asset", FormatKey(key)),
		slog.Any("error", err),
	)
}

package features

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
)

// AutofillKey is the feature name persisted by the toggle store.
const AutofillKey = "autofill"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrRequired         = errors.New("required permissions cannot be removed")
)

type State int

const (
	Disabled State = iota
	PendingPermission
	Enabled
)

func (s State) String() string {
	switch s {
	case PendingPermission:
		return "pending permission"
	case Enabled:
		return "enabled"
	default:
		return "disabled"
	}
}

// CapabilityChecker is the platform's permission API.
type CapabilityChecker interface {
	Contains(ctx context.Context, caps []string) (bool, error)
	Request(ctx context.Context, caps []string) (bool, error)
	Remove(ctx context.Context, caps []string) (bool, error)
}

// Toggles persists feature flags.
type Toggles interface {
	FeatureEnabled(ctx context.Context, name string) (bool, error)
	SetFeatureEnabled(ctx context.Context, name string, on bool) error
}

// Autofill drives Disabled -> PendingPermission -> Enabled. The persisted
// flag records what the user asked for; the checker decides whether the
// capabilities are actually there.
type Autofill struct {
	toggles  Toggles
	checker  CapabilityChecker
	platform Platform
	log      logging.Logger
}

func NewAutofill(toggles Toggles, checker CapabilityChecker, platform Platform, log logging.Logger) *Autofill {
	return &Autofill{toggles: toggles, checker: checker, platform: platform, log: log}
}

func (a *Autofill) caps() []string {
	p, _ := Lookup(PermContextMenuFeatures, a.platform)
	return p.Capabilities
}

// State reports Enabled only when the flag is on and every capability is
// granted. A flag without capabilities (revoked from outside) is
// PendingPermission.
func (a *Autofill) State(ctx context.Context) (State, error) {
	on, err := a.toggles.FeatureEnabled(ctx, AutofillKey)
	if err != nil || !on {
		return Disabled, err
	}
	has, err := a.checker.Contains(ctx, a.caps())
	if err != nil {
		return Disabled, err
	}
	if !has {
		return PendingPermission, nil
	}
	return Enabled, nil
}

// Enable requests missing capabilities and turns the feature on. When the
// request is refused the feature falls back to Disabled and
// ErrPermissionDenied is returned.
func (a *Autofill) Enable(ctx context.Context) (State, error) {
	if err := a.toggles.SetFeatureEnabled(ctx, AutofillKey, true); err != nil {
		return Disabled, err
	}

	has, err := a.checker.Contains(ctx, a.caps())
	if err != nil {
		return PendingPermission, err
	}
	if has {
		a.log.Info(ctx, "autofill enabled")
		return Enabled, nil
	}

	granted, err := a.checker.Request(ctx, a.caps())
	if err != nil {
		return PendingPermission, fmt.Errorf("request capabilities: %w", err)
	}
	if !granted {
		if err := a.toggles.SetFeatureEnabled(ctx, AutofillKey, false); err != nil {
			return PendingPermission, err
		}
		a.log.Warn(ctx, "autofill capabilities refused")
		return Disabled, ErrPermissionDenied
	}

	a.log.Info(ctx, "autofill enabled")
	return Enabled, nil
}

// Disable turns the feature off and gives its optional capabilities back.
func (a *Autofill) Disable(ctx context.Context) (State, error) {
	if err := a.toggles.SetFeatureEnabled(ctx, AutofillKey, false); err != nil {
		return Enabled, err
	}
	if _, err := Remove(ctx, a.checker, PermContextMenuFeatures, a.platform); err != nil {
		a.log.Warn(ctx, "autofill capabilities not released", "error", err)
	}
	a.log.Info(ctx, "autofill disabled")
	return Disabled, nil
}

// Check reports whether every capability of t is granted. Context menus are
// always present on Firefox.
func Check(ctx context.Context, c CapabilityChecker, t PermissionType, platform Platform) (bool, error) {
	if t == PermContextMenu && platform == PlatformFirefox {
		return true, nil
	}
	p, ok := Lookup(t, platform)
	if !ok {
		return false, nil
	}
	return c.Contains(ctx, p.Capabilities)
}

// Remove releases the capabilities of t. Required permissions are never
// released.
func Remove(ctx context.Context, c CapabilityChecker, t PermissionType, platform Platform) (bool, error) {
	p, ok := Lookup(t, platform)
	if !ok {
		return false, nil
	}
	if p.Required {
		return false, ErrRequired
	}
	return c.Remove(ctx, p.Capabilities)
}

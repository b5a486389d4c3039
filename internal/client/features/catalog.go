// Package features manages optional features gated behind platform
// capabilities. Autofill is the only one today.
package features

import "slices"

type Platform string

const (
	PlatformChromium Platform = "chromium"
	PlatformFirefox  Platform = "firefox"
)

type PermissionType string

const (
	PermStorage             PermissionType = "storage"
	PermContextMenu         PermissionType = "contextMenu"
	PermContextMenuFeatures PermissionType = "contextMenuFeatures"
)

// Permission groups the capabilities a feature needs.
type Permission struct {
	Name         string
	Required     bool
	Capabilities []string
}

var catalog = map[PermissionType]Permission{
	PermStorage:     {Name: "Storage", Required: true, Capabilities: []string{"storage"}},
	PermContextMenu: {Name: "Context Menu", Required: true, Capabilities: []string{"contextMenus"}},
	PermContextMenuFeatures: {
		Name:         "Autofill",
		Capabilities: []string{"activeTab", "clipboardWrite", "scripting"},
	},
}

// Lookup returns the permission for t with the capability list resolved for
// platform. Firefox grants context menus at install time, so it is not
// requested there.
func Lookup(t PermissionType, platform Platform) (Permission, bool) {
	p, ok := catalog[t]
	if !ok {
		return Permission{}, false
	}
	p.Capabilities = slices.Clone(p.Capabilities)
	if t == PermContextMenuFeatures && platform != PlatformFirefox {
		p.Capabilities = append(p.Capabilities, "contextMenus")
	}
	return p, true
}

// Types lists the permissions shown to the user on platform.
func Types(platform Platform) []PermissionType {
	out := []PermissionType{PermStorage}
	if platform == PlatformFirefox {
		out = append(out, PermContextMenu)
	}
	return append(out, PermContextMenuFeatures)
}

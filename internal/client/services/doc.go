// Package services is the surface the CLI talks to. AliasService composes the
// account storage, the remote gateway, the import/export reconciler, backups
// and feature toggles, and converts every failure of the address and login
// operations into a typed result so callers only inspect status fields.
package services

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// Document is the JSON export layout.
type Document struct {
	Version   string            `json:"version"`
	Timestamp int64             `json:"timestamp"`
	Account   string            `json:"account"`
	Addresses []DocumentAddress `json:"addresses"`
}

type DocumentAddress struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Notes     string `json:"notes"`
}

// ExportJSON renders the active account's history as an indented JSON
// document. It does not modify storage.
func (r *Reconciler) ExportJSON(ctx context.Context) (string, error) {
	username, list, err := r.current(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export addresses: %w", err)
	}

	doc := Document{
		Version:   FormatVersion,
		Timestamp: r.now().UnixMilli(),
		Account:   username + "@" + r.domain,
		Addresses: make([]DocumentAddress, 0, len(list)),
	}
	for _, a := range list {
		doc.Addresses = append(doc.Addresses, DocumentAddress{
			Value:     a.FullAddress(r.domain),
			Timestamp: a.CreatedAt,
			Notes:     a.Notes,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export addresses: %w", err)
	}
	return string(out), nil
}

// ExportCSV renders the active account's history as CSV: a comment naming
// the account, the header row, then one row per address. Only the notes
// column is quoted, and only when non-empty.
func (r *Reconciler) ExportCSV(ctx context.Context) (string, error) {
	username, list, err := r.current(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export addresses to CSV: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Export for account: " + username + "@" + r.domain + "\n")
	b.WriteString("Address,Timestamp,Notes\n")
	for _, a := range list {
		b.WriteString(a.FullAddress(r.domain))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(a.CreatedAt, 10))
		b.WriteByte(',')
		b.WriteString(quoteNotes(a.Notes))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func quoteNotes(notes string) string {
	if notes == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(notes, `"`, `""`) + `"`
}

func (r *Reconciler) current(ctx context.Context) (string, []models.StoredAddress, error) {
	snap, err := r.store.GetActiveSnapshot(ctx)
	if err != nil {
		return "", nil, err
	}
	if snap == nil || snap.Username == "" {
		return "", nil, common.ErrNotAuthenticated
	}
	list, err := r.store.ListAddresses(ctx)
	if err != nil {
		return "", nil, err
	}
	return snap.Username, list, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/backup"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
	"github.com/dmitrijs2005/aliaskeeper/internal/filex"
)

// exportFileName builds the default export name, e.g.
// "aliaskeeper-alice-addresses-2025-01-31.json".
func exportFileName(username, ext string, day string) string {
	return fmt.Sprintf("aliaskeeper-%s-addresses-%s.%s", username, day, ext)
}

// Export writes the active account's aliases as JSON or CSV. Without a file
// argument the export goes to DefaultExportDir under the working directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		a.println("Usage: export json|csv [file]")
		return errUsage
	}

	format := strings.ToLower(args[0])
	var (
		data string
		err  error
	)
	switch format {
	case "json":
		data, err = a.svc.ExportJSON(ctx)
	case "csv":
		data, err = a.svc.ExportCSV(ctx)
	default:
		a.println("Usage: export json|csv [file]")
		return errUsage
	}
	if err != nil {
		return err
	}

	var path string
	if len(args) == 2 {
		path = args[1]
	} else {
		snap, err := a.svc.CurrentAccount(ctx)
		if err != nil {
			return err
		}
		if snap == nil {
			return common.ErrNotAuthenticated
		}
		dir, err := filex.EnsureSubdDir(a.exportDir)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, exportFileName(snap.Username, format, a.now().Format("2006-01-02")))
	}

	if err := filex.WriteAtomic(path, []byte(data), 0o600); err != nil {
		return err
	}
	a.log.Info(ctx, "export written", "format", format, "path", path)
	a.printf("Exported to %s\n", path)
	return nil
}

// Import merges aliases from a JSON or CSV export into the active account.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: import <file>")
		return errUsage
	}

	data, err := filex.ReadLimited(args[0], maxImportSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.printf("File not found: %s\n", args[0])
			return nil
		}
		return err
	}

	a.printImport(a.svc.ImportAddresses(ctx, string(data)))
	return nil
}

func (a *App) printImport(res models.ImportResult) {
	if !res.Success || res.Count == 0 {
		a.println(res.Error)
		return
	}
	a.printf("Imported %d address(es)\n", res.Count)
}

// Backup uploads a JSON export of the active account to object storage.
func (a *App) Backup(ctx context.Context, _ []string) error {
	key, err := a.svc.Backup(ctx)
	if errors.Is(err, backup.ErrDisabled) {
		a.println("Backups are not configured")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Backup stored as %s\n", key)
	return nil
}

// Backups lists uploaded backups of the active account, newest first.
func (a *App) Backups(ctx context.Context, _ []string) error {
	keys, err := a.svc.Backups(ctx)
	if errors.Is(err, backup.ErrDisabled) {
		a.println("Backups are not configured")
		return nil
	}
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		a.println("No backups yet. Run 'backup'.")
		return nil
	}
	for _, k := range keys {
		if at, ok := backup.Time(k); ok {
			a.printf("%s  %s\n", k, at.Format(timeLayout))
		} else {
			a.println(k)
		}
	}
	return nil
}

// Restore imports a backup. Without a key it lists the available ones.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.Backups(ctx, nil)
	}
	a.printImport(a.svc.Restore(ctx, args[0]))
	return nil
}

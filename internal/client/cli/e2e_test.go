package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/database"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/gateway"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/services"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/storage"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	minted []string
}

func (g *stubGateway) RequestOTP(context.Context, string) error { return nil }

func (g *stubGateway) Verify(_ context.Context, username, otp string) (*models.AccountSnapshot, error) {
	if otp != "able baker charlie delta" {
		return nil, gateway.ErrInvalidOTP
	}
	return &models.AccountSnapshot{Username: username, SessionToken: "tok-" + username}, nil
}

func (g *stubGateway) GenerateAddress(context.Context, string) (string, error) {
	next := g.minted[0]
	g.minted = g.minted[1:]
	return next, nil
}

func TestApp_EndToEnd(t *testing.T) {
	capturePrint(t)
	stubSecret(t, "able baker charlie delta")

	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := services.NewAliasService(ctx, services.Deps{
		Store:   storage.New(db),
		Gateway: &stubGateway{minted: []string{"xk29f", "qq11a"}},
		Domain:  "duck.com",
	})
	require.NoError(t, err)

	script := strings.Join([]string{
		"login Alice@duck.com",
		"generate newsletter",
		"generate",
		"notes qq11a@duck.com bank",
		"list",
		"status",
		"exit",
	}, "\n")

	var out bytes.Buffer
	app := NewApp(svc, strings.NewReader(script), &out, nil)
	app.Run(ctx)

	text := out.String()
	require.Contains(t, text, "Login successful!")
	require.Contains(t, text, "xk29f@duck.com\n")
	require.Contains(t, text, "Notes updated")
	require.Contains(t, text, "2 address(es)")
	require.Contains(t, text, "Generated: 2")

	addrs := svc.GetAddresses(ctx)
	require.Len(t, addrs, 2)
	require.Equal(t, "qq11a", addrs[0].Value)
	require.Equal(t, "bank", addrs[0].Notes)
	require.Equal(t, "newsletter", addrs[1].Notes)
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/backup"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/features"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/gateway"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/storage"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/transfer"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
	"github.com/dmitrijs2005/aliaskeeper/internal/validate"
)

const (
	msgOTPSent       = "OTP sent to your email!"
	msgLoginOK       = "Login successful!"
	msgNeedLogin     = "You need to login first"
	msgBadUsername   = "Please enter a valid username"
	msgBadPassphrase = "The passphrase is four words separated by spaces"
)

// AliasService defines the operations exposed to the CLI.
//
// Contract:
//   - Login, VerifyOTP, GenerateAddress and ImportAddresses never return
//     errors; the outcome is in the result.
//   - GetAddresses, UpdateNotes, DeleteAddress and ClearAllAddresses are safe
//     to call without an active account: they return [] or false.
//   - Account, export and backup operations return errors for display.
type AliasService interface {
	Login(ctx context.Context, username string) models.LoginResult
	VerifyOTP(ctx context.Context, username, otp string) models.VerifyResult
	GenerateAddress(ctx context.Context, notes string) models.GenerateResult

	GetAddresses(ctx context.Context) []models.StoredAddress
	UpdateNotes(ctx context.Context, value, notes string) bool
	DeleteAddress(ctx context.Context, value string) bool
	ClearAllAddresses(ctx context.Context) bool

	ExportJSON(ctx context.Context) (string, error)
	ExportCSV(ctx context.Context) (string, error)
	ImportAddresses(ctx context.Context, text string) models.ImportResult

	CurrentAccount(ctx context.Context) (*models.AccountSnapshot, error)
	PendingLogin(ctx context.Context) (string, error)
	Accounts(ctx context.Context) ([]models.AccountRegistryEntry, string, error)
	SwitchAccount(ctx context.Context, username string) error
	RemoveAccount(ctx context.Context, username string) error
	Logout(ctx context.Context) error

	Backup(ctx context.Context) (string, error)
	Backups(ctx context.Context) ([]string, error)
	Restore(ctx context.Context, key string) models.ImportResult

	AutofillState(ctx context.Context) (features.State, error)
	SetAutofill(ctx context.Context, on bool) (features.State, error)

	// Domain is the suffix appended to aliases for display.
	Domain() string
}

type aliasService struct {
	store    *storage.Store
	gateway  gateway.Gateway
	transfer *transfer.Reconciler
	backups  *backup.Manager
	autofill *features.Autofill
	domain   string
	log      logging.Logger
}

// Deps bundles the collaborators of NewAliasService. Backups and Autofill
// may be nil; the related operations then report them as unavailable.
type Deps struct {
	Store    *storage.Store
	Gateway  gateway.Gateway
	Backups  *backup.Manager
	Autofill *features.Autofill
	Domain   string
	Log      logging.Logger
}

// NewAliasService constructs an AliasService and seeds the account registry
// from data written before the registry existed.
func NewAliasService(ctx context.Context, d Deps) (AliasService, error) {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Backups == nil {
		d.Backups = backup.NewManager(nil, "")
	}
	if err := d.Store.EnsureRegistry(ctx); err != nil {
		return nil, err
	}
	return &aliasService{
		store:    d.Store,
		gateway:  d.Gateway,
		transfer: transfer.New(d.Store, d.Domain),
		backups:  d.Backups,
		autofill: d.Autofill,
		domain:   d.Domain,
		log:      d.Log,
	}, nil
}

func (s *aliasService) Domain() string { return s.domain }

// NormalizeUsername trims whitespace, drops a trailing "@domain" and lower-cases.
func NormalizeUsername(username, domain string) string {
	u := strings.ToLower(strings.TrimSpace(username))
	return strings.TrimSuffix(u, "@"+strings.ToLower(domain))
}

// NormalizePassphrase lower-cases the passphrase and collapses whitespace.
func NormalizePassphrase(otp string) string {
	return strings.Join(strings.Fields(strings.ToLower(otp)), " ")
}

type loginInput struct {
	Username string `validate:"required,username"`
}

type verifyInput struct {
	Username   string `validate:"required,username"`
	Passphrase string `validate:"required,passphrase"`
}

func (s *aliasService) Login(ctx context.Context, username string) models.LoginResult {
	username = NormalizeUsername(username, s.domain)
	if err := validate.Struct(loginInput{Username: username}); err != nil {
		return models.LoginResult{Status: models.StatusError, Message: msgBadUsername}
	}

	if err := s.gateway.RequestOTP(ctx, username); err != nil {
		s.log.Warn(ctx, "otp request failed", "op", "login", "username", username, "error", err)
		return models.LoginResult{Status: models.StatusError, Message: err.Error()}
	}

	if err := s.store.SetPending(ctx, username); err != nil {
		s.log.Error(ctx, "failed to remember pending login", "op", "login", "username", username, "error", err)
	}
	return models.LoginResult{Status: models.StatusSuccess, NeedsOTP: true, Message: msgOTPSent}
}

func (s *aliasService) VerifyOTP(ctx context.Context, username, otp string) models.VerifyResult {
	in := verifyInput{
		Username:   NormalizeUsername(username, s.domain),
		Passphrase: NormalizePassphrase(otp),
	}
	if err := validate.Struct(in); err != nil {
		msg := msgBadPassphrase
		if validate.Struct(loginInput{Username: in.Username}) != nil {
			msg = msgBadUsername
		}
		return models.VerifyResult{Status: models.StatusError, Message: msg}
	}

	snap, err := s.gateway.Verify(ctx, in.Username, in.Passphrase)
	if err != nil {
		s.log.Warn(ctx, "verification failed", "op", "verify", "username", in.Username, "error", err)
		return models.VerifyResult{Status: models.StatusError, Message: err.Error()}
	}

	if err := s.store.SaveSnapshot(ctx, *snap); err != nil {
		return s.verifyStorageFailure(ctx, in.Username, err)
	}
	if err := s.store.RecordLogin(ctx, *snap); err != nil {
		return s.verifyStorageFailure(ctx, in.Username, err)
	}

	s.log.Info(ctx, "logged in", "username", snap.Username)
	return models.VerifyResult{Status: models.StatusSuccess, Snapshot: snap, Message: msgLoginOK}
}

func (s *aliasService) verifyStorageFailure(ctx context.Context, username string, err error) models.VerifyResult {
	s.log.Error(ctx, "failed to persist session", "op", "verify", "username", username, "error", err)
	return models.VerifyResult{Status: models.StatusError, Message: "Failed to save session: " + err.Error()}
}

// GenerateAddress runs read snapshot -> mint -> append -> bump count. Nothing
// is written unless the gateway returned an address.
func (s *aliasService) GenerateAddress(ctx context.Context, notes string) models.GenerateResult {
	snap, err := s.store.GetActiveSnapshot(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read session", "op", "generate", "error", err)
		return models.GenerateResult{Status: models.StatusError, Message: err.Error()}
	}
	if snap == nil || snap.SessionToken == "" {
		return models.GenerateResult{Status: models.StatusError, Message: msgNeedLogin, NeedsLogin: true}
	}
	log := s.log.With("op", "generate", "username", snap.Username)

	addr, err := s.gateway.GenerateAddress(ctx, snap.SessionToken)
	if err != nil {
		log.Warn(ctx, "gateway refused", "error", err)
		return models.GenerateResult{
			Status:     models.StatusError,
			Message:    err.Error(),
			NeedsLogin: errors.Is(err, gateway.ErrUnauthorized),
		}
	}

	if _, err := s.store.AppendGeneratedAddress(ctx, addr, notes); err != nil {
		if errors.Is(err, common.ErrNotAuthenticated) {
			return models.GenerateResult{Status: models.StatusError, Message: msgNeedLogin, NeedsLogin: true}
		}
		log.Error(ctx, "failed to store address", "address", addr, "error", err)
		return models.GenerateResult{Status: models.StatusError, Message: err.Error()}
	}

	count, err := s.store.AddAddressCount(ctx, 1)
	if err != nil {
		log.Error(ctx, "failed to update counter", "error", err)
	}
	log.Info(ctx, "address generated", "count", count)
	return models.GenerateResult{Status: models.StatusSuccess, Address: addr}
}

func (s *aliasService) GetAddresses(ctx context.Context) []models.StoredAddress {
	list, err := s.store.ListAddresses(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to list addresses", "op", "list", "error", err)
		return []models.StoredAddress{}
	}
	return list
}

func (s *aliasService) UpdateNotes(ctx context.Context, value, notes string) bool {
	ok, err := s.store.UpdateNotes(ctx, value, notes)
	if err != nil {
		s.log.Error(ctx, "failed to update notes", "op", "notes", "address", value, "error", err)
		return false
	}
	return ok
}

func (s *aliasService) DeleteAddress(ctx context.Context, value string) bool {
	ok, err := s.store.DeleteAddress(ctx, value)
	if err != nil {
		s.log.Error(ctx, "failed to delete address", "op", "delete", "address", value, "error", err)
		return false
	}
	return ok
}

func (s *aliasService) ClearAllAddresses(ctx context.Context) bool {
	ok, err := s.store.ClearAllAddresses(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to clear addresses", "op", "clear", "error", err)
		return false
	}
	return ok
}

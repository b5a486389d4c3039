package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
	"github.com/dmitrijs2005/aliaskeeper/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://quack.duckduckgo.com/api"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36"

	requestIDHeader = "X-Request-ID"
)

// HTTPGateway implements Gateway over the service's JSON API.
type HTTPGateway struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       logging.Logger
}

type Option func(*HTTPGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.client = c }
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *HTTPGateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithUserAgent(ua string) Option {
	return func(g *HTTPGateway) { g.userAgent = ua }
}

func WithLogger(l logging.Logger) Option {
	return func(g *HTTPGateway) { g.log = l }
}

// NewHTTPGateway builds a gateway rooted at baseURL (DefaultBaseURL if
// empty). Requests time out after timeout.
func NewHTTPGateway(baseURL string, timeout time.Duration, opts ...Option) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	g := &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: DefaultUserAgent,
		log:       logging.Discard(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *HTTPGateway) RequestOTP(ctx context.Context, username string) error {
	q := url.Values{"user": {username}}
	if err := g.do(ctx, http.MethodGet, "/auth/loginlink?"+q.Encode(), "", nil); err != nil {
		return g.mapError(err, "Failed to send OTP")
	}
	return nil
}

type loginResponse struct {
	Token string `json:"token"`
}

type dashboardResponse struct {
	User struct {
		Email       string `json:"email"`
		Username    string `json:"username"`
		AccessToken string `json:"access_token"`
		Cohort      string `json:"cohort"`
	} `json:"user"`
	Stats struct {
		AddressesGenerated int `json:"addresses_generated"`
	} `json:"stats"`
	Invites []any `json:"invites"`
}

func (g *HTTPGateway) Verify(ctx context.Context, username, otp string) (*models.AccountSnapshot, error) {
	q := url.Values{"otp": {otp}, "user": {username}}

	var login loginResponse
	err := g.do(ctx, http.MethodGet, "/auth/login?"+q.Encode(), "", &login)

	var se *netx.StatusError
	switch {
	case errors.As(err, &se) && se.Code < http.StatusInternalServerError:
		return nil, ErrInvalidOTP
	case err != nil:
		return nil, g.mapError(err, "Login failed")
	case login.Token == "":
		return nil, ErrInvalidOTP
	}

	var dash dashboardResponse
	if err := g.do(ctx, http.MethodGet, "/email/dashboard", login.Token, &dash); err != nil {
		return nil, g.mapError(err, "Failed to load account")
	}

	snap := &models.AccountSnapshot{
		Email:              dash.User.Email,
		Username:           dash.User.Username,
		SessionToken:       dash.User.AccessToken,
		Cohort:             dash.User.Cohort,
		AddressesGenerated: dash.Stats.AddressesGenerated,
		InviteCount:        len(dash.Invites),
	}
	if snap.Username == "" {
		snap.Username = username
	}
	if snap.SessionToken == "" {
		snap.SessionToken = login.Token
	}
	return snap, nil
}

type addressResponse struct {
	Address string `json:"address"`
}

func (g *HTTPGateway) GenerateAddress(ctx context.Context, token string) (string, error) {
	var resp addressResponse
	if err := g.do(ctx, http.MethodPost, "/email/addresses", token, &resp); err != nil {
		return "", g.mapError(err, "Failed to generate address")
	}
	if resp.Address == "" {
		return "", &remoteError{msg: "Invalid response format", kind: ErrRemote}
	}
	return resp.Address, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path, token string, out any) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set(requestIDHeader, reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	err = netx.DoJSON(g.client, req, out)
	g.log.Debug(ctx, "gateway request",
		"method", method,
		"path", strings.SplitN(path, "?", 2)[0],
		"request_id", reqID,
		"elapsed", time.Since(start),
		"error", err,
	)
	return err
}

// mapError classifies err under one of the package sentinels; msg is what
// the user sees.
func (g *HTTPGateway) mapError(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &remoteError{msg: msg + ": request timed out", kind: ErrUnavailable, err: err}
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
			return &remoteError{msg: msg + ": session expired, please log in again", kind: ErrUnauthorized, err: err}
		case se.Code >= http.StatusInternalServerError:
			return &remoteError{msg: msg, kind: ErrUnavailable, err: err}
		default:
			return &remoteError{msg: msg, kind: ErrRemote, err: err}
		}
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return &remoteError{msg: msg + ": " + ErrUnavailable.Error(), kind: ErrUnavailable, err: err}
	}
	return &remoteError{msg: fmt.Sprintf("%s: %v", msg, err), kind: ErrRemote, err: err}
}

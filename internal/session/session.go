// Package session owns the connection to one remote account: which backend
// flavor to talk to, the auth token, and the login/registration flow.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/glabrego/lemmy-cli/internal/api"
)

// Result is the outcome of Initialize. Anything but ResultSuccess tells the
// caller which input to ask the user for next.
type Result int

const (
	ResultSuccess Result = iota
	ResultPassword
	ResultTOTP
	ResultCaptcha
	ResultVerifyEmail
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultPassword:
		return "PASSWORD"
	case ResultTOTP:
		return "TOTP"
	case ResultCaptcha:
		return "CAPTCHA"
	case ResultVerifyEmail:
		return "VERIFY_EMAIL"
	default:
		return "UNKNOWN"
	}
}

type Options struct {
	Host      string
	Username  string
	Password  string
	AuthToken string
	TOTPToken string
	Flavor    api.Flavor
}

type SignupOptions struct {
	Email         string
	ShowNSFW      bool
	CaptchaUUID   string
	CaptchaAnswer string
	Answer        string
}

// Session is a snapshot of the current connection state.
// AuthToken != "" implies Initialized.
type Session struct {
	ServerHost  string
	Username    string
	AuthToken   string
	Flavor      api.Flavor
	Protocol    api.Protocol
	Initialized bool
	UserID      int64
	IssuedAt    time.Time
}

// Dialer opens a backend handle for a flavor. baseURL already carries the
// scheme; token may be empty.
type Dialer func(flavor api.Flavor, baseURL, token string) (api.Backend, error)

// SiteCache receives the site description from the capability probe.
type SiteCache interface {
	Set(site *api.GetSiteResponse)
	Clear()
}

type Manager struct {
	dial   Dialer
	site   SiteCache
	logger *slog.Logger

	mu      sync.RWMutex
	backend api.Backend
	session Session
}

func NewManager(dial Dialer, site SiteCache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{dial: dial, site: site, logger: logger}
}

var reHost = regexp.MustCompile(`^(?:https?://)?([^/?#]+)`)

// BaseURL strips scheme and path from a user-supplied instance address.
func BaseURL(host string) string {
	m := reHost.FindStringSubmatch(strings.TrimSpace(host))
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// Initialize connects to opts.Host. With a token the session becomes ready
// right away; otherwise it logs in, or registers first when signup is set.
func (m *Manager) Initialize(ctx context.Context, opts Options, signup *SignupOptions) (Result, error) {
	host := BaseURL(opts.Host)
	if host == "" {
		return ResultPassword, errors.New("server host is required")
	}
	if opts.Flavor == "" {
		opts.Flavor = api.FlavorLemmy
	}

	backend, err := m.dial(opts.Flavor, "https://"+host, opts.AuthToken)
	if err != nil {
		m.Reset()
		return ResultPassword, fmt.Errorf("dial %s backend: %w", opts.Flavor, err)
	}

	site, err := backend.GetSite(ctx)
	if err != nil {
		_ = backend.Close()
		m.Reset()
		return ResultPassword, fmt.Errorf("probe site %s: %w", host, err)
	}
	protocol := api.ProtocolFromVersion(site.Version)
	if ps, ok := backend.(api.ProtocolSetter); ok {
		ps.SetProtocol(protocol)
	}
	if m.site != nil {
		m.site.Set(site)
	}

	m.mu.Lock()
	m.replaceBackend(backend)
	m.session = Session{
		ServerHost: host,
		Username:   opts.Username,
		Flavor:     opts.Flavor,
		Protocol:   protocol,
	}
	m.mu.Unlock()

	if opts.AuthToken != "" {
		m.markReady(opts.AuthToken)
		m.logger.Info("session ready", "host", host, "user", opts.Username, "protocol", protocol.String())
		return ResultSuccess, nil
	}

	if signup != nil {
		return m.register(ctx, backend, opts, signup)
	}
	return m.login(ctx, backend, opts)
}

func (m *Manager) register(ctx context.Context, backend api.Backend, opts Options, signup *SignupOptions) (Result, error) {
	if opts.Password == "" {
		m.Reset()
		return ResultPassword, nil
	}
	resp, err := backend.Register(ctx, api.RegisterForm{
		Username:       opts.Username,
		Password:       opts.Password,
		PasswordVerify: opts.Password,
		ShowNSFW:       signup.ShowNSFW,
		Email:          signup.Email,
		CaptchaUUID:    signup.CaptchaUUID,
		CaptchaAnswer:  signup.CaptchaAnswer,
		Answer:         signup.Answer,
	})
	if err != nil {
		m.Reset()
		if api.HasCode(err, api.CodeCaptchaIncorrect) {
			return ResultCaptcha, nil
		}
		m.logger.Warn("registration failed", "host", opts.Host, "err", err)
		return ResultPassword, nil
	}
	if resp.VerifyEmailSent {
		m.Reset()
		return ResultVerifyEmail, nil
	}
	if resp.JWT == nil || *resp.JWT == "" {
		m.Reset()
		return ResultPassword, nil
	}

	next := opts
	next.AuthToken = *resp.JWT
	return m.Initialize(ctx, next, nil)
}

func (m *Manager) login(ctx context.Context, backend api.Backend, opts Options) (Result, error) {
	resp, err := backend.Login(ctx, api.LoginForm{
		UsernameOrEmail: opts.Username,
		Password:        opts.Password,
		TOTP2FAToken:    opts.TOTPToken,
	})
	if err != nil {
		m.Reset()
		if api.HasCode(err, api.CodeMissingTOTP) {
			return ResultTOTP, nil
		}
		m.logger.Warn("login failed", "host", opts.Host, "user", opts.Username, "err", err)
		return ResultPassword, nil
	}
	if resp.JWT == nil || *resp.JWT == "" {
		m.Reset()
		return ResultPassword, nil
	}

	next := opts
	next.AuthToken = *resp.JWT
	next.Password = ""
	return m.Initialize(ctx, next, nil)
}

func (m *Manager) markReady(token string) {
	userID, issuedAt := claims(token)
	m.mu.Lock()
	m.session.AuthToken = token
	m.session.Initialized = true
	m.session.UserID = userID
	m.session.IssuedAt = issuedAt
	m.mu.Unlock()
}

// Reset drops the backend handle and the token. It is safe to call repeatedly.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.replaceBackend(nil)
	m.session = Session{}
	m.mu.Unlock()
	if m.site != nil {
		m.site.Clear()
	}
}

// replaceBackend must be called with mu held.
func (m *Manager) replaceBackend(b api.Backend) {
	if m.backend != nil && m.backend != b {
		if err := m.backend.Close(); err != nil {
			m.logger.Debug("close backend", "err", err)
		}
	}
	m.backend = b
}

func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Backend returns the handle of an initialized session.
func (m *Manager) Backend() (api.Backend, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Initialized || m.backend == nil {
		return nil, false
	}
	return m.backend, true
}

func (m *Manager) Ready() bool {
	_, ok := m.Backend()
	return ok
}

// claims reads the subject and issue time from a token without verifying
// it. Only the server can verify its own tokens.
func claims(token string) (int64, time.Time) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return 0, time.Time{}
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}
	}

	var userID int64
	switch sub := mc["sub"].(type) {
	case float64:
		userID = int64(sub)
	case string:
		userID, _ = strconv.ParseInt(sub, 10, 64)
	}

	var issuedAt time.Time
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		issuedAt = iat.Time
	}
	return userID, issuedAt
}

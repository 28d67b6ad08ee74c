// Package app composes the session, the local repository and the shared
// stores into the use cases the front end calls.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glabrego/lemmy-cli/internal/session"
	"github.com/glabrego/lemmy-cli/internal/settings"
	"github.com/glabrego/lemmy-cli/internal/storage"
	"github.com/glabrego/lemmy-cli/internal/store"
)

type Authenticator interface {
	Initialize(ctx context.Context, opts session.Options, signup *session.SignupOptions) (session.Result, error)
	Reset()
	Session() session.Session
}

type Repository interface {
	SaveAccount(ctx context.Context, account storage.Account) error
	CurrentAccount(ctx context.Context) (storage.Account, bool, error)
	DeleteAccount(ctx context.Context, host, username string) error
	LoadSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
}

type SettingsHolder interface {
	Get() settings.Settings
	Set(settings.Settings) error
}

type Service struct {
	auth   Authenticator
	repo   Repository
	prefs  SettingsHolder
	state  *store.State
	logger *slog.Logger
}

func NewService(auth Authenticator, repo Repository, prefs SettingsHolder, state *store.State, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{auth: auth, repo: repo, prefs: prefs, state: state, logger: logger}
}

// SignIn runs the auth flow and remembers the account once it succeeds.
// Non-success results are returned as-is so the caller can ask for the
// missing input.
func (s *Service) SignIn(ctx context.Context, opts session.Options, signup *session.SignupOptions) (session.Result, error) {
	result, err := s.auth.Initialize(ctx, opts, signup)
	if err != nil || result != session.ResultSuccess {
		return result, err
	}

	sess := s.auth.Session()
	account := storage.Account{
		Host:     sess.ServerHost,
		Username: sess.Username,
		Token:    sess.AuthToken,
		Flavor:   sess.Flavor,
	}
	if err := s.repo.SaveAccount(ctx, account); err != nil {
		return result, fmt.Errorf("save account: %w", err)
	}
	s.logger.Info("signed in", "host", sess.ServerHost, "username", sess.Username, "protocol", sess.Protocol.String())
	return result, nil
}

// Restore signs in with the saved account token. It reports false when no
// account is saved.
func (s *Service) Restore(ctx context.Context) (session.Result, bool, error) {
	account, ok, err := s.repo.CurrentAccount(ctx)
	if err != nil {
		return session.ResultPassword, false, fmt.Errorf("load saved account: %w", err)
	}
	if !ok {
		return session.ResultPassword, false, nil
	}
	result, err := s.auth.Initialize(ctx, session.Options{
		Host:      account.Host,
		Username:  account.Username,
		AuthToken: account.Token,
		Flavor:    account.Flavor,
	}, nil)
	if err != nil {
		return result, true, fmt.Errorf("restore session for %s@%s: %w", account.Username, account.Host, err)
	}
	return result, true, nil
}

// SignOut drops the session, forgets the saved account and empties the
// shared stores.
func (s *Service) SignOut(ctx context.Context) error {
	sess := s.auth.Session()
	s.auth.Reset()
	if s.state != nil {
		for _, id := range s.state.Feeds.IDs() {
			s.state.Feeds.Remove(id)
		}
		s.state.Posts.Clear()
		s.state.Site.Clear()
	}
	if sess.ServerHost == "" {
		return nil
	}
	if err := s.repo.DeleteAccount(ctx, sess.ServerHost, sess.Username); err != nil {
		return fmt.Errorf("forget account: %w", err)
	}
	s.logger.Info("signed out", "host", sess.ServerHost, "username", sess.Username)
	return nil
}

// LoadSettings reads stored preferences into the shared holder.
func (s *Service) LoadSettings(ctx context.Context) (settings.Settings, error) {
	loaded, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return s.prefs.Get(), fmt.Errorf("load settings: %w", err)
	}
	if err := s.prefs.Set(loaded); err != nil {
		return s.prefs.Get(), err
	}
	return loaded, nil
}

func (s *Service) SaveSettings(ctx context.Context, next settings.Settings) error {
	if err := s.repo.SaveSettings(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return s.prefs.Set(next)
}

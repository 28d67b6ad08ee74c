package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/glabrego/lemmy-cli/internal/api"
	"github.com/glabrego/lemmy-cli/internal/api/lemmy"
	"github.com/glabrego/lemmy-cli/internal/store"
)

type fakeServer struct {
	mu          sync.Mutex
	version     string
	loginStatus int
	loginBody   string
	regStatus   int
	regBody     string
	dials       []string
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v3/site":
			_ = json.NewEncoder(w).Encode(map[string]any{"version": f.version, "site_view": map[string]any{"site": map[string]any{"id": 1, "name": "test"}}})
		case "/api/v3/user/login":
			f.mu.Lock()
			status, body := f.loginStatus, f.loginBody
			f.mu.Unlock()
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		case "/api/v3/user/register":
			w.WriteHeader(f.regStatus)
			_, _ = w.Write([]byte(f.regBody))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newManager(t *testing.T, f *fakeServer) (*Manager, *store.SiteStore) {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)
	site := store.NewSiteStore()
	dial := func(flavor api.Flavor, baseURL, token string) (api.Backend, error) {
		f.mu.Lock()
		f.dials = append(f.dials, baseURL+"|"+token)
		f.mu.Unlock()
		return lemmy.New(ts.URL, lemmy.Options{Token: token, HTTPClient: ts.Client()}), nil
	}
	return NewManager(dial, site, nil), site
}

func signedToken(t *testing.T, sub any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "iat": 1700000000}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestInitialize_WithTokenIsReady(t *testing.T) {
	f := &fakeServer{version: "0.19.3"}
	m, site := newManager(t, f)

	res, err := m.Initialize(context.Background(), Options{Host: "https://lemmy.example/", Username: "me", AuthToken: "opaque"}, nil)
	if err != nil || res != ResultSuccess {
		t.Fatalf("expected SUCCESS, got %v err=%v", res, err)
	}
	s := m.Session()
	if !s.Initialized || s.AuthToken != "opaque" || s.ServerHost != "lemmy.example" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.Protocol != api.ProtocolV019 || site.Protocol() != api.ProtocolV019 {
		t.Fatalf("expected v0.19 protocol, got session=%v site=%v", s.Protocol, site.Protocol())
	}
	if !m.Ready() {
		t.Fatal("expected ready backend")
	}
	if f.dials[0] != "https://lemmy.example|opaque" {
		t.Fatalf("unexpected dial: %v", f.dials)
	}
}

func TestInitialize_LoginSuccessReinitializesWithToken(t *testing.T) {
	tok := signedToken(t, float64(42))
	f := &fakeServer{version: "0.18.5", loginStatus: http.StatusOK, loginBody: `{"jwt":"` + tok + `"}`}
	m, _ := newManager(t, f)

	res, err := m.Initialize(context.Background(), Options{Host: "lemmy.example", Username: "me", Password: "pw"}, nil)
	if err != nil || res != ResultSuccess {
		t.Fatalf("expected SUCCESS, got %v err=%v", res, err)
	}
	s := m.Session()
	if s.AuthToken != tok || s.UserID != 42 || s.IssuedAt.Unix() != 1700000000 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.Protocol != api.ProtocolV018 {
		t.Fatalf("expected v0.18, got %v", s.Protocol)
	}
	if len(f.dials) != 2 {
		t.Fatalf("expected a second dial with the token, got %v", f.dials)
	}
}

func TestInitialize_MissingTOTP(t *testing.T) {
	f := &fakeServer{version: "0.19.0", loginStatus: http.StatusBadRequest, loginBody: `{"error":"missing_totp_token"}`}
	m, _ := newManager(t, f)

	res, err := m.Initialize(context.Background(), Options{Host: "lemmy.example", Username: "me", Password: "pw"}, nil)
	if err != nil || res != ResultTOTP {
		t.Fatalf("expected TOTP, got %v err=%v", res, err)
	}
	if m.Ready() {
		t.Fatal("session must not be ready")
	}
	if _, ok := m.Backend(); ok {
		t.Fatal("handle must be discarded")
	}
}

func TestInitialize_BadPassword(t *testing.T) {
	f := &fakeServer{version: "0.19.0", loginStatus: http.StatusBadRequest, loginBody: `{"error":"incorrect_login"}`}
	m, _ := newManager(t, f)

	res, err := m.Initialize(context.Background(), Options{Host: "lemmy.example", Username: "me", Password: "bad"}, nil)
	if err != nil || res != ResultPassword {
		t.Fatalf("expected PASSWORD, got %v err=%v", res, err)
	}
	if m.Session().AuthToken != "" {
		t.Fatal("token must be empty")
	}
}

func TestInitialize_LoginWithoutJWTNeedsPassword(t *testing.T) {
	f := &fakeServer{version: "0.19.3", loginStatus: http.StatusOK, loginBody: `{"jwt":"abc"}`}
	m, _ := newManager(t, f)
	opts := Options{Host: "lemmy.example", Username: "me", Password: "pw"}

	res, err := m.Initialize(context.Background(), opts, nil)
	if err != nil || res != ResultSuccess {
		t.Fatalf("expected SUCCESS, got %v err=%v", res, err)
	}
	if s := m.Session(); s.AuthToken != "abc" || s.UserID != 0 {
		t.Fatalf("opaque token must be kept without claims, got %+v", s)
	}

	f.mu.Lock()
	f.loginBody = `{}`
	f.mu.Unlock()
	res, err = m.Initialize(context.Background(), opts, nil)
	if err != nil || res != ResultPassword {
		t.Fatalf("expected PASSWORD, got %v err=%v", res, err)
	}
	if m.Ready() {
		t.Fatal("session must not be ready without a token")
	}
	if m.Session().AuthToken != "" {
		t.Fatalf("token must be cleared, got %q", m.Session().AuthToken)
	}
}

func TestInitialize_Signup(t *testing.T) {
	cases := []struct {
		name     string
		password string
		status   int
		body     string
		want     Result
	}{
		{"no password", "", http.StatusOK, `{}`, ResultPassword},
		{"verify email", "pw", http.StatusOK, `{"jwt":null,"verify_email_sent":true}`, ResultVerifyEmail},
		{"no jwt", "pw", http.StatusOK, `{"jwt":null,"registration_created":true}`, ResultPassword},
		{"bad captcha", "pw", http.StatusBadRequest, `{"error":"captcha_incorrect"}`, ResultCaptcha},
		{"other failure", "pw", http.StatusBadRequest, `{"error":"user_already_exists"}`, ResultPassword},
		{"success", "pw", http.StatusOK, `{"jwt":"issued"}`, ResultSuccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeServer{version: "0.19.1", regStatus: tc.status, regBody: tc.body}
			m, site := newManager(t, f)
			res, err := m.Initialize(context.Background(),
				Options{Host: "lemmy.example", Username: "new", Password: tc.password},
				&SignupOptions{Email: "new@example.com", CaptchaUUID: "u", CaptchaAnswer: "a"},
			)
			if err != nil {
				t.Fatalf("Initialize returned error: %v", err)
			}
			if res != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, res)
			}
			if tc.want == ResultSuccess {
				if m.Session().AuthToken != "issued" {
					t.Fatalf("expected issued token, got %+v", m.Session())
				}
				return
			}
			m.mu.RLock()
			leftover := m.backend
			m.mu.RUnlock()
			if leftover != nil || m.Session().ServerHost != "" {
				t.Fatalf("unsuccessful signup must drop the backend, session=%+v", m.Session())
			}
			if _, ok := site.Get(); ok {
				t.Fatal("unsuccessful signup must clear the probed site")
			}
		})
	}
}

func TestInitialize_ProbeFailure(t *testing.T) {
	m := NewManager(func(api.Flavor, string, string) (api.Backend, error) {
		return lemmy.New("http://127.0.0.1:1", lemmy.Options{}), nil
	}, store.NewSiteStore(), nil)

	res, err := m.Initialize(context.Background(), Options{Host: "lemmy.example", AuthToken: "t"}, nil)
	if err == nil || res != ResultPassword {
		t.Fatalf("expected PASSWORD with error, got %v err=%v", res, err)
	}
	if m.Ready() {
		t.Fatal("session must not be ready")
	}
}

func TestInitialize_KbinIsUnsupported(t *testing.T) {
	m := NewManager(NewDialer(DialerConfig{}), store.NewSiteStore(), nil)
	_, err := m.Initialize(context.Background(), Options{Host: "kbin.example", AuthToken: "t", Flavor: api.FlavorKbin}, nil)
	if !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("expected ErrUnsupportedFlavor, got %v", err)
	}

	_, err = m.Initialize(context.Background(), Options{Host: "x.example", AuthToken: "t", Flavor: "mastodon"}, nil)
	if !errors.Is(err, api.ErrUnsupportedFlavor) {
		t.Fatalf("expected ErrUnsupportedFlavor for unknown flavor, got %v", err)
	}
}

func TestReset_IsIdempotent(t *testing.T) {
	f := &fakeServer{version: "0.19.3"}
	m, site := newManager(t, f)
	if _, err := m.Initialize(context.Background(), Options{Host: "lemmy.example", AuthToken: "t"}, nil); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	m.Reset()
	m.Reset()
	if m.Ready() || m.Session().Initialized {
		t.Fatal("expected reset session")
	}
	if _, ok := site.Get(); ok {
		t.Fatal("expected site cache cleared")
	}
}

func TestBaseURL(t *testing.T) {
	cases := map[string]string{
		"https://Lemmy.World/c/golang": "lemmy.world",
		"lemmy.ml":                     "lemmy.ml",
		"http://host:8536?x=1":         "host:8536",
		"":                             "",
	}
	for in, want := range cases {
		if got := BaseURL(in); got != want {
			t.Fatalf("BaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResultString(t *testing.T) {
	if ResultVerifyEmail.String() != "VERIFY_EMAIL" || ResultTOTP.String() != "TOTP" {
		t.Fatal("unexpected result names")
	}
}

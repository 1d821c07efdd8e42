package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneauth/internal/identity/entity"
	"github.com/shandysiswandi/phoneauth/internal/pkg/clock"
	"github.com/shandysiswandi/phoneauth/internal/pkg/config"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneauth/internal/pkg/hash"
	"github.com/shandysiswandi/phoneauth/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneauth/internal/pkg/jwt"
	"github.com/shandysiswandi/phoneauth/internal/pkg/ratelimit"
	"github.com/shandysiswandi/phoneauth/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory repoDB. A single mutex makes every method atomic.
type memRepo struct {
	mu         sync.Mutex
	identities map[string]*entity.Identity
	profiles   map[int64]*entity.Profile
	tokens     map[string]*memToken
	usernames  map[string]int64
	fail       error
	// onLocked runs while MutateIdentity holds the identity, before fn.
	onLocked func()
}

type memToken struct {
	entity.RefreshToken
	revoked    bool
	replacedBy *int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		identities: make(map[string]*entity.Identity),
		profiles:   make(map[int64]*entity.Profile),
		tokens:     make(map[string]*memToken),
		usernames:  make(map[string]int64),
	}
}

func (r *memRepo) UpsertChallenge(_ context.Context, in entity.NewChallenge) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail != nil {
		return 0, false, r.fail
	}

	id, ok := r.identities[in.PhoneNumber]
	if !ok {
		id = &entity.Identity{ID: in.ID, PhoneNumber: in.PhoneNumber}
		r.identities[in.PhoneNumber] = id
		r.profiles[in.ID] = &entity.Profile{ID: in.ID, PhoneNumber: in.PhoneNumber, DateJoined: in.IssuedAt}
	}
	id.Challenge.Issue(in.CodeHash, in.IssuedAt)

	return id.ID, !ok, nil
}

func (r *memRepo) MutateIdentity(_ context.Context, phone string, fn func(*entity.Identity) bool) (*entity.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail != nil {
		return nil, r.fail
	}

	stored, ok := r.identities[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	if r.onLocked != nil {
		r.onLocked()
	}

	cp := *stored
	if fn(&cp) {
		*stored = cp
	}

	return &cp, nil
}

func (r *memRepo) identity(phone string) entity.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.identities[phone]; ok {
		return *id
	}
	return entity.Identity{}
}

func (r *memRepo) GetProfile(_ context.Context, id int64) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) UpdateProfile(_ context.Context, id int64, patch entity.ProfilePatch) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	if patch.Username != nil && *patch.Username != "" {
		if owner, taken := r.usernames[*patch.Username]; taken && owner != id {
			return nil, goerror.ErrConflict
		}
	}

	if patch.Username != nil {
		if p.Username != nil {
			delete(r.usernames, *p.Username)
		}
		p.Username = nil
		if *patch.Username != "" {
			u := *patch.Username
			p.Username = &u
			r.usernames[u] = id
		}
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}

	cp := *p
	return &cp, nil
}

func (r *memRepo) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[in.Token] = &memToken{RefreshToken: in}
	return nil
}

func (r *memRepo) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	out := &entity.UserRefreshToken{
		UserID:                   t.UserID,
		RefreshID:                t.ID,
		RefreshRevoked:           t.revoked,
		RefreshReplacedByTokenID: t.replacedBy,
		RefreshExpiresAt:         t.ExpiresAt,
	}
	for _, id := range r.identities {
		if id.ID == t.UserID {
			out.UserPhone = id.PhoneNumber
			out.UserActive = id.IsActive
		}
	}

	return out, nil
}

func (r *memRepo) RotateRefreshToken(_ context.Context, ro entity.RotateRefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.ID == ro.OldID && t.UserID == ro.UserID && !t.revoked {
			t.revoked = true
			t.replacedBy = &ro.NewID
			r.tokens[ro.NewToken] = &memToken{RefreshToken: entity.RefreshToken{
				ID: ro.NewID, UserID: ro.UserID, Token: ro.NewToken, ExpiresAt: ro.NewExpiresAt,
			}}
			return nil
		}
	}

	return goerror.ErrNotFound
}

func (r *memRepo) RevokeRefreshToken(_ context.Context, userID int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok || t.UserID != userID || t.revoked {
		return goerror.ErrNotFound
	}
	t.revoked = true
	return nil
}

func (r *memRepo) RevokeAllRefreshToken(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.UserID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (r *memRepo) activeTokens(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && !t.revoked {
			n++
		}
	}
	return n
}

type memMessaging struct {
	mu         sync.Mutex
	created    []UserCreatedEvent
	firstLogin []UserFirstLoginEvent
	fail       error
}

func (m *memMessaging) PublishUserCreated(_ context.Context, msg UserCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, msg)
	return m.fail
}

func (m *memMessaging) PublishUserFirstLogin(_ context.Context, msg UserFirstLoginEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.firstLogin = append(m.firstLogin, msg)
	return m.fail
}

type memNotifier struct {
	mu   sync.Mutex
	sent []entity.Notification
	fail error
}

func (n *memNotifier) Send(ctx context.Context, msg entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return errors.New("notification sent without deadline")
	}
	n.sent = append(n.sent, msg)
	return n.fail
}

func (n *memNotifier) byTemplate(tpl entity.Template) []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []entity.Notification
	for _, m := range n.sent {
		if m.Template == tpl {
			out = append(out, m)
		}
	}
	return out
}

type stubLimiter struct {
	mu    sync.Mutex
	deny  bool
	retry time.Duration
	err   error
	keys  []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.keys = append(l.keys, key)
	if l.err != nil {
		return ratelimit.Decision{}, l.err
	}
	if l.deny {
		return ratelimit.Decision{RetryAfter: l.retry}, nil
	}
	return ratelimit.Decision{Allowed: true}, nil
}

// seqCodes hands out codes in order and repeats the last one.
type seqCodes struct {
	mu    sync.Mutex
	codes []int
	err   error
}

func (g *seqCodes) Generate() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return 0, g.err
	}
	c := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return c, nil
}

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return s.n.Add(1) }

type seqToken struct{ n atomic.Int64 }

func (s *seqToken) Generate() string { return fmt.Sprintf("refresh-%d", s.n.Add(1)) }

type stubJWT struct{}

func (stubJWT) Generate(uid int64, phone string) (string, error) {
	return fmt.Sprintf("access-%d-%s", uid, phone), nil
}

func (stubJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, jwt.ErrInvalidToken }

type fixture struct {
	uc       *Usecase
	repo     *memRepo
	msg      *memMessaging
	notifier *memNotifier
	reqLimit *stubLimiter
	verLimit *stubLimiter
	codes    *seqCodes
	now      time.Time
	nowMu    sync.Mutex
}

func newFixture(t *testing.T, codes ...int) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  tz: UTC\n"))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	hmac, err := hash.NewHMACSHA256("usecase-test-secret")
	require.NoError(t, err)

	if len(codes) == 0 {
		codes = []int{123456}
	}

	f := &fixture{
		repo:     newMemRepo(),
		msg:      &memMessaging{},
		notifier: &memNotifier{},
		reqLimit: &stubLimiter{},
		verLimit: &stubLimiter{},
		codes:    &seqCodes{codes: codes},
		now:      time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}

	f.uc = New(Dependency{
		RepoDB:         f.repo,
		RepoMessaging:  f.msg,
		Notifier:       f.notifier,
		RequestLimiter: f.reqLimit,
		VerifyLimiter:  f.verLimit,
		Validator:      v,
		Config:         cfg,
		HMAC:           hmac,
		OTP:            f.codes,
		UID:            &seqID{},
		Token:          &seqToken{},
		Clock:          clock.Func(f.clock),
		JWT:            stubJWT{},
		Instrument:     instrument.NewNoop(),
		Goroutine:      goroutine.NewManager(10),
	})

	return f
}

func (f *fixture) clock() time.Time {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()
	f.now = f.now.Add(d)
}

// settle waits for background notifications and rearms the manager.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	require.NoError(t, f.uc.goroutine.Wait())
	f.uc.goroutine = goroutine.NewManager(10)
}

func authed(userID int64, phone string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, Phone: phone})
}

// requireGoError asserts err is a goerror with code and returns its fields.
func requireGoError(t *testing.T, err error, code goerror.Code) map[string]string {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, code, gerr.Code(), gerr.String())

	return maps.Clone(gerr.Fields())
}

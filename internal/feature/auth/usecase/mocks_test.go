package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"social_backend/internal/feature/auth/domain/entity"
	otpentity "social_backend/internal/feature/otp/domain/entity"
	otpusecase "social_backend/internal/feature/otp/usecase"
	"social_backend/internal/platform/mail"
)

// mockAccountRepository is an in-memory AccountRepository. The Func fields
// override the default behaviour when set.
type mockAccountRepository struct {
	mu       sync.Mutex
	accounts map[uint]*entity.Account
	nextID   uint

	CreateFunc         func(account *entity.Account) error
	FindByEmailFunc    func(email string) (*entity.Account, error)
	UpdatePasswordFunc func(id uint, hash string) error
}

func newMockAccountRepository(seed ...*entity.Account) *mockAccountRepository {
	m := &mockAccountRepository{accounts: map[uint]*entity.Account{}}
	for _, a := range seed {
		m.nextID++
		a.ID = m.nextID
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountRepository) Create(_ context.Context, account *entity.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == account.Email || a.Username == account.Username {
			return ErrAccountExists
		}
	}
	m.nextID++
	account.ID = m.nextID
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountRepository) FindByID(_ context.Context, id uint) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email || a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountRepository) UpdatePassword(_ context.Context, id uint, hash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(id, hash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	a.Password = hash
	return nil
}

func (m *mockAccountRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}

// mockPendingRepository is an in-memory PendingRegistrationRepository.
type mockPendingRepository struct {
	mu      sync.Mutex
	pending map[string]*entity.PendingRegistration

	DeleteFunc func(email string) error
}

func newMockPendingRepository() *mockPendingRepository {
	return &mockPendingRepository{pending: map[string]*entity.PendingRegistration{}}
}

func (m *mockPendingRepository) Upsert(_ context.Context, p *entity.PendingRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.pending[p.Email] = &cp
	return nil
}

func (m *mockPendingRepository) FindByEmail(_ context.Context, email string) (*entity.PendingRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pending[email]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrPendingNotFound
}

func (m *mockPendingRepository) Delete(_ context.Context, email string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, email)
	return nil
}

func (m *mockPendingRepository) has(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[email]
	return ok
}

// mockSessionRepository is an in-memory SessionRepository.
type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session

	CreateFunc func(s *entity.Session) error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*entity.Session{}}
}

func (m *mockSessionRepository) Create(_ context.Context, s *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepository) FindByID(_ context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *mockSessionRepository) RevokeAllByAccountID(_ context.Context, accountID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range m.sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.IsExpired(time.Now()) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// fakeCodeIssuer hands out sequential codes and keeps only the latest one
// per subject and purpose, consuming it on a successful Verify.
type fakeCodeIssuer struct {
	mu    sync.Mutex
	seq   int
	codes map[string]string

	CheckFunc func(subject, code string) (bool, error)
	IssueErr  error
}

func newFakeCodeIssuer() *fakeCodeIssuer {
	return &fakeCodeIssuer{codes: map[string]string{}}
}

func (f *fakeCodeIssuer) key(subject string, purpose otpentity.Purpose) string {
	return string(purpose) + ":" + subject
}

func (f *fakeCodeIssuer) Issue(_ context.Context, subject string, purpose otpentity.Purpose, _ time.Duration) (string, error) {
	if f.IssueErr != nil {
		return "", f.IssueErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	code := fmt.Sprintf("CODE%02d", f.seq)
	f.codes[f.key(subject, purpose)] = code
	return code, nil
}

func (f *fakeCodeIssuer) Check(_ context.Context, subject string, purpose otpentity.Purpose, code string) (bool, error) {
	if f.CheckFunc != nil {
		return f.CheckFunc(subject, code)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.codes[f.key(subject, purpose)]
	return ok && current == code, nil
}

func (f *fakeCodeIssuer) Verify(_ context.Context, subject string, purpose otpentity.Purpose, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(subject, purpose)
	if current, ok := f.codes[k]; ok && current == code {
		delete(f.codes, k)
		return true, nil
	}
	return false, nil
}

func (f *fakeCodeIssuer) latest(subject string, purpose otpentity.Purpose) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[f.key(subject, purpose)]
}

// memCodeRepository は本物の otpusecase.Issuer を動かすためのインメモリ実装です。
type memCodeRepository struct {
	mu      sync.Mutex
	records map[string]otpentity.VerificationCode
}

var _ otpusecase.CodeRepository = (*memCodeRepository)(nil)

func newMemCodeRepository() *memCodeRepository {
	return &memCodeRepository{records: map[string]otpentity.VerificationCode{}}
}

func (m *memCodeRepository) key(subject string, purpose otpentity.Purpose) string {
	return string(purpose) + "|" + subject
}

func (m *memCodeRepository) Save(_ context.Context, code *otpentity.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[m.key(code.Subject, code.Purpose)] = *code
	return nil
}

func (m *memCodeRepository) Find(_ context.Context, subject string, purpose otpentity.Purpose) (*otpentity.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[m.key(subject, purpose)]
	if !ok {
		return nil, otpusecase.ErrCodeNotFound
	}
	return &rec, nil
}

func (m *memCodeRepository) Consume(_ context.Context, subject string, purpose otpentity.Purpose, codeHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(subject, purpose)
	if rec, ok := m.records[k]; !ok || rec.CodeHash != codeHash {
		return false, nil
	}
	delete(m.records, k)
	return true, nil
}

func (m *memCodeRepository) Delete(_ context.Context, subject string, purpose otpentity.Purpose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, m.key(subject, purpose))
	return nil
}

func (m *memCodeRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, rec := range m.records {
		if rec.IsExpired(now) {
			delete(m.records, k)
			n++
		}
	}
	return n, nil
}

// recordingMailer collects sent messages.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

// mockJWTGenerator is a mock implementation of JWTGenerator interface.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, username string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, username string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, username)
	}
	return "mock-jwt-token", nil
}

func (m *mockJWTGenerator) Expiration() time.Duration { return 15 * time.Minute }

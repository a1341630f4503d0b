package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/soundwave/accounts-api/internal/core/domain"
	"github.com/soundwave/accounts-api/internal/core/ports"
	"github.com/soundwave/accounts-api/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*domain.Account

	findErr   error
	insertErr error
	updateErr error

	finds   int
	inserts int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) Insert(_ context.Context, name, email, phone, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	if _, exists := r.accounts[email]; exists {
		return 0, domain.ErrEmailTaken
	}
	r.nextID++
	r.accounts[email] = &domain.Account{ID: r.nextID, Name: name, Email: email, Phone: phone, PasswordHash: hash}
	return r.nextID, nil
}

func (r *stubAccountRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	a, ok := r.accounts[email]
	if !ok {
		return 0, nil
	}
	a.PasswordHash = hash
	return 1, nil
}

func (r *stubAccountRepo) Ping(context.Context) error { return nil }

type stubHasher struct {
	hashErr   error
	verifyErr error
}

func (h *stubHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *stubHasher) Verify(password, hash string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+password, nil
}

func newTestService(repo ports.AccountRepository) *AccountService {
	return NewAccountService(repo, security.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func ann() ports.RegisterInput {
	return ports.RegisterInput{Name: "Ann", Email: "a@x.com", Phone: "1234567890", Password: "secret1"}
}

func assertKind(t *testing.T, err, kind error, msg string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected kind %v, got %v", kind, err)
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T", err)
	}
	if de.Message != msg {
		t.Fatalf("expected message %q, got %q", msg, de.Message)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	id, err := svc.Register(context.Background(), ann())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	stored := repo.accounts["a@x.com"]
	if stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	cases := map[string]func(in *ports.RegisterInput){
		"name":     func(in *ports.RegisterInput) { in.Name = "" },
		"email":    func(in *ports.RegisterInput) { in.Email = "" },
		"phone":    func(in *ports.RegisterInput) { in.Phone = "" },
		"password": func(in *ports.RegisterInput) { in.Password = "" },
	}
	for field, blank := range cases {
		t.Run(field, func(t *testing.T) {
			repo := newStubAccountRepo()
			svc := newTestService(repo)

			in := ann()
			blank(&in)
			_, err := svc.Register(context.Background(), in)
			assertKind(t, err, domain.ErrValidation, domain.MsgAllFieldsRequired)
			if repo.finds != 0 || repo.inserts != 0 {
				t.Fatalf("store must not be touched on validation failure")
			}
		})
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), ann()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	in := ann()
	in.Password = "another"
	_, err := svc.Register(context.Background(), in)
	assertKind(t, err, domain.ErrConflict, domain.MsgEmailRegistered)
	if repo.inserts != 1 {
		t.Fatalf("expected a single insert, got %d", repo.inserts)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(repo.accounts))
	}
}

func TestAccountService_Register_LostRaceIsConflict(t *testing.T) {
	repo := newStubAccountRepo()
	repo.insertErr = domain.ErrEmailTaken
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), ann())
	assertKind(t, err, domain.ErrConflict, domain.MsgEmailRegistered)
}

func TestAccountService_Register_LookupFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), ann())
	assertKind(t, err, domain.ErrInternal, domain.MsgServerError)
	if repo.inserts != 0 {
		t.Fatalf("insert must not run after a failed lookup")
	}
}

func TestAccountService_Register_HashFailure(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubHasher{hashErr: errors.New("boom")}, zerolog.Nop())

	_, err := svc.Register(context.Background(), ann())
	assertKind(t, err, domain.ErrInternal, domain.MsgPasswordProcessing)
	if repo.inserts != 0 {
		t.Fatalf("insert must not run after a hash failure")
	}
}

func TestAccountService_Register_InsertFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.insertErr = errors.New("disk full")
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), ann())
	assertKind(t, err, domain.ErrInternal, domain.MsgCreateFailed)
	if len(repo.accounts) != 0 {
		t.Fatalf("expected no rows after failed insert")
	}
}

func TestAccountService_Register_SurvivesCancelledContext(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubHasher{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Register(ctx, ann()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected the insert to complete")
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	id, _ := svc.Register(context.Background(), ann())

	account, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if account.ID != id || account.Name != "Ann" || account.Email != "a@x.com" || account.Phone != "1234567890" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.PasswordHash != "" {
		t.Fatalf("password hash must not leave the service")
	}
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	_, err := svc.Login(context.Background(), "", "pw")
	assertKind(t, err, domain.ErrValidation, domain.MsgCredentialsRequired)

	_, err = svc.Login(context.Background(), "a@x.com", "")
	assertKind(t, err, domain.ErrValidation, domain.MsgCredentialsRequired)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	_, err := svc.Login(context.Background(), "ghost@x.com", "pw")
	assertKind(t, err, domain.ErrNotFound, domain.MsgUserDoesNotExist)
}

func TestAccountService_Login_WrongPasswordNeverLocks(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)
	_, _ = svc.Register(context.Background(), ann())

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), "a@x.com", "wrong")
		assertKind(t, err, domain.ErrUnauthorized, domain.MsgWrongPassword)
	}

	if _, err := svc.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("expected login to succeed after failed attempts: %v", err)
	}
}

func TestAccountService_Login_EmailIsCaseSensitive(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)
	_, _ = svc.Register(context.Background(), ann())

	_, err := svc.Login(context.Background(), "A@X.COM", "secret1")
	assertKind(t, err, domain.ErrNotFound, domain.MsgUserDoesNotExist)
}

func TestAccountService_Login_LookupFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("timeout")
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	assertKind(t, err, domain.ErrInternal, domain.MsgServerError)
}

func TestAccountService_Login_VerifyFailure(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubHasher{}, zerolog.Nop())
	_, _ = svc.Register(context.Background(), ann())

	svc.hasher = &stubHasher{verifyErr: errors.New("corrupt hash")}
	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	assertKind(t, err, domain.ErrInternal, domain.MsgPasswordVerification)
}

// ---------------------------------------------------------------------------
// CheckEmail
// ---------------------------------------------------------------------------

func TestAccountService_CheckEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)
	_, _ = svc.Register(context.Background(), ann())

	exists, err := svc.CheckEmail(context.Background(), "a@x.com")
	if err != nil || !exists {
		t.Fatalf("expected exists=true, got %v err=%v", exists, err)
	}

	exists, err = svc.CheckEmail(context.Background(), "ghost@x.com")
	if err != nil || exists {
		t.Fatalf("expected exists=false, got %v err=%v", exists, err)
	}
}

func TestAccountService_CheckEmail_Errors(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, err := svc.CheckEmail(context.Background(), "")
	assertKind(t, err, domain.ErrValidation, domain.MsgEmailRequired)

	repo.findErr = errors.New("down")
	_, err = svc.CheckEmail(context.Background(), "a@x.com")
	assertKind(t, err, domain.ErrInternal, domain.MsgServerError)
}

// ---------------------------------------------------------------------------
// ResetPassword
// ---------------------------------------------------------------------------

func TestAccountService_ResetPassword_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)
	_, _ = svc.Register(context.Background(), ann())

	if err := svc.ResetPassword(context.Background(), "a@x.com", "secret2"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	assertKind(t, err, domain.ErrUnauthorized, domain.MsgWrongPassword)

	if _, err := svc.Login(context.Background(), "a@x.com", "secret2"); err != nil {
		t.Fatalf("expected login with new password to succeed: %v", err)
	}
}

func TestAccountService_ResetPassword_Validation(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	err := svc.ResetPassword(context.Background(), "", "secret2")
	assertKind(t, err, domain.ErrValidation, domain.MsgResetFieldsRequired)

	err = svc.ResetPassword(context.Background(), "a@x.com", "")
	assertKind(t, err, domain.ErrValidation, domain.MsgResetFieldsRequired)

	// Rejected before the store is consulted, so the email need not exist.
	err = svc.ResetPassword(context.Background(), "ghost@x.com", "12345")
	assertKind(t, err, domain.ErrValidation, domain.MsgPasswordTooShort)
}

func TestAccountService_ResetPassword_LengthCountsCharacters(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)
	_, _ = svc.Register(context.Background(), ann())

	// Six characters, twelve bytes.
	if err := svc.ResetPassword(context.Background(), "a@x.com", "ééééé1"); err != nil {
		t.Fatalf("expected six characters to be accepted: %v", err)
	}
}

func TestAccountService_ResetPassword_UnknownEmail(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	err := svc.ResetPassword(context.Background(), "ghost@x.com", "secret2")
	assertKind(t, err, domain.ErrNotFound, domain.MsgUserNotFound)
}

func TestAccountService_ResetPassword_Failures(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, &stubHasher{hashErr: errors.New("boom")}, zerolog.Nop())

	err := svc.ResetPassword(context.Background(), "a@x.com", "secret2")
	assertKind(t, err, domain.ErrInternal, domain.MsgPasswordProcessing)

	svc.hasher = &stubHasher{}
	repo.updateErr = errors.New("lost connection")
	err = svc.ResetPassword(context.Background(), "a@x.com", "secret2")
	assertKind(t, err, domain.ErrInternal, domain.MsgPasswordUpdateFailed)
}

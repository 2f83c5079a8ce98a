package identity

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/notify"
	"jobboard/internal/session"
	"jobboard/internal/store"
	"jobboard/internal/store/storetest"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

type fixture struct {
	svc      *Service
	store    *store.Store
	outbox   *notify.Outbox
	sessions *session.MemoryStore
}

func newFixture(t *testing.T, requireConfirmed bool) fixture {
	t.Helper()
	s := storetest.New(t)
	outbox := &notify.Outbox{}
	sessions := session.NewMemoryStore(30*time.Minute, 0)
	t.Cleanup(sessions.Close)

	svc := NewService(s, sessions, outbox, Options{
		RequireConfirmedAccount: requireConfirmed,
		BaseURL:                 "https://jobs.example.com/",
		Defaults:                DefaultProvisioning(),
	}, logging.Discard())
	require.NoError(t, svc.Seed(context.Background(), "admin@gmail.com", "P@ssw0rd"))

	return fixture{svc: svc, store: s, outbox: outbox, sessions: sessions}
}

func count(t *testing.T, s *store.Store, model interface{}) int64 {
	t.Helper()
	n, err := s.Count(context.Background(), model, "")
	require.NoError(t, err)
	return n
}

func registration(email, userType string) models.RegisterRequest {
	return models.RegisterRequest{Email: email, Password: "secret1", ConfirmPassword: "secret1", UserType: userType}
}

func TestRegisterJobSeekerProvisionsSeekerAndProfile(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("a@x.com", "JobSeeker"))
	require.NoError(t, err)

	// admin from Seed plus the new account
	assert.Equal(t, int64(2), count(t, f.store, &models.User{}))
	assert.Equal(t, int64(1), count(t, f.store, &models.JobSeeker{}))
	assert.Equal(t, int64(1), count(t, f.store, &models.Profile{}))
	assert.Zero(t, count(t, f.store, &models.Employer{}))

	seeker, err := f.store.JobSeekerByUserID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Default Name", seeker.FullName)

	profiles, err := f.store.ProfilesForSeeker(ctx, seeker.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Default Resume", profiles[0].Resume)
	assert.Equal(t, "Default Contact Information", profiles[0].ContactInformation)

	roles, err := f.store.RoleNames(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"JobSeeker"}, roles)
}

func TestRegisterEmployer(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("boss@x.com", "Employer"))
	require.NoError(t, err)

	employer, err := f.store.EmployerByUserID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Default Company", employer.CompanyName)
	assert.Zero(t, count(t, f.store, &models.JobSeeker{}))
	assert.Zero(t, count(t, f.store, &models.Profile{}))
}

func TestRegisterRequiresConfirmation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	req := registration("a@x.com", "JobSeeker")
	req.ReturnURL = "/Jobs"
	res, err := f.svc.Register(ctx, req)
	require.NoError(t, err)

	assert.Nil(t, res.Session)
	assert.True(t, strings.HasPrefix(res.RedirectURL, "/Identity/Account/RegisterConfirmation?"))
	assert.Contains(t, res.RedirectURL, "email=a%40x.com")

	require.Len(t, f.outbox.Emails, 1)
	mail := f.outbox.Emails[0]
	assert.Equal(t, "a@x.com", mail.To)
	assert.Equal(t, "Confirm your email", mail.Subject)
	assert.Contains(t, mail.Body, "https://jobs.example.com/Identity/Account/ConfirmEmail?")

	// login is refused until the address is confirmed
	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	user, err := f.store.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ConfirmEmail(ctx, user.ID, "wrong"), utils.ErrValidation)
	require.NoError(t, f.svc.ConfirmEmail(ctx, user.ID, user.ConfirmationToken))

	sess, err := f.svc.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	p, err := f.svc.Authenticate(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, p.Has(auth.RoleJobSeeker))
	assert.Equal(t, "a@x.com", p.Email)

	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	_, err = f.svc.Authenticate(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestConfirmationLinkCarriesToken(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registration("c@x.com", "Employer"))
	require.NoError(t, err)

	body := f.outbox.Emails[0].Body
	start := strings.Index(body, "href='") + len("href='")
	end := strings.Index(body[start:], "'") + start
	link, err := url.Parse(strings.ReplaceAll(body[start:end], "&amp;", "&"))
	require.NoError(t, err)

	assert.Equal(t, res.User.ID, link.Query().Get("userId"))
	require.NoError(t, f.svc.ConfirmEmail(ctx, link.Query().Get("userId"), link.Query().Get("code")))
}

func TestRegisterSignsInWhenConfirmationNotRequired(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	req := registration("a@x.com", "Employer")
	req.ReturnURL = "https://evil.example/"
	res, err := f.svc.Register(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, res.Session)
	assert.Equal(t, "/", res.RedirectURL)

	p, err := f.svc.Authenticate(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.True(t, p.Has(auth.RoleEmployer))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registration("a@x.com", "JobSeeker"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registration("A@x.com", "Employer"))
	require.Error(t, err)

	var ce *utils.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Fields, "Email")
	assert.Zero(t, count(t, f.store, &models.Employer{}))
	assert.Len(t, f.outbox.Emails, 1)
}

func TestRegisterValidationPersistsNothing(t *testing.T) {
	f := newFixture(t, true)

	req := registration("a@x.com", "Admin")
	_, err := f.svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrValidation)
	assert.Equal(t, int64(1), count(t, f.store, &models.User{}))
	assert.Empty(t, f.outbox.Emails)
}

func TestRegisterEmailFailurePropagates(t *testing.T) {
	f := newFixture(t, true)
	f.outbox.Err = utils.NewExternalError("smtp", errors.New("dial tcp: connection refused"))

	res, err := f.svc.Register(context.Background(), registration("a@x.com", "JobSeeker"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "confirmation email")
	assert.Equal(t, http.StatusInternalServerError, utils.StatusCode(err))
	assert.False(t, errors.Is(err, utils.ErrExternal))

	// the account is kept
	_, err = f.store.UserByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, models.LoginRequest{Email: "admin@gmail.com", Password: "nope"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "ghost@x.com", Password: "nope"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.svc.Seed(ctx, "admin@gmail.com", "P@ssw0rd"))
	assert.Equal(t, int64(3), count(t, f.store, &models.Role{}))
	assert.Equal(t, int64(1), count(t, f.store, &models.User{}))

	sess, err := f.svc.Login(ctx, models.LoginRequest{Email: "admin@gmail.com", Password: "P@ssw0rd"})
	require.NoError(t, err)
	p, err := f.svc.Authenticate(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, p.Has(auth.RoleAdmin))
}

func TestProvisioningFromConfig(t *testing.T) {
	d := DefaultProvisioning()
	assert.Equal(t, "Default Company", d.Employer("u").CompanyName)
	assert.Equal(t, uint(9), d.Profile(9).JobSeekerID)
}

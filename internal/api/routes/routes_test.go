package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/applications"
	"jobboard/internal/categories"
	"jobboard/internal/config"
	"jobboard/internal/identity"
	"jobboard/internal/jobs"
	"jobboard/internal/logging"
	"jobboard/internal/notify"
	"jobboard/internal/otp"
	"jobboard/internal/session"
	"jobboard/internal/storage"
	"jobboard/internal/store"
	"jobboard/internal/store/storetest"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

type app struct {
	e        *echo.Echo
	store    *store.Store
	outbox   *notify.Outbox
	category models.JobCategory
}

func newApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Identity.RequireConfirmedAccount = false
	logger := logging.Discard()

	s := storetest.New(t)
	category := models.JobCategory{CategoryName: "Engineering", IsApproved: true}
	require.NoError(t, s.CreateCategory(context.Background(), &category))

	outbox := &notify.Outbox{}
	sessions := session.NewMemoryStore(cfg.Identity.SessionIdleTimeout, 0)
	t.Cleanup(sessions.Close)
	codes := otp.NewMemoryStore(0)
	t.Cleanup(codes.Close)

	images, err := storage.NewLocalStore(t.TempDir(), cfg.Storage.URLPath, logger)
	require.NoError(t, err)

	idSvc := identity.NewService(s, sessions, outbox, identity.Options{
		BaseURL:  cfg.Server.BaseURL,
		Defaults: identity.DefaultProvisioning(),
	}, logger)

	e := echo.New()
	SetupRoutes(e, cfg, Services{
		Identity:     idSvc,
		Jobs:         jobs.NewService(s, images, logger),
		Applications: applications.NewService(s, logger),
		Categories:   categories.NewService(s, logger),
		OTP:          otp.NewService(codes, outbox, otp.NewRateLimiter(0, 0, 0), time.Minute, logger),
		ImageDir:     images.Dir(),
	}, logger)

	return &app{e: e, store: s, outbox: outbox, category: category}
}

func (a *app) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) postJSON(path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return a.do(req, cookies...)
}

func (a *app) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req, cookies...)
}

func (a *app) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

// register signs up a user and returns the session cookie it was given
func (a *app) register(t *testing.T, email, userType string) *http.Cookie {
	t.Helper()
	rec := a.postForm("/Identity/Account/Register", url.Values{
		"Email":           {email},
		"Password":        {"secret1"},
		"ConfirmPassword": {"secret1"},
		"UserType":        {userType},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == ".JobBoard.Session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie for %s", email)
	return nil
}

func (a *app) postJob(t *testing.T, cookie *http.Cookie, title string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("Title", title))
	require.NoError(t, w.WriteField("Description", "Build things"))
	require.NoError(t, w.WriteField("CategoryId", strconv.FormatUint(uint64(a.category.ID), 10)))
	require.NoError(t, w.WriteField("ApplicationDeadline", "2030-01-31"))
	part, err := w.CreateFormFile("Image", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/Jobs/Create", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return a.do(req, cookie)
}

func TestOtpEndpoints(t *testing.T) {
	a := newApp(t)

	rec := a.postJSON("/Otp/SendOtp", map[string]string{"phoneNumber": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone number is required.", rec.Body.String())

	rec = a.postJSON("/Otp/SendOtp", map[string]string{"phoneNumber": "+15550001"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent successfully", rec.Body.String())

	sms, ok := a.outbox.LastSMS()
	require.True(t, ok)
	code := strings.TrimPrefix(sms.Body, "Your OTP code is ")
	require.Len(t, code, 6)

	rec = a.postJSON("/Otp/VerifyOtp", map[string]string{"phoneNumber": "+15550001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone number and OTP are required.", rec.Body.String())

	rec = a.postJSON("/Otp/VerifyOtp", map[string]string{"phoneNumber": "+15550002", "otp": code})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", rec.Body.String())

	rec = a.postJSON("/Otp/VerifyOtp", map[string]string{"phoneNumber": "+15550001", "otp": code})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP verified successfully", rec.Body.String())

	rec = a.postJSON("/Otp/VerifyOtp", map[string]string{"phoneNumber": "+15550001", "otp": code})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOtpSendFailure(t *testing.T) {
	a := newApp(t)
	a.outbox.Err = utils.NewExternalError("smtp", errors.New("dial tcp: connection refused"))

	rec := a.postJSON("/Otp/SendOtp", map[string]string{"phoneNumber": "+15550001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to send OTP.", rec.Body.String())
}

func TestRegisterValidationAndDuplicate(t *testing.T) {
	a := newApp(t)

	rec := a.postForm("/Identity/Account/Register", url.Values{
		"Email": {"bad"}, "Password": {"123"}, "ConfirmPassword": {"321"}, "UserType": {"Admin"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "Email")
	assert.Contains(t, resp.Fields, "UserType")
	assert.NotEmpty(t, resp.RequestID)

	a.register(t, "dup@x.com", "JobSeeker")
	rec = a.postForm("/Identity/Account/Register", url.Values{
		"Email": {"dup@x.com"}, "Password": {"secret1"}, "ConfirmPassword": {"secret1"}, "UserType": {"Employer"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "Email")
}

func TestRegisterEmailFailureIsServerError(t *testing.T) {
	a := newApp(t)
	a.outbox.Err = utils.NewExternalError("smtp", errors.New("dial tcp: connection refused"))

	rec := a.postForm("/Identity/Account/Register", url.Values{
		"Email": {"x@x.com"}, "Password": {"secret1"}, "ConfirmPassword": {"secret1"}, "UserType": {"Employer"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestJobCreateRedirects(t *testing.T) {
	a := newApp(t)

	rec := a.get("/Jobs/Create")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/Identity/Account/Login?ReturnUrl=%2FJobs%2FCreate", rec.Header().Get(echo.HeaderLocation))

	seeker := a.register(t, "seeker@x.com", "JobSeeker")
	rec = a.postJob(t, seeker, "Sneaky")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/Account/AccessDenied", rec.Header().Get(echo.HeaderLocation))

	n, err := a.store.Count(context.Background(), &models.Job{}, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobAndApplicationFlow(t *testing.T) {
	a := newApp(t)
	employer := a.register(t, "boss@x.com", "Employer")
	seeker := a.register(t, "ada@x.com", "JobSeeker")

	rec := a.postJob(t, employer, "Go Developer")
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/Jobs", rec.Header().Get(echo.HeaderLocation))

	rec = a.get("/Home/Index?searchString=go")
	require.Equal(t, http.StatusOK, rec.Code)
	var home struct {
		Jobs []models.JobListing `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &home))
	require.Len(t, home.Jobs, 1)
	job := home.Jobs[0]
	assert.Equal(t, "Default Company", job.CompanyName)
	require.NotNil(t, job.ApplicationDeadline)

	rec = a.get(job.ImagePath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	jobID := strconv.FormatUint(uint64(job.ID), 10)
	rec = a.postForm("/Applications/Create", url.Values{"JobId": {jobID}, "Resume": {"my cv"}}, seeker)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/Applications", rec.Header().Get(echo.HeaderLocation))

	rec = a.postForm("/Applications/Create", url.Values{"JobId": {jobID}, "Resume": {"again"}}, seeker)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.get("/Applications/EmployerIndex", employer)
	require.Equal(t, http.StatusOK, rec.Code)
	var apps []models.ApplicationListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusPending, apps[0].Status)

	approve := "/Applications/Approve/" + strconv.FormatUint(uint64(apps[0].ID), 10)
	rec = a.postForm(approve, nil, seeker)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/Account/AccessDenied", rec.Header().Get(echo.HeaderLocation))

	rec = a.postForm(approve, nil, employer)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/Applications/EmployerIndex", rec.Header().Get(echo.HeaderLocation))

	rec = a.postForm(approve, nil, employer)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.get("/Applications", seeker)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusApproved, apps[0].Status)
}

func TestNotFoundIsJSON(t *testing.T) {
	a := newApp(t)

	rec := a.get("/Jobs/Details/999")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)

	rec = a.get("/Jobs/Details/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplicationsRequireSignIn(t *testing.T) {
	a := newApp(t)

	rec := a.get("/Applications")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/Identity/Account/Login?ReturnUrl="))
}

func TestLogoutEndsSession(t *testing.T) {
	a := newApp(t)
	seeker := a.register(t, "ada@x.com", "JobSeeker")

	require.Equal(t, http.StatusOK, a.get("/Applications", seeker).Code)

	rec := a.postForm("/Identity/Account/Logout", nil, seeker)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = a.get("/Applications", seeker)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, http.StatusOK, a.get("/health").Code)
	assert.Equal(t, http.StatusOK, a.get("/health/ready").Code)
	assert.Equal(t, http.StatusOK, a.get("/health/live").Code)
}

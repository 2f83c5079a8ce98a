package identity

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/api/validation"
	"jobboard/internal/auth"
	"jobboard/internal/logging"
	"jobboard/internal/notify"
	"jobboard/internal/session"
	"jobboard/internal/store"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

// Options are the identity settings the service needs
type Options struct {
	RequireConfirmedAccount bool
	BaseURL                 string
	Defaults                ProvisionDefaults
}

// Service manages accounts, roles and sign-in sessions
type Service struct {
	store    *store.Store
	sessions session.Store
	email    notify.EmailSender
	opts     Options
	validate *validator.Validate
	logger   logging.Logger
}

func NewService(s *store.Store, sessions session.Store, email notify.EmailSender, opts Options, logger logging.Logger) *Service {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Service{
		store:    s,
		sessions: sessions,
		email:    email,
		opts:     opts,
		validate: validation.New(),
		logger:   logger.WithField("component", "identity"),
	}
}

// RegisterResult says how the registration flow continues
type RegisterResult struct {
	User        *models.User
	Session     *session.Session // set when the user was signed in immediately
	RedirectURL string
}

// Register creates the account, its role and the role-linked rows in one
// transaction, then sends the confirmation email.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*RegisterResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Check(s.validate, &req); err != nil {
		return nil, err
	}
	role, err := auth.ParseRole(req.UserType)
	if err != nil {
		return nil, utils.NewFieldValidationError("UserType", "Please select Employer or JobSeeker.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             req.Email,
		UserName:          req.Email,
		PasswordHash:      string(hash),
		ConfirmationToken: token,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.UserByEmail(ctx, req.Email); err == nil {
			return utils.NewFieldValidationError("Email", fmt.Sprintf("Email '%s' is already taken.", req.Email))
		} else if !errors.Is(err, utils.ErrNotFound) {
			return err
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		roleRow, err := tx.EnsureRole(ctx, role.String())
		if err != nil {
			return fmt.Errorf("failed to resolve role: %w", err)
		}
		if err := tx.AddUserToRole(ctx, user.ID, roleRow.ID); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
		return s.provision(ctx, tx, user.ID, role)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created a new account with password", map[string]interface{}{
		"user_id": user.ID,
		"role":    role.String(),
	})

	returnURL := req.ReturnURL
	if !utils.IsLocalURL(returnURL) {
		returnURL = "/"
	}

	link := s.confirmationLink(user.ID, token, returnURL)
	body := fmt.Sprintf("Please confirm your account by <a href='%s'>clicking here</a>.", html.EscapeString(link))
	if err := s.email.SendEmail(ctx, user.Email, "Confirm your email", body); err != nil {
		s.logger.Error("failed to send confirmation email", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		// the account exists but cannot be confirmed; the caller gets a server error
		fatal := utils.NewInternalServerError("failed to send confirmation email")
		fatal.Detail = err.Error()
		return nil, fatal
	}

	result := &RegisterResult{User: user}
	if s.opts.RequireConfirmedAccount {
		q := url.Values{"email": {user.Email}, "returnUrl": {returnURL}}
		result.RedirectURL = "/Identity/Account/RegisterConfirmation?" + q.Encode()
		return result, nil
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	result.Session = sess
	result.RedirectURL = returnURL
	return result, nil
}

// provision creates the rows that come with a role
func (s *Service) provision(ctx context.Context, tx *store.Store, userID string, role auth.Role) error {
	switch role {
	case auth.RoleEmployer:
		if err := tx.CreateEmployer(ctx, s.opts.Defaults.Employer(userID)); err != nil {
			return fmt.Errorf("failed to create employer: %w", err)
		}
		return nil
	case auth.RoleJobSeeker:
		seeker := s.opts.Defaults.JobSeeker(userID)
		if err := tx.CreateJobSeeker(ctx, seeker); err != nil {
			return fmt.Errorf("failed to create job seeker: %w", err)
		}
		if err := tx.CreateProfile(ctx, s.opts.Defaults.Profile(seeker.ID)); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	case auth.RoleAdmin:
		return nil
	case auth.RoleUnknown:
		return fmt.Errorf("cannot provision unknown role")
	}
	return fmt.Errorf("unhandled role %s", role)
}

func (s *Service) confirmationLink(userID, token, returnURL string) string {
	q := url.Values{"userId": {userID}, "code": {token}, "returnUrl": {returnURL}}
	return s.opts.BaseURL + "/Identity/Account/ConfirmEmail?" + q.Encode()
}

// ConfirmEmail marks the account confirmed when code matches its token
func (s *Service) ConfirmEmail(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return utils.NewValidationError("userId and code are required")
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NewNotFoundError("user " + userID)
		}
		return err
	}
	if user.EmailConfirmed {
		return nil
	}
	if user.ConfirmationToken == "" || subtle.ConstantTimeCompare([]byte(user.ConfirmationToken), []byte(code)) != 1 {
		return utils.NewValidationError("Error confirming your email.")
	}

	if err := s.store.ConfirmEmail(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("email confirmed", map[string]interface{}{"user_id": userID})
	return nil
}

// Login checks credentials and opens a session
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*session.Session, error) {
	if err := validation.Check(s.validate, &req); err != nil {
		return nil, err
	}

	invalid := utils.NewValidationError("Invalid login attempt.")
	user, err := s.store.UserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("failed login", map[string]interface{}{"user_id": user.ID})
		return nil, invalid
	}
	if s.opts.RequireConfirmedAccount && !user.EmailConfirmed {
		return nil, utils.NewValidationError("You must confirm your email before signing in.")
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("user logged in", map[string]interface{}{"user_id": user.ID})
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a session id to a principal, sliding the session's idle timeout
func (s *Service) Authenticate(ctx context.Context, sessionID string) (auth.Principal, error) {
	sess, err := s.sessions.Touch(ctx, sessionID)
	if err != nil {
		return auth.Anonymous, err
	}

	user, err := s.store.UserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			_ = s.sessions.Delete(ctx, sessionID)
			return auth.Anonymous, session.ErrNoSession
		}
		return auth.Anonymous, err
	}

	names, err := s.store.RoleNames(ctx, user.ID)
	if err != nil {
		return auth.Anonymous, err
	}
	return auth.PrincipalFromNames(user.ID, user.Email, names), nil
}

// Seed creates the roles and the default admin account when they are missing
func (s *Service) Seed(ctx context.Context, adminEmail, adminPassword string) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		var adminRole string
		for _, r := range auth.AllRoles {
			role, err := tx.EnsureRole(ctx, r.String())
			if err != nil {
				return fmt.Errorf("failed to ensure role %s: %w", r, err)
			}
			if r == auth.RoleAdmin {
				adminRole = role.ID
			}
		}

		if adminEmail == "" {
			return nil
		}
		if _, err := tx.UserByEmail(ctx, adminEmail); err == nil {
			return nil
		} else if !errors.Is(err, utils.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &models.User{
			Email:          adminEmail,
			UserName:       adminEmail,
			PasswordHash:   string(hash),
			EmailConfirmed: true,
		}
		if err := tx.CreateUser(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		if err := tx.AddUserToRole(ctx, admin.ID, adminRole); err != nil {
			return err
		}

		s.logger.Info("default admin account created", map[string]interface{}{"email": adminEmail})
		return nil
	})
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

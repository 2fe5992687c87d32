package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/pkg/validator"
	"hotelpms/internal/repository"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type Service struct {
	users *repository.UserRepository
	jwt   *jwt.Service
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(db *gorm.DB, jwtSvc *jwt.Service, log logrus.FieldLogger) *Service {
	return &Service{
		users: repository.NewUserRepository(db),
		jwt:   jwtSvc,
		log:   log,
		now:   time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLoginAttempts {
			until := now.Add(lockoutDuration)
			user.LockedUntil = &until
		}
		if err := s.users.UpdateLoginState(ctx, user); err != nil {
			return nil, err
		}
		if user.LockedUntil != nil {
			s.log.WithField("user_id", user.ID).Warn("staff account locked after failed logins")
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		if err := s.users.UpdateLoginState(ctx, user); err != nil {
			return nil, err
		}
	}

	perms := permissionStrings(user.Permissions())
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), perms)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.WithField("user_id", user.ID).Info("staff logged in")
	return &LoginResult{
		User:        user,
		Permissions: perms,
		AccessToken: token,
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
	}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (StaffView, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return StaffView{}, err
	}
	return view(u), nil
}

func (s *Service) CreateStaff(ctx context.Context, req CreateStaffRequest) (StaffView, error) {
	if err := validator.Check(req); err != nil {
		return StaffView{}, err
	}
	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return StaffView{}, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return StaffView{}, err
	}

	u := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleStaff,
		IsActive:     true,
	}
	if req.Role == string(domain.RoleAdmin) {
		u.Role = domain.RoleAdmin
	}
	u.SetPermissions(perms)

	if err := s.users.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return StaffView{}, ErrEmailAlreadyExists
		}
		return StaffView{}, fmt.Errorf("create staff: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("staff account created")
	return view(u), nil
}

func (s *Service) ListStaff(ctx context.Context) ([]StaffView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StaffView, len(users))
	for i := range users {
		out[i] = view(&users[i])
	}
	return out, nil
}

func (s *Service) UpdatePermissions(ctx context.Context, id int64, req UpdatePermissionsRequest) (StaffView, error) {
	if err := validator.Check(req); err != nil {
		return StaffView{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return StaffView{}, err
	}
	if req.Permissions != nil {
		perms, err := parsePermissions(req.Permissions)
		if err != nil {
			return StaffView{}, err
		}
		u.SetPermissions(perms)
	}
	if req.Role != nil {
		u.Role = domain.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := s.users.UpdatePermissions(ctx, u); err != nil {
		return StaffView{}, fmt.Errorf("update permissions: %w", err)
	}
	return view(u), nil
}

// EnsureAdmin creates an admin account unless the email is taken, in which
// case it resets that account's password. Used by hotelctl.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	if len(password) < 8 {
		return nil, false, domain.Invalid("password must be at least 8 characters")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.SetPassword(ctx, existing.ID, hash); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: domain.RoleAdmin, IsActive: true}
	u.SetPermissions(domain.AllPermissions)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func parsePermissions(raw []string) ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(raw))
	for _, r := range raw {
		p, err := domain.ParsePermission(strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func permissionStrings(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

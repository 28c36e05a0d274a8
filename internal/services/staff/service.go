package staff

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"restaurant-platform/internal/config"
	"restaurant-platform/internal/logger"
	"restaurant-platform/internal/models"
)

// ErrInvalidCredentials is returned when a login attempt fails. The
// message is the same for unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the JWT payload issued on login and verified by the
// gateway. Subject carries the staff id as a decimal string.
type Claims struct {
	Role models.StaffRole `json:"role"`
	Name string           `json:"name"`
	jwt.RegisteredClaims
}

// Service implements staff business logic.
type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewService creates a new staff service.
func NewService(repo Repository, auth config.AuthConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		secret:   []byte(auth.Secret),
		tokenTTL: time.Duration(auth.TokenTTLMinutes) * time.Minute,
		logger:   log,
	}
}

// CreateStaff registers a new staff member with a bcrypt-hashed password.
func (s *Service) CreateStaff(ctx context.Context, req *models.CreateStaffRequest, requestID string) (*models.Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff, err := s.repo.CreateStaff(ctx, req.Name, req.Role, req.Username, string(hashed))
	if err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}

	s.logger.Info("staff_created", fmt.Sprintf("Staff %s registered as %s", staff.Username, staff.Role),
		requestID, map[string]interface{}{"staff_id": staff.ID, "role": staff.Role})

	return staff, nil
}

// Login verifies credentials and issues a signed bearer token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, requestID string) (*models.TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, models.ValidationError{Field: "username", Message: "username and password are required"}
	}

	staff, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up staff: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("staff_logged_in", fmt.Sprintf("Staff %s logged in", staff.Username),
		requestID, map[string]interface{}{"staff_id": staff.ID})

	return &models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// IssueToken signs an HS256 token for the given staff member.
func (s *Service) IssueToken(staff *models.Staff) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: staff.Role,
		Name: staff.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(staff.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ListStaffs returns registered staff members without password hashes.
func (s *Service) ListStaffs(ctx context.Context, offset, limit int) ([]models.Staff, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return s.repo.ListStaffs(ctx, offset, limit)
}

// HealthCheck reports whether the backing store is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.repo.Ping(ctx) == nil
}

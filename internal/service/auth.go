package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/db/repository"
	"github.com/officehub/request-service/internal/models"
)

// UserStore is the persistence surface the account flows need.
// *repository.UserRepository satisfies it.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	ListPending(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
	MarkReviewed(ctx context.Context, id uuid.UUID, approved bool, reviewedAt time.Time, position *string, departmentID *uuid.UUID, rejectionReason *string) error
}

// JWTConfig holds configuration for JWT token generation
type JWTConfig struct {
	Secret    string
	ExpiresIn int // hours
}

// AuthService handles registration, login and account review
type AuthService struct {
	users     UserStore
	jwtConfig JWTConfig
	now       func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore, jwtConfig JWTConfig) *AuthService {
	return &AuthService{
		users:     users,
		jwtConfig: jwtConfig,
		now:       time.Now,
	}
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignUp registers a new, unapproved account and returns its identifier.
// Usernames are unique; the duplicate check is an exact, case-sensitive
// match.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (uuid.UUID, error) {
	exists, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return uuid.Nil, apperrors.NewValidation("Username", "username is already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		IsApproved:   false,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created.ID, nil
}

// Login authenticates a user and returns a signed JWT. The error message
// never reveals whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.UserSummary, error) {
	invalid := apperrors.NewValidation("Username", "invalid username or password")

	user, err := s.users.GetByUsername(ctx, username)
	if apperrors.IsNotFound(err) {
		return "", nil, invalid
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, invalid
	}

	if !user.IsApproved {
		return "", nil, apperrors.NewValidation("Username", "account is pending approval")
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	summary := user.Summary()
	return token, &summary, nil
}

// Review records an administrator's decision on a pending signup. An account
// can be reviewed exactly once. Approval sets the position and department;
// rejection leaves them untouched and records the reason.
func (s *AuthService) Review(ctx context.Context, userID uuid.UUID, req models.ReviewUserRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Reviewed() {
		return apperrors.NewValidation("UserId", "account has already been reviewed")
	}

	reviewedAt := s.now()

	if req.Approve {
		err = s.users.MarkReviewed(ctx, userID, true, reviewedAt, req.Position, req.DepartmentID, nil)
	} else {
		err = s.users.MarkReviewed(ctx, userID, false, reviewedAt, nil, nil, req.RejectionReason)
	}
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewValidation("UserId", "account has already been reviewed")
	}
	return err
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers lists all users
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ListPendingUsers lists accounts awaiting review
func (s *AuthService) ListPendingUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListPending(ctx)
}

// generateToken generates a JWT token for a user
func (s *AuthService) generateToken(userID uuid.UUID, role models.UserRole) (string, error) {
	expirationTime := s.now().Add(time.Duration(s.jwtConfig.ExpiresIn) * time.Hour)

	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			NotBefore: jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

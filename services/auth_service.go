package services

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkwell-press/backend/database"
	"github.com/inkwell-press/backend/errs"
	"github.com/inkwell-press/backend/models"
)

const tokenTTL = 24 * time.Hour

// RegisterInput carries the fields required to create a user account.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs a signed token with the authenticated user.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	logger   zerolog.Logger
	userRepo *database.UserRepo
	secret   []byte
	validate *validator.Validate
}

func NewAuthService(userRepo *database.UserRepo, secret string) *AuthService {
	return &AuthService{
		logger:   log.With().Str("serviceName", "authService").Logger(),
		userRepo: userRepo,
		secret:   []byte(secret),
		validate: validator.New(),
	}
}

// Register creates a new user with a bcrypt-hashed password and
// returns a signed token. A duplicate email is rejected up front.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError("user", err)
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, errs.NewBadRequestError("user email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalError("could not hash password")
	}

	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashed),
	}

	if err := s.userRepo.Add(user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("user registered")
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials, stamps the last login date and
// returns a signed token. Both an unknown email and a password
// mismatch surface as the same BadRequest so the response does not
// leak which one failed.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError("login", err)
	}

	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewBadRequestError("invalid credentials")
		}
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, errs.NewBadRequestError("invalid credentials")
	}

	if err := s.userRepo.UpdateLastLogin(user, time.Now()); err != nil {
		return nil, errs.NewDatabaseError("update", "user", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// ResolveUser looks a user up by id for collaborators that only hold
// an author reference.
func (s *AuthService) ResolveUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return user, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"iat":       now.Unix(),
		"exp":       now.Add(tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalError("could not sign token")
	}
	return token, nil
}

// ParseToken verifies a bearer token and returns the user id it was
// issued for.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errs.NewExpiredTokenError()
		}
		return 0, errs.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errs.NewInvalidTokenError()
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errs.NewInvalidTokenError()
	}
	return uint(sub), nil
}

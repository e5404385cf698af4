package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fastloan-backend/internal/domain/errs"
	domain "fastloan-backend/internal/domain/user"
	"fastloan-backend/internal/infrastructure/logger"
	"fastloan-backend/internal/validation"
	"fastloan-backend/pkg/id"
	"fastloan-backend/pkg/retry"
)

var readPolicy = retry.Policy{
	Attempts:  2,
	Backoff:   50 * time.Millisecond,
	Retryable: func(err error) bool { return errors.Is(err, errs.ErrPersistence) },
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type SessionIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Validate(token string) (string, error)
}

type Usecase struct {
	users    domain.Repository
	hasher   PasswordHasher
	sessions SessionIssuer
	validate *validation.Validator
	log      *zap.Logger
}

func NewUsecase(users domain.Repository, hasher PasswordHasher, sessions SessionIssuer, v *validation.Validator, log *zap.Logger) *Usecase {
	if v == nil {
		v = validation.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, hasher: hasher, sessions: sessions, validate: v, log: log}
}

func normEmail(e *string) *string {
	if e == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*e))
	if s == "" {
		return nil
	}
	return &s
}

// Register creates the user and opens a session for it.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*SessionDTO, error) {
	in.Email = normEmail(in.Email)
	if err := u.validate.Struct("invalid registration", in); err != nil {
		return nil, err
	}

	if _, err := u.users.GetByPhone(ctx, in.PhoneNumber); err == nil {
		return nil, errs.Conflict("phone number already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Persistence("lookup user", err)
	}
	if in.Email != nil {
		if _, err := u.users.GetByEmail(ctx, *in.Email); err == nil {
			return nil, errs.Conflict("email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Persistence("lookup user", err)
		}
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	usr := &domain.User{
		UserID:       id.NewID32(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		// a concurrent registration won the unique index after our lookups
		return nil, writeErr("create user", "phone number or email already registered", err)
	}
	logger.FromContext(ctx, u.log).Info("user registered",
		zap.String("user_id", usr.UserID), zap.String("phone", logger.MaskPhone(usr.PhoneNumber)))
	return u.session(usr)
}

// Login accepts an email address or a phone number as identifier.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*SessionDTO, error) {
	if err := u.validate.Struct("invalid login", in); err != nil {
		return nil, err
	}
	ident := strings.TrimSpace(in.Identifier)

	var (
		usr *domain.User
		err error
	)
	if strings.Contains(ident, "@") {
		usr, err = u.users.GetByEmail(ctx, strings.ToLower(ident))
	} else {
		usr, err = u.users.GetByPhone(ctx, ident)
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.NotAuthenticated("invalid credentials")
	case err != nil:
		return nil, errs.Persistence("lookup user", err)
	}
	if err := u.hasher.Compare(usr.PasswordHash, in.Password); err != nil {
		return nil, errs.NotAuthenticated("invalid credentials")
	}
	return u.session(usr)
}

func (u *Usecase) session(usr *domain.User) (*SessionDTO, error) {
	token, exp, err := u.sessions.Issue(usr.UserID)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{User: toDTO(usr), Token: token, ExpiresAt: exp}, nil
}

// Authenticate resolves a session token to its user id.
func (u *Usecase) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errs.NotAuthenticated("missing session token")
	}
	userID, err := u.sessions.Validate(token)
	if err != nil {
		return "", &errs.Error{Kind: errs.ErrNotAuthenticated, Message: "invalid session", Err: err}
	}
	return userID, nil
}

func (u *Usecase) Profile(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(usr)
	return &dto, nil
}

func (u *Usecase) load(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	var usr *domain.User
	err := retry.Do(ctx, readPolicy, func(ctx context.Context) error {
		var err error
		usr, err = u.users.GetByUserID(ctx, userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return errs.NotFound("user")
		case err != nil:
			return errs.Persistence("get user", err)
		}
		return nil
	})
	return usr, err
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*UserDTO, error) {
	in.Email = normEmail(in.Email)
	if err := u.validate.Struct("invalid profile", in); err != nil {
		return nil, err
	}
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && (usr.Email == nil || *usr.Email != *in.Email) {
		other, err := u.users.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && other.UserID != usr.UserID:
			return nil, errs.Conflict("email already registered")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, errs.Persistence("lookup user", err)
		}
		usr.Email = in.Email
	}
	if in.FirstName != nil {
		usr.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		usr.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Gender != nil {
		g := domain.Gender(*in.Gender)
		usr.Gender = &g
	}
	if in.ProfileImage != nil {
		usr.ProfileImage = in.ProfileImage
	}
	if in.MaritalStatus != nil {
		usr.MaritalStatus = in.MaritalStatus
	}
	if in.EmploymentStatus != nil {
		usr.EmploymentStatus = in.EmploymentStatus
	}
	if in.IDDocument != nil {
		usr.IDDocument = in.IDDocument
	}

	if err := u.users.Save(ctx, usr); err != nil {
		return nil, writeErr("save user", "email already registered", err)
	}
	dto := toDTO(usr)
	return &dto, nil
}

func writeErr(op, conflict string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Conflict(conflict)
	}
	return errs.Persistence(op, err)
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/query"
	"github.com/seowalex/cvwo/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user auth logic and settings.
type UserService struct {
	repo repo.UserRepo
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks email and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Match the cost of a wrong-password check.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// dummyHash is a hash of a random password at the service's cost.
func (s *UserService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
	})
	return s.dummy
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, email, password, name string) (dom.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile applies a partial update of name and settings. A saved sort
// must use the task list sort grammar.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, patch dom.UserPatch) (dom.User, error) {
	if patch.Sort.Set && patch.Sort.Value != nil {
		fields, err := query.ParseSort("sort", *patch.Sort.Value)
		if err != nil {
			var verr *dom.ValidationError
			if errors.As(err, &verr) {
				return dom.User{}, dom.NewFieldError("settings/sort", verr.Fields[0].Message)
			}
			return dom.User{}, err
		}
		normalized := query.FormatSort(fields)
		patch.Sort.Value = &normalized
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Update(ctx, patch.Apply(existing))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

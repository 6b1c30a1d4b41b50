package user

import (
	"context"
	"errors"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
)

const DefaultRegisterRetries = 3

// EventSink is told about every successful registration.
type EventSink interface {
	UserRegistered(ctx context.Context, u *model.User) error
}

type RegisterUserRequest struct {
	Username  string
	Firstname string
	Lastname  string
}

type Service struct {
	repository      Repository
	sink            EventSink
	registerRetries int
}

type ServiceOption func(*Service)

// WithRegisterRetries bounds how many fresh identities Register tries after
// an identity collision. Negative values are treated as zero.
func WithRegisterRetries(n int) ServiceOption {
	return func(s *Service) {
		s.registerRetries = max(n, 0)
	}
}

func NewService(repository Repository, sink EventSink, opts ...ServiceOption) *Service {
	s := &Service{
		repository:      repository,
		sink:            sink,
		registerRetries: DefaultRegisterRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req RegisterUserRequest) (*model.User, error) {
	u := model.NewUnsaved(req.Firstname, req.Lastname)
	u.Username = req.Username

	var (
		saved *model.User
		err   error
	)
	for attempt := 0; ; attempt++ {
		saved, err = s.repository.Save(ctx, u)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateIdentity) || attempt >= s.registerRetries {
			return nil, err
		}
		logger.DefaultOr(logger.New).Warnf("Identity collision for %s on attempt %d, generating a new one", u, attempt+1)
		u.ClearID()
	}

	if s.sink != nil {
		// the user is stored either way; a lost event is logged, not returned
		if err := s.sink.UserRegistered(ctx, saved); err != nil {
			logger.DefaultOr(logger.New).Errorf(err, "Could not record registration of %s", saved)
		}
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repository.FindByTheUsersName(ctx, username)
}

func (s *Service) ListByLastname(ctx context.Context, lastname string) ([]model.User, error) {
	return s.repository.FindByLastname(ctx, lastname)
}

func (s *Service) RemoveByLastname(ctx context.Context, lastname string) (int64, error) {
	return s.repository.RemoveByLastname(ctx, lastname)
}

package user

import (
	"context"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
)

// UserUseCase handles the borrower registration and approval lifecycle
type UserUseCase struct {
	userRepo     persistence.UserRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	userRepo persistence.UserRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register creates a new borrower in the pending state
func (u *UserUseCase) Register(ctx context.Context, fullName, contactNumber, email string) (*entity.User, error) {
	usr, err := entity.NewUser(fullName, contactNumber, email, u.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.Create(ctx, usr); err != nil {
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id": usr.ID,
		"name":    usr.FullName,
	})
	return usr, nil
}

// Get retrieves a borrower by ID
func (u *UserUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ListPending returns registrations awaiting an approval decision
func (u *UserUseCase) ListPending(ctx context.Context) ([]*entity.User, error) {
	return u.userRepo.ListByStatus(ctx, entity.UserPending)
}

// Approve moves a registration to approved
func (u *UserUseCase) Approve(ctx context.Context, id string) (*entity.User, error) {
	return u.decide(ctx, id, true)
}

// Decline rejects a registration
func (u *UserUseCase) Decline(ctx context.Context, id string) (*entity.User, error) {
	return u.decide(ctx, id, false)
}

func (u *UserUseCase) decide(ctx context.Context, id string, approve bool) (*entity.User, error) {
	usr, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if approve {
		err = usr.Approve(u.timeProvider)
	} else {
		err = usr.Decline(u.timeProvider)
	}
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.Update(ctx, usr); err != nil {
		return nil, err
	}

	u.logger.Info("User registration decided", map[string]any{
		"user_id":  usr.ID,
		"approved": approve,
	})
	return usr, nil
}

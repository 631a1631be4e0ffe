package registration

import (
	"context"

	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/usecase"
)

// UseCase is the registration and credit ledger. It is the only module that
// mutates per-address credit and registration records.
type UseCase struct {
	users   repository.UserRepository
	permits *permit.Registry
	journal usecase.Journal
	logger  *zap.Logger
}

func New(users repository.UserRepository, permits *permit.Registry, journal usecase.Journal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		permits: permits,
		journal: journal,
		logger:  logger,
	}
}

// Permits exposes the module's permitted-address registry for composition.
func (uc *UseCase) Permits() *permit.Registry {
	return uc.permits
}

// Register creates the principal's user record with the starting credit
// balance. Registering twice fails.
func (uc *UseCase) Register(ctx context.Context, sender, principal domain.Address) (*domain.User, error) {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return nil, err
	}

	user := &domain.User{
		Address:    principal,
		Registered: true,
		Credits:    domain.StartingCredits,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered",
		zap.String("address", string(principal)),
		zap.Int64("starting_credits", user.Credits))
	uc.record(ctx, domain.LedgerEvent{
		Module:    "registration",
		Operation: "register",
		Sender:    sender,
		Principal: principal,
		Amount:    user.Credits,
	})

	return user, nil
}

// Credits returns the balance and registration flag for an address. Unknown
// addresses read as (0, false) rather than an error.
func (uc *UseCase) Credits(ctx context.Context, addr domain.Address) (int64, bool, error) {
	user, err := uc.users.GetByAddress(ctx, addr)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return user.Credits, user.Registered, nil
}

// UserCount returns the number of registered users.
func (uc *UseCase) UserCount(ctx context.Context) (int64, error) {
	return uc.users.Count(ctx)
}

// IsRegistered reports whether addr has a registration record.
func (uc *UseCase) IsRegistered(ctx context.Context, addr domain.Address) (bool, error) {
	user, err := uc.users.GetByAddress(ctx, addr)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Registered, nil
}

// DebitCredits removes credits from an address, failing without mutation if
// the balance is insufficient.
func (uc *UseCase) DebitCredits(ctx context.Context, addr domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidPayload
	}

	user, err := uc.users.GetByAddress(ctx, addr)
	if err != nil {
		return err
	}
	if user.Credits < amount {
		return domain.ErrInsufficientCredits
	}

	user.Credits -= amount
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	uc.record(ctx, domain.LedgerEvent{
		Module:    "registration",
		Operation: "debit_credits",
		Principal: addr,
		Amount:    amount,
	})
	return nil
}

// AddCredits grants credits to an address.
func (uc *UseCase) AddCredits(ctx context.Context, addr domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidPayload
	}

	user, err := uc.users.GetByAddress(ctx, addr)
	if err != nil {
		return err
	}

	user.Credits += amount
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	uc.record(ctx, domain.LedgerEvent{
		Module:    "registration",
		Operation: "add_credits",
		Principal: addr,
		Amount:    amount,
	})
	return nil
}

func (uc *UseCase) record(ctx context.Context, event domain.LedgerEvent) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(ctx, event); err != nil {
		uc.logger.Warn("failed to journal registration event",
			zap.String("operation", event.Operation), zap.Error(err))
	}
}

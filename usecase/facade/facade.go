package facade

import (
	"context"

	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/usecase"
)

// Facade is the single entry point callers go through. It relays every call
// to the underlying ledgers with its own address as the sender and the
// caller as the principal, so the modules see one trusted relay instead of
// arbitrary callers. The relayed join path adds per-activity whitelist
// gating on top of the activity ledger's own checks.
type Facade struct {
	addr domain.Address

	registration usecase.RegistrationLedger
	activities   usecase.ActivityLedger
	tasks        usecase.TaskLedger
	donations    usecase.DonationLedger

	logger *zap.Logger
}

func New(
	addr domain.Address,
	registration usecase.RegistrationLedger,
	activities usecase.ActivityLedger,
	tasks usecase.TaskLedger,
	donations usecase.DonationLedger,
	logger *zap.Logger,
) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	if addr.IsZero() {
		addr = "facade:activityhub"
	}
	return &Facade{
		addr:         addr,
		registration: registration,
		activities:   activities,
		tasks:        tasks,
		donations:    donations,
		logger:       logger,
	}
}

// Address returns the façade's relay identity.
func (f *Facade) Address() domain.Address {
	return f.addr
}

// Grant registers the façade as a permitted relay on each module registry.
// The operator must own every registry passed in.
func (f *Facade) Grant(operator domain.Address, registries ...*permit.Registry) error {
	for _, reg := range registries {
		if err := reg.AddPermittedAddress(operator, f.addr); err != nil {
			return err
		}
	}
	return nil
}

func (f *Facade) Register(ctx context.Context, caller domain.Address) (*domain.User, error) {
	return f.registration.Register(ctx, f.addr, caller)
}

func (f *Facade) Credits(ctx context.Context, addr domain.Address) (int64, bool, error) {
	return f.registration.Credits(ctx, addr)
}

func (f *Facade) UserCount(ctx context.Context) (int64, error) {
	return f.registration.UserCount(ctx)
}

func (f *Facade) CreateActivity(ctx context.Context, caller domain.Address, params usecase.CreateActivityParams) (*domain.Activity, error) {
	return f.activities.CreateActivity(ctx, f.addr, caller, params)
}

// JoinActivity checks the activity's whitelist before relaying. Owners pass
// the whitelist implicitly; everyone else needs an explicit entry.
func (f *Facade) JoinActivity(ctx context.Context, caller domain.Address, params usecase.JoinActivityParams) error {
	allowed, err := f.activities.HasJoinPermission(ctx, params.ActivityID, caller)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrNotPermitted
	}
	return f.activities.JoinActivity(ctx, f.addr, caller, params)
}

func (f *Facade) AddTerm(ctx context.Context, caller domain.Address, activityID int64, titles, descriptions []string) error {
	return f.activities.AddTerm(ctx, f.addr, caller, activityID, titles, descriptions)
}

func (f *Facade) AddToWhitelist(ctx context.Context, caller domain.Address, activityID int64, addrs []domain.Address) error {
	return f.activities.AddToWhitelist(ctx, f.addr, caller, activityID, addrs)
}

func (f *Facade) HasJoinPermission(ctx context.Context, activityID int64, addr domain.Address) (bool, error) {
	return f.activities.HasJoinPermission(ctx, activityID, addr)
}

func (f *Facade) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	return f.activities.GetActivity(ctx, id)
}

func (f *Facade) ActivityCount(ctx context.Context) (int64, error) {
	return f.activities.ActivityCount(ctx)
}

func (f *Facade) TermsFor(ctx context.Context, activityID int64) ([]domain.Term, error) {
	return f.activities.TermsFor(ctx, activityID)
}

func (f *Facade) JoinPriceInNative(ctx context.Context, activityID int64) (int64, error) {
	return f.activities.JoinPriceInNative(ctx, activityID)
}

func (f *Facade) CreateTask(ctx context.Context, caller domain.Address, params usecase.CreateTaskParams) (*domain.Task, error) {
	return f.tasks.CreateTask(ctx, f.addr, caller, params)
}

func (f *Facade) CompleteTask(ctx context.Context, caller domain.Address, activityID, taskID int64) error {
	return f.tasks.CompleteTask(ctx, f.addr, caller, activityID, taskID)
}

func (f *Facade) TasksFor(ctx context.Context, activityID int64) ([]domain.Task, error) {
	return f.tasks.TasksFor(ctx, activityID)
}

func (f *Facade) TaxAmountForTask(amount int64) int64 {
	return f.tasks.TaxAmountForTask(amount)
}

func (f *Facade) Donate(ctx context.Context, caller domain.Address, activityID int64, donorPublicID string, amount int64) error {
	return f.donations.Donate(ctx, f.addr, caller, activityID, donorPublicID, amount)
}

func (f *Facade) WithdrawAll(ctx context.Context, caller domain.Address, activityID int64) (int64, error) {
	return f.donations.WithdrawAll(ctx, f.addr, caller, activityID)
}

func (f *Facade) Withdraw(ctx context.Context, caller domain.Address, activityID int64, amount int64) error {
	return f.donations.Withdraw(ctx, f.addr, caller, activityID, amount)
}

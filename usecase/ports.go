package usecase

import (
	"context"
	"time"

	"github.com/activityhub/backend/domain"
)

// PriceOracle exposes the latest native/fiat quote. Implementations must
// surface stale or failed reads as errors; callers abort rather than default.
type PriceOracle interface {
	LatestQuote(ctx context.Context) (domain.Quote, error)
}

// Bank is the native-currency account ledger the modules move funds through.
// Every outgoing transfer is treated as a potential re-entry point, so ledger
// state is committed before Transfer is invoked.
type Bank interface {
	Transfer(ctx context.Context, from, to domain.Address, amount int64) error
	Deposit(ctx context.Context, to domain.Address, amount int64) error
	BalanceOf(ctx context.Context, addr domain.Address) (int64, error)
}

// Journal records applied state mutations for the audit trail. Recording is
// best-effort: a journal failure never aborts a committed operation.
type Journal interface {
	Record(ctx context.Context, event domain.LedgerEvent) error
}

// CreditLedger is the slice of the registration module the other ledgers
// depend on for credit economics.
type CreditLedger interface {
	IsRegistered(ctx context.Context, addr domain.Address) (bool, error)
	DebitCredits(ctx context.Context, addr domain.Address, amount int64) error
	AddCredits(ctx context.Context, addr domain.Address, amount int64) error
}

// The four module interfaces the façade composes. Every mutating call takes
// the immediate sender and the effective principal separately so a permitted
// relay can forward end-user identity without owning it.

type RegistrationLedger interface {
	Register(ctx context.Context, sender, principal domain.Address) (*domain.User, error)
	Credits(ctx context.Context, addr domain.Address) (int64, bool, error)
	UserCount(ctx context.Context) (int64, error)
}

type CreateActivityParams struct {
	PublicID              string
	Username              string
	Title                 string
	Description           string
	TotalTimeInMonths     int
	FiatPrice             int64
	Level                 domain.Level
	MaxMembers            int
	WaitingPeriodInMonths int
}

type JoinActivityParams struct {
	ActivityID     int64
	DisplayName    string
	TenureInMonths int
	Payment        int64
}

type ActivityLedger interface {
	CreateActivity(ctx context.Context, sender, principal domain.Address, params CreateActivityParams) (*domain.Activity, error)
	JoinActivity(ctx context.Context, sender, principal domain.Address, params JoinActivityParams) error
	AddTerm(ctx context.Context, sender, principal domain.Address, activityID int64, titles, descriptions []string) error
	AddToWhitelist(ctx context.Context, sender, principal domain.Address, activityID int64, addrs []domain.Address) error
	HasJoinPermission(ctx context.Context, activityID int64, addr domain.Address) (bool, error)
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	ActivityCount(ctx context.Context) (int64, error)
	TermsFor(ctx context.Context, activityID int64) ([]domain.Term, error)
	JoinPriceInNative(ctx context.Context, activityID int64) (int64, error)
}

type CreateTaskParams struct {
	ActivityID        int64
	Assignee          domain.Address
	Title             string
	Description       string
	FiatReward        int64
	DueInDays         int
	CreditScoreReward int64
	Payment           int64
}

type TaskLedger interface {
	CreateTask(ctx context.Context, sender, principal domain.Address, params CreateTaskParams) (*domain.Task, error)
	CompleteTask(ctx context.Context, sender, principal domain.Address, activityID, taskID int64) error
	TasksFor(ctx context.Context, activityID int64) ([]domain.Task, error)
	TaxAmountForTask(amount int64) int64
}

type DonationLedger interface {
	Donate(ctx context.Context, sender, principal domain.Address, activityID int64, donorPublicID string, amount int64) error
	WithdrawAll(ctx context.Context, sender, principal domain.Address, activityID int64) (int64, error)
	Withdraw(ctx context.Context, sender, principal domain.Address, activityID int64, amount int64) error
}

// DueDateFromDays derives a task due date at creation time.
func DueDateFromDays(now time.Time, dueInDays int) time.Time {
	if dueInDays < 0 {
		dueInDays = 0
	}
	return now.Add(time.Duration(dueInDays) * 24 * time.Hour)
}

package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/usecase"
)

// Config carries the custody account and policy for the task ledger.
type Config struct {
	// Vault escrows task rewards between creation and completion.
	Vault domain.Address
	// RefundOverpayment returns surplus escrow payment to the creator
	// instead of retaining it in the vault.
	RefundOverpayment bool
}

// UseCase is the task and reward ledger. Rewards are escrowed in native
// currency at creation and released on completion, alongside a credit grant.
type UseCase struct {
	tasks      repository.TaskRepository
	activities repository.ActivityRepository
	credits    usecase.CreditLedger
	oracle     usecase.PriceOracle
	bank       usecase.Bank
	permits    *permit.Registry
	journal    usecase.Journal
	logger     *zap.Logger
	cfg        Config
	now        func() time.Time
}

func New(
	tasks repository.TaskRepository,
	activities repository.ActivityRepository,
	credits usecase.CreditLedger,
	oracle usecase.PriceOracle,
	bank usecase.Bank,
	permits *permit.Registry,
	journal usecase.Journal,
	logger *zap.Logger,
	cfg Config,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Vault.IsZero() {
		cfg.Vault = "vault:tasks"
	}
	return &UseCase{
		tasks:      tasks,
		activities: activities,
		credits:    credits,
		oracle:     oracle,
		bank:       bank,
		permits:    permits,
		journal:    journal,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Permits exposes the module's permitted-address registry for composition.
func (uc *UseCase) Permits() *permit.Registry {
	return uc.permits
}

// CreateTask records a task for an activity member and escrows its reward.
// Only the activity owner may create tasks, and the assignee must already be
// a member. The fiat reward is converted at the latest quote and the creator
// funds the escrow up front.
func (uc *UseCase) CreateTask(ctx context.Context, sender, principal domain.Address, params usecase.CreateTaskParams) (*domain.Task, error) {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return nil, err
	}
	if params.Title == "" || params.FiatReward < 0 || params.CreditScoreReward < 0 {
		return nil, domain.ErrInvalidPayload
	}

	activity, err := uc.activities.GetByID(ctx, params.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity.Owner != principal {
		return nil, domain.ErrNotActivityOwner
	}
	if !activity.HasMember(params.Assignee) {
		return nil, domain.ErrAssigneeNotMember
	}

	quote, err := uc.oracle.LatestQuote(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "oracle read failed", err)
	}
	reward, err := domain.ConvertFiatToNative(params.FiatReward, quote)
	if err != nil {
		return nil, err
	}
	if params.Payment < reward {
		return nil, domain.ErrInsufficientPayment
	}

	escrow := params.Payment
	if uc.cfg.RefundOverpayment {
		escrow = reward
	}
	if escrow > 0 {
		if err := uc.bank.Transfer(ctx, principal, uc.cfg.Vault, escrow); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ActivityID:        params.ActivityID,
		Assignee:          params.Assignee,
		Title:             params.Title,
		Description:       params.Description,
		RewardAmount:      reward,
		CreditScoreReward: params.CreditScoreReward,
		DueDate:           usecase.DueDateFromDays(uc.now(), params.DueInDays),
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		if escrow > 0 {
			if refundErr := uc.bank.Transfer(ctx, uc.cfg.Vault, principal, escrow); refundErr != nil {
				uc.logger.Error("failed to refund task escrow after create failure",
					zap.Int64("activity_id", params.ActivityID), zap.Error(refundErr))
			}
		}
		return nil, err
	}

	uc.logger.Info("task created",
		zap.Int64("activity_id", task.ActivityID),
		zap.Int64("task_id", task.ID),
		zap.String("assignee", string(task.Assignee)),
		zap.Int64("reward", reward))
	uc.record(ctx, domain.LedgerEvent{
		Module:    "task",
		Operation: "create",
		Sender:    sender,
		Principal: principal,
		Subject:   task.ID,
		Amount:    escrow,
	})

	return task, nil
}

// CompleteTask marks a task done, pays the escrowed reward to the assignee
// and grants the credit score reward. Only the activity owner may complete.
// The completion flag is committed before funds move, so completing the same
// task twice can never double-pay.
func (uc *UseCase) CompleteTask(ctx context.Context, sender, principal domain.Address, activityID, taskID int64) error {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return err
	}

	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity.Owner != principal {
		return domain.ErrNotActivityOwner
	}

	task, err := uc.tasks.GetByID(ctx, activityID, taskID)
	if err != nil {
		return err
	}
	if task.Completed {
		return domain.ErrAlreadyCompleted
	}

	now := uc.now()
	task.Completed = true
	task.CompletedAt = now
	if err := uc.tasks.Update(ctx, task); err != nil {
		return err
	}

	if task.RewardAmount > 0 {
		if err := uc.bank.Transfer(ctx, uc.cfg.Vault, task.Assignee, task.RewardAmount); err != nil {
			task.Completed = false
			task.CompletedAt = time.Time{}
			if restoreErr := uc.tasks.Update(ctx, task); restoreErr != nil {
				uc.logger.Error("failed to reopen task after payout failure",
					zap.Int64("activity_id", activityID),
					zap.Int64("task_id", taskID),
					zap.Error(restoreErr))
			}
			return err
		}
	}

	if task.CreditScoreReward > 0 {
		if err := uc.credits.AddCredits(ctx, task.Assignee, task.CreditScoreReward); err != nil {
			// The reward already left escrow; surface the credit failure
			// without unwinding the payout.
			uc.logger.Error("failed to grant credit reward",
				zap.Int64("activity_id", activityID),
				zap.Int64("task_id", taskID),
				zap.Error(err))
			return err
		}
	}

	uc.logger.Info("task completed",
		zap.Int64("activity_id", activityID),
		zap.Int64("task_id", taskID),
		zap.String("assignee", string(task.Assignee)),
		zap.Int64("reward_paid", task.RewardAmount),
		zap.Int64("credits_granted", task.CreditScoreReward))
	uc.record(ctx, domain.LedgerEvent{
		Module:    "task",
		Operation: "complete",
		Sender:    sender,
		Principal: principal,
		Subject:   taskID,
		Amount:    task.RewardAmount,
	})

	return nil
}

// TasksFor lists an activity's tasks in creation order.
func (uc *UseCase) TasksFor(ctx context.Context, activityID int64) ([]domain.Task, error) {
	if _, err := uc.activities.GetByID(ctx, activityID); err != nil {
		return nil, err
	}
	return uc.tasks.ListByActivity(ctx, activityID)
}

// TaxAmountForTask projects the platform tax on a reward amount. Pure
// calculation, no state read.
func (uc *UseCase) TaxAmountForTask(amount int64) int64 {
	return domain.TaxOnTaskReward(amount)
}

func (uc *UseCase) record(ctx context.Context, event domain.LedgerEvent) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(ctx, event); err != nil {
		uc.logger.Warn("failed to journal task event",
			zap.String("operation", event.Operation), zap.Error(err))
	}
}

package donation

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/usecase"
)

// Config carries the custody accounts for the donation ledger.
type Config struct {
	// Vault holds the custodied share of every donation until withdrawal.
	Vault domain.Address
	// Treasury receives the platform fee slice.
	Treasury domain.Address
}

// UseCase is the donation ledger. Donations are split between the platform
// treasury and a per-activity custodial balance the owner withdraws from.
type UseCase struct {
	activities repository.ActivityRepository
	bank       usecase.Bank
	permits    *permit.Registry
	journal    usecase.Journal
	logger     *zap.Logger
	cfg        Config
}

func New(
	activities repository.ActivityRepository,
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
		cfg.Vault = "vault:donations"
	}
	if cfg.Treasury.IsZero() {
		cfg.Treasury = "treasury:platform"
	}
	return &UseCase{
		activities: activities,
		bank:       bank,
		permits:    permits,
		journal:    journal,
		logger:     logger,
		cfg:        cfg,
	}
}

// Permits exposes the module's permitted-address registry for composition.
func (uc *UseCase) Permits() *permit.Registry {
	return uc.permits
}

// Donate splits amount between the platform treasury and the activity's
// custodial balance. The fee share goes to the treasury immediately; the
// remainder is credited to the activity and held in the vault.
func (uc *UseCase) Donate(ctx context.Context, sender, principal domain.Address, activityID int64, donorPublicID string, amount int64) error {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return err
	}
	if amount <= 0 {
		return domain.ErrZeroAmount
	}

	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return err
	}

	// The custody share truncates, so the fee absorbs the remainder and
	// the balance never exceeds 75 percent of the gross.
	net := amount * (100 - domain.DonationFeePercent) / 100
	fee := amount - net

	if err := uc.bank.Transfer(ctx, principal, uc.cfg.Treasury, fee); err != nil {
		return err
	}
	if err := uc.bank.Transfer(ctx, principal, uc.cfg.Vault, net); err != nil {
		// Give back the fee so a partial capture does not strand funds.
		if refundErr := uc.bank.Transfer(ctx, uc.cfg.Treasury, principal, fee); refundErr != nil {
			uc.logger.Error("failed to refund donation fee after capture failure",
				zap.Int64("activity_id", activityID), zap.Error(refundErr))
		}
		return err
	}

	activity.DonationBalance += net
	activity.TotalDonationReceived += amount
	if err := uc.activities.Update(ctx, activity); err != nil {
		if refundErr := uc.bank.Transfer(ctx, uc.cfg.Vault, principal, net); refundErr != nil {
			uc.logger.Error("failed to refund donation after update failure",
				zap.Int64("activity_id", activityID), zap.Error(refundErr))
		}
		if refundErr := uc.bank.Transfer(ctx, uc.cfg.Treasury, principal, fee); refundErr != nil {
			uc.logger.Error("failed to refund donation fee after update failure",
				zap.Int64("activity_id", activityID), zap.Error(refundErr))
		}
		return err
	}

	uc.logger.Info("donation received",
		zap.Int64("activity_id", activityID),
		zap.String("donor", string(principal)),
		zap.Int64("amount", amount),
		zap.Int64("fee", fee),
		zap.Int64("credited", net))

	payload, _ := json.Marshal(map[string]any{
		"donor_public_id": donorPublicID,
		"fee":             fee,
	})
	uc.record(ctx, domain.LedgerEvent{
		Module:    "donation",
		Operation: "donate",
		Sender:    sender,
		Principal: principal,
		Subject:   activityID,
		Amount:    net,
		Payload:   payload,
	})

	return nil
}

// WithdrawAll pays the activity's entire custodial balance out to its owner
// and returns the amount paid.
func (uc *UseCase) WithdrawAll(ctx context.Context, sender, principal domain.Address, activityID int64) (int64, error) {
	activity, err := uc.authorizeOwner(ctx, sender, principal, activityID)
	if err != nil {
		return 0, err
	}
	amount := activity.DonationBalance
	if err := uc.payout(ctx, sender, principal, activity, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// Withdraw pays part of the custodial balance out to the activity owner.
func (uc *UseCase) Withdraw(ctx context.Context, sender, principal domain.Address, activityID int64, amount int64) error {
	if amount <= 0 {
		return domain.ErrZeroAmount
	}
	activity, err := uc.authorizeOwner(ctx, sender, principal, activityID)
	if err != nil {
		return err
	}
	if amount > activity.DonationBalance {
		return domain.ErrInsufficientBalance
	}
	return uc.payout(ctx, sender, principal, activity, amount)
}

func (uc *UseCase) authorizeOwner(ctx context.Context, sender, principal domain.Address, activityID int64) (*domain.Activity, error) {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return nil, err
	}
	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Owner != principal {
		return nil, domain.ErrNotActivityOwner
	}
	return activity, nil
}

// payout deducts the custodial balance before moving funds, so a hostile
// payee re-entering the ledger observes the reduced balance. On transfer
// failure the deduction is restored.
func (uc *UseCase) payout(ctx context.Context, sender, principal domain.Address, activity *domain.Activity, amount int64) error {
	if amount == 0 {
		return nil
	}

	activity.DonationBalance -= amount
	if err := uc.activities.Update(ctx, activity); err != nil {
		return err
	}

	if err := uc.bank.Transfer(ctx, uc.cfg.Vault, activity.Owner, amount); err != nil {
		activity.DonationBalance += amount
		if restoreErr := uc.activities.Update(ctx, activity); restoreErr != nil {
			uc.logger.Error("failed to restore donation balance after payout failure",
				zap.Int64("activity_id", activity.ID), zap.Error(restoreErr))
		}
		return err
	}

	uc.logger.Info("donation withdrawal",
		zap.Int64("activity_id", activity.ID),
		zap.String("owner", string(activity.Owner)),
		zap.Int64("amount", amount),
		zap.Int64("remaining", activity.DonationBalance))
	uc.record(ctx, domain.LedgerEvent{
		Module:    "donation",
		Operation: "withdraw",
		Sender:    sender,
		Principal: principal,
		Subject:   activity.ID,
		Amount:    amount,
	})

	return nil
}

func (uc *UseCase) record(ctx context.Context, event domain.LedgerEvent) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(ctx, event); err != nil {
		uc.logger.Warn("failed to journal donation event",
			zap.String("operation", event.Operation), zap.Error(err))
	}
}

package activity

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/repository"
	"github.com/activityhub/backend/usecase"
)

// Config carries the deploy-time policy for the activity ledger.
type Config struct {
	// JoinVault is the custody account join payments are captured into.
	JoinVault domain.Address
	// RefundOverpayment returns surplus payment to the payer instead of
	// retaining it in the vault.
	RefundOverpayment bool
}

// UseCase is the activity lifecycle and pricing ledger.
type UseCase struct {
	activities repository.ActivityRepository
	credits    usecase.CreditLedger
	oracle     usecase.PriceOracle
	bank       usecase.Bank
	permits    *permit.Registry
	journal    usecase.Journal
	logger     *zap.Logger
	cfg        Config
}

func New(
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
	if cfg.JoinVault.IsZero() {
		cfg.JoinVault = "vault:activities"
	}
	return &UseCase{
		activities: activities,
		credits:    credits,
		oracle:     oracle,
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

// CreateActivity allocates a new activity for the principal, debiting the
// tier's credit cost. The creator is not enrolled as a member.
func (uc *UseCase) CreateActivity(ctx context.Context, sender, principal domain.Address, params usecase.CreateActivityParams) (*domain.Activity, error) {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return nil, err
	}
	if params.Title == "" || !params.Level.Valid() || params.MaxMembers <= 0 {
		return nil, domain.ErrInvalidPayload
	}

	registered, err := uc.credits.IsRegistered(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, domain.ErrNotRegistered
	}

	if params.FiatPrice > params.Level.PriceCeiling() {
		return nil, domain.ErrPriceCeilingExceeded
	}

	cost := params.Level.CreditCost()
	if err := uc.credits.DebitCredits(ctx, principal, cost); err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		Owner:                 principal,
		PublicID:              params.PublicID,
		Username:              params.Username,
		Title:                 params.Title,
		Description:           params.Description,
		Level:                 params.Level,
		FiatPrice:             params.FiatPrice,
		JoinPrice:             params.FiatPrice,
		MaxMembers:            params.MaxMembers,
		TotalTimeInMonths:     params.TotalTimeInMonths,
		WaitingPeriodInMonths: params.WaitingPeriodInMonths,
	}
	if err := uc.activities.Create(ctx, activity); err != nil {
		// Undo the debit so a storage failure leaves the balance intact.
		if refundErr := uc.credits.AddCredits(ctx, principal, cost); refundErr != nil {
			uc.logger.Error("failed to restore credits after create failure",
				zap.String("address", string(principal)), zap.Error(refundErr))
		}
		return nil, err
	}

	uc.logger.Info("activity created",
		zap.Int64("activity_id", activity.ID),
		zap.String("owner", string(principal)),
		zap.Int("level", int(activity.Level)),
		zap.Int64("credit_cost", cost))
	uc.record(ctx, domain.LedgerEvent{
		Module:    "activity",
		Operation: "create",
		Sender:    sender,
		Principal: principal,
		Subject:   activity.ID,
		Amount:    cost,
	})

	return activity, nil
}

// JoinActivity enrolls the principal after capturing the join fee, which is
// the fiat join price converted to native currency at the latest quote.
func (uc *UseCase) JoinActivity(ctx context.Context, sender, principal domain.Address, params usecase.JoinActivityParams) error {
	if err := uc.permits.Authorize(sender, principal); err != nil {
		return err
	}

	activity, err := uc.activities.GetByID(ctx, params.ActivityID)
	if err != nil {
		return err
	}
	if activity.HasMember(principal) {
		return domain.ErrAlreadyMember
	}
	if activity.IsFull() {
		return domain.ErrActivityFull
	}

	required, err := uc.joinPriceInNative(ctx, activity)
	if err != nil {
		return err
	}
	if params.Payment < required {
		return domain.ErrInsufficientPayment
	}

	capture := params.Payment
	if uc.cfg.RefundOverpayment {
		capture = required
	}
	if err := uc.bank.Transfer(ctx, principal, uc.cfg.JoinVault, capture); err != nil {
		return err
	}

	activity.Members = append(activity.Members, principal)
	if err := uc.activities.Update(ctx, activity); err != nil {
		if refundErr := uc.bank.Transfer(ctx, uc.cfg.JoinVault, principal, capture); refundErr != nil {
			uc.logger.Error("failed to refund join payment after update failure",
				zap.Int64("activity_id", activity.ID), zap.Error(refundErr))
		}
		return err
	}

	uc.logger.Info("member joined activity",
		zap.Int64("activity_id", activity.ID),
		zap.String("member", string(principal)),
		zap.Int64("paid", capture))
	payload, _ := json.Marshal(map[string]any{
		"display_name":     params.DisplayName,
		"tenure_in_months": params.TenureInMonths,
	})
	uc.record(ctx, domain.LedgerEvent{
		Module:    "activity",
		Operation: "join",
		Sender:    sender,
		Principal: principal,
		Subject:   activity.ID,
		Amount:    capture,
		Payload:   payload,
	})

	return nil
}

// AddTerm appends one term record of parallel titles/descriptions. Owner only.
func (uc *UseCase) AddTerm(ctx context.Context, sender, principal domain.Address, activityID int64, titles, descriptions []string) error {
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
	if len(titles) == 0 || len(titles) != len(descriptions) {
		return domain.ErrInvalidPayload
	}

	activity.Terms = append(activity.Terms, domain.Term{
		Titles:       append([]string(nil), titles...),
		Descriptions: append([]string(nil), descriptions...),
		AddedAt:      time.Now().UTC(),
	})
	if err := uc.activities.Update(ctx, activity); err != nil {
		return err
	}

	uc.record(ctx, domain.LedgerEvent{
		Module:    "activity",
		Operation: "add_term",
		Sender:    sender,
		Principal: principal,
		Subject:   activityID,
	})
	return nil
}

// AddToWhitelist grows the per-activity join allow-list. Owner only. The
// whitelist gates the relayed join path; direct joins do not consult it.
func (uc *UseCase) AddToWhitelist(ctx context.Context, sender, principal domain.Address, activityID int64, addrs []domain.Address) error {
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

	for _, addr := range addrs {
		if addr.IsZero() || activity.IsWhitelisted(addr) {
			continue
		}
		activity.Whitelist = append(activity.Whitelist, addr)
	}
	return uc.activities.Update(ctx, activity)
}

// HasJoinPermission reports whether addr is allowed onto the activity via
// the relayed path.
func (uc *UseCase) HasJoinPermission(ctx context.Context, activityID int64, addr domain.Address) (bool, error) {
	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return false, err
	}
	return activity.IsWhitelisted(addr), nil
}

// GetActivity returns an activity by id; id 0 is the not-found sentinel.
func (uc *UseCase) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	if id <= 0 {
		return nil, domain.ErrActivityNotFound
	}
	return uc.activities.GetByID(ctx, id)
}

// ActivityCount returns the number of activities ever created.
func (uc *UseCase) ActivityCount(ctx context.Context) (int64, error) {
	return uc.activities.Count(ctx)
}

// TermsFor returns the ordered term records of an activity.
func (uc *UseCase) TermsFor(ctx context.Context, activityID int64) ([]domain.Term, error) {
	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return activity.Terms, nil
}

// JoinPriceInNative converts the activity's fiat join price at the latest
// oracle quote so callers can compute the required payment up front.
func (uc *UseCase) JoinPriceInNative(ctx context.Context, activityID int64) (int64, error) {
	activity, err := uc.activities.GetByID(ctx, activityID)
	if err != nil {
		return 0, err
	}
	return uc.joinPriceInNative(ctx, activity)
}

func (uc *UseCase) joinPriceInNative(ctx context.Context, activity *domain.Activity) (int64, error) {
	quote, err := uc.oracle.LatestQuote(ctx)
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "oracle read failed", err)
	}
	return domain.ConvertFiatToNative(activity.JoinPrice, quote)
}

func (uc *UseCase) record(ctx context.Context, event domain.LedgerEvent) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(ctx, event); err != nil {
		uc.logger.Warn("failed to journal activity event",
			zap.String("operation", event.Operation), zap.Error(err))
	}
}

package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/evaluator"
	"transfer_scanner/internal/domain/service/parse"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type State interface {
	IsProcessed(ctx context.Context, playerID string) (bool, error)
	MarkProcessed(ctx context.Context, playerID string) error
	AddDeal(ctx context.Context, record entity.DealRecord) error
	RemoveDeal(ctx context.Context, playerID string) (bool, error)
}

type Rules struct {
	DealRules        []entity.DealRule
	MinimumReference int64
	DateFormat       entity.DateFormat
	SkipInjured      bool
}

// Outcome результат обработки одной карточки игрока.
type Outcome struct {
	PlayerID string
	Deal     *entity.DealRecord
	Factor   float64
	Injured  bool
}

type Service struct {
	state State
	rules Rules
	now   func() time.Time
}

func NewService(state State, rules Rules) *Service {
	return &Service{
		state: state,
		rules: rules,
		now:   time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

func (s *Service) IsProcessed(ctx context.Context, playerID string) (bool, error) {
	processed, err := s.state.IsProcessed(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("state.IsProcessed: %w", err)
	}

	return processed, nil
}

// ProcessListing marks the player processed, evaluates the listing and records
// or withdraws the deal. Unparsable fields degrade to zero with a warning.
func (s *Service) ProcessListing(ctx context.Context, raw entity.RawListing) (Outcome, error) {
	playerID := raw.PlayerID
	if playerID == "" {
		playerID, _ = parse.PlayerID(raw.Link)
	}

	outcome := Outcome{PlayerID: playerID, Injured: raw.Injured}

	if err := s.state.MarkProcessed(ctx, playerID); err != nil {
		return outcome, fmt.Errorf("state.MarkProcessed: %w", err)
	}

	log := logger(ctx).With(slog.String(logx.FieldPlayerID, playerID))

	if raw.Injured && s.rules.SkipInjured {
		log.InfoContext(ctx, "injured player skipped")

		return outcome, nil
	}

	median, ok := parse.Money(raw.Median)
	if !ok {
		// без медианы сделку не оцениваем и ранее найденную не трогаем
		log.WarnContext(ctx, "median not read, listing skipped", slog.String(logx.FieldDescription, orAbsent(raw.Median)))

		return outcome, nil
	}

	price := s.amount(ctx, log, "price", raw.Price)

	var wage *int64

	if raw.Wage != nil {
		if v, ok := parse.Money(raw.Wage); ok {
			wage = &v
		} else {
			log.WarnContext(ctx, "wage not parsed, using 0", slog.String(logx.FieldWage, *raw.Wage))
		}
	}

	isDeal, factor := evaluator.Evaluate(price, deref(wage), median, s.rules.DealRules, s.rules.MinimumReference)
	outcome.Factor = factor

	if !isDeal {
		removed, err := s.state.RemoveDeal(ctx, playerID)
		if err != nil {
			return outcome, fmt.Errorf("state.RemoveDeal: %w", err)
		}

		if removed {
			log.InfoContext(ctx, "player is no longer a deal")
		}

		return outcome, nil
	}

	deadline, ok := parse.Deadline(raw.Deadline, s.rules.DateFormat)
	if !ok {
		log.WarnContext(ctx, "deal without a readable deadline is not recorded",
			slog.Int64(logx.FieldPrice, price),
			slog.Int64(logx.FieldMedian, median),
		)

		return outcome, nil
	}

	record := entity.DealRecord{
		PlayerID:       playerID,
		Deadline:       deadline,
		Price:          price,
		Wage:           wage,
		ReferenceValue: median,
		RecordedAt:     s.now(),
	}

	if err := s.state.AddDeal(ctx, record); err != nil {
		return outcome, fmt.Errorf("state.AddDeal: %w", err)
	}

	outcome.Deal = &record

	log.InfoContext(ctx, "deal found",
		slog.Int64(logx.FieldPrice, price),
		slog.Int64(logx.FieldWage, deref(wage)),
		slog.Int64(logx.FieldMedian, median),
		slog.Float64(logx.FieldFactor, factor),
		slog.Time(logx.FieldDeadline, deadline),
	)

	return outcome, nil
}

func (s *Service) amount(ctx context.Context, log *slog.Logger, name string, text *string) int64 {
	v, ok := parse.Money(text)
	if ok {
		return v
	}

	log.WarnContext(ctx, name+" not parsed, using 0", slog.String(logx.FieldDescription, orAbsent(text)))

	return 0
}

func orAbsent(text *string) string {
	if text == nil {
		return "<absent>"
	}

	return *text
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}

	return *v
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"transfer_scanner/internal/domain"
	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/infrastructure/persistence"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/logx"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	validate = newValidator()                               //nolint:gochecknoglobals
	logger   = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

// Settings domain settings kept next to the state files.
type Settings struct {
	LoginName              string            `json:"LoginName"`
	LoginPassword          string            `json:"LoginPassword"`
	DateFormatOption       entity.DateFormat `json:"DateFormatOption" validate:"oneof=DayMonthYear MonthDayYear"`
	DeadlineWindowHours    int               `json:"DeadlineWindowHours" validate:"gt=0"`
	MinimumMedianForDeal   int64             `json:"MinimumMedianForDeal" validate:"gte=0"`
	DealRules              []entity.DealRule `json:"DealRules" validate:"required,min=1,dive"`
	FreshnessWindowMinutes int               `json:"FreshnessWindowMinutes" validate:"gte=0"`
	SkipInjured            bool              `json:"SkipInjured"`
	Logs                   Logs              `json:"Logs"`
}

type Logs struct {
	MinimumLevel string `json:"MinimumLevel"`
}

func DefaultSettings() Settings {
	return Settings{
		DateFormatOption:     entity.DayMonthYear,
		DeadlineWindowHours:  12,
		MinimumMedianForDeal: 40000,
		DealRules:            entity.DefaultDealRules(),
		SkipInjured:          true,
		Logs:                 Logs{MinimumLevel: "Information"},
	}
}

func (s Settings) DeadlineWindow() time.Duration {
	return time.Duration(s.DeadlineWindowHours) * time.Hour
}

// FreshnessWindow zero means the freshness filter is off.
func (s Settings) FreshnessWindow() time.Duration {
	return time.Duration(s.FreshnessWindowMinutes) * time.Minute
}

// LoadSettings reads settings.json (created with defaults on first run), merges
// settings.local.json over it, applies credentials from the environment and validates.
func LoadSettings(ctx context.Context, path string, creds Hattrick) (Settings, error) {
	settings, err := persistence.LoadOrInit(ctx, path, DefaultSettings)
	if err != nil {
		return Settings{}, fmt.Errorf("persistence.LoadOrInit: %w", err)
	}

	if err := mergeLocal(ctx, &settings, LocalPath(path)); err != nil {
		return Settings{}, err
	}

	if creds.LoginName != "" {
		settings.LoginName = creds.LoginName
	}

	if creds.LoginPassword != "" {
		settings.LoginPassword = creds.LoginPassword
	}

	if err := Validate(settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// LocalPath: settings.json -> settings.local.json.
func LocalPath(path string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func mergeLocal(ctx context.Context, settings *Settings, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	var override Settings
	if err := json.Unmarshal(data, &override); err != nil {
		return domain.WrapError(err, errcodes.InvalidSettings, "malformed "+path)
	}

	if err := mergo.Merge(settings, override, mergo.WithOverride); err != nil {
		return fmt.Errorf("mergo.Merge: %w", err)
	}

	logger(ctx).InfoContext(ctx, "merging settings with local overrides", slog.String(logx.FieldPath, path))

	return nil
}

func Validate(settings Settings) error {
	if err := validate.Struct(settings); err != nil {
		return domain.WrapError(err, errcodes.InvalidSettings, "invalid settings")
	}

	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDealRules, Settings{})

	return v
}

// Tiers: limits strictly ascending, exactly one unbounded tier and it is the last one.
func validateDealRules(sl validator.StructLevel) {
	settings, ok := sl.Current().Interface().(Settings)
	if !ok || len(settings.DealRules) == 0 {
		return
	}

	rules := settings.DealRules
	last := len(rules) - 1

	if !rules[last].Unbounded() {
		sl.ReportError(settings.DealRules, "DealRules", "DealRules", "unbounded_last", "")

		return
	}

	var previous int64

	for i, rule := range rules[:last] {
		if rule.Unbounded() {
			sl.ReportError(settings.DealRules, "DealRules", "DealRules", "single_unbounded", "")

			return
		}

		if i > 0 && *rule.UpperMedianLimit <= previous {
			sl.ReportError(settings.DealRules, "DealRules", "DealRules", "ascending", "")

			return
		}

		previous = *rule.UpperMedianLimit
	}
}

// Level maps both the settings spelling (Information, Warning) and slog names.
func (l Logs) Level() (slog.Level, error) {
	switch strings.ToLower(l.MinimumLevel) {
	case "", "information", "info":
		return slog.LevelInfo, nil
	case "verbose", "debug":
		return slog.LevelDebug, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error", "fatal":
		return slog.LevelError, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(l.MinimumLevel)); err != nil {
		return slog.LevelInfo, domain.WrapError(err, errcodes.InvalidSettings, "unknown log level "+l.MinimumLevel)
	}

	return level, nil
}

// LoadFilters reads the search filters file, created with the two default filters on first run.
func LoadFilters(ctx context.Context, path string) (entity.SearchFilters, error) {
	filters, err := persistence.LoadOrInit(ctx, path, entity.DefaultSearchFilters)
	if err != nil {
		return entity.SearchFilters{}, fmt.Errorf("persistence.LoadOrInit: %w", err)
	}

	if len(filters.Filters) == 0 {
		logger(ctx).WarnContext(ctx, "no search filters configured", slog.String(logx.FieldPath, path))
	}

	return filters, nil
}

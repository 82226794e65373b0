package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"transfer_scanner/internal/domain/entity"
)

const dayLayout = "20060102"

// DayState владеет файлами обработанных игроков и сделок одного дня.
// Каждая мутация перечитывает и целиком перезаписывает файл.
type DayState struct {
	processedPath string
	dealsPath     string
}

func ProcessedPath(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format(dayLayout)+"processed.json")
}

func DealsPath(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format(dayLayout)+"deals.json")
}

// OpenDay loads (or creates) both files of the given day in dir.
func OpenDay(ctx context.Context, dir string, day time.Time) (*DayState, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return OpenPaths(ctx, ProcessedPath(dir, day), DealsPath(dir, day))
}

func OpenPaths(ctx context.Context, processedPath, dealsPath string) (*DayState, error) {
	s := &DayState{
		processedPath: processedPath,
		dealsPath:     dealsPath,
	}

	if _, err := s.loadProcessed(ctx); err != nil {
		return nil, err
	}

	if _, err := s.loadDeals(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *DayState) ProcessedFile() string {
	return s.processedPath
}

func (s *DayState) DealsFile() string {
	return s.dealsPath
}

func (s *DayState) IsProcessed(ctx context.Context, playerID string) (bool, error) {
	processed, err := s.loadProcessed(ctx)
	if err != nil {
		return false, err
	}

	return lo.Contains(processed.Ids, playerID), nil
}

func (s *DayState) ProcessedIDs(ctx context.Context) ([]string, error) {
	processed, err := s.loadProcessed(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Uniq(processed.Ids), nil
}

// MarkProcessed adds playerID to the processed set; empty ids are ignored.
func (s *DayState) MarkProcessed(ctx context.Context, playerID string) error {
	if playerID == "" {
		return nil
	}

	processed, err := s.loadProcessed(ctx)
	if err != nil {
		return err
	}

	if lo.Contains(processed.Ids, playerID) {
		return nil
	}

	processed.Ids = append(processed.Ids, playerID)

	return s.save(s.processedPath, processed)
}

// ReleasePlayers removes ids from the processed set and reports how many were removed.
func (s *DayState) ReleasePlayers(ctx context.Context, playerIDs []string) (int, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}

	processed, err := s.loadProcessed(ctx)
	if err != nil {
		return 0, err
	}

	kept := lo.Without(processed.Ids, playerIDs...)

	removed := len(processed.Ids) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	processed.Ids = kept

	return removed, s.save(s.processedPath, processed)
}

func (s *DayState) DealLines(ctx context.Context) ([]string, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}

	return deals.Info, nil
}

// AddDeal appends the record line; duplicates per player are left for reconciliation.
func (s *DayState) AddDeal(ctx context.Context, record entity.DealRecord) error {
	if record.PlayerID == "" {
		return nil
	}

	deals, err := s.loadDeals(ctx)
	if err != nil {
		return err
	}

	line := record.String()
	if lo.Contains(deals.Info, line) {
		return nil
	}

	deals.Info = append(deals.Info, line)

	return s.save(s.dealsPath, deals)
}

// RemoveDeal drops every line of playerID.
func (s *DayState) RemoveDeal(ctx context.Context, playerID string) (bool, error) {
	if playerID == "" {
		return false, nil
	}

	deals, err := s.loadDeals(ctx)
	if err != nil {
		return false, err
	}

	kept := lo.Reject(deals.Info, func(line string, _ int) bool {
		id, ok := entity.PlayerIDFromLine(line)

		return ok && id == playerID
	})

	if len(kept) == len(deals.Info) {
		return false, nil
	}

	deals.Info = kept

	return true, s.save(s.dealsPath, deals)
}

func (s *DayState) ReplaceDeals(_ context.Context, lines []string) error {
	if lines == nil {
		lines = []string{}
	}

	return s.save(s.dealsPath, dealPlayers{Info: lines})
}

func (s *DayState) loadProcessed(ctx context.Context) (processedPlayers, error) {
	processed, err := LoadOrInit(ctx, s.processedPath, newProcessedPlayers)
	if err != nil {
		return processedPlayers{}, fmt.Errorf("load processed players: %w", err)
	}

	if processed.Ids == nil {
		processed.Ids = []string{}
	}

	return processed, nil
}

func (s *DayState) loadDeals(ctx context.Context) (dealPlayers, error) {
	deals, err := LoadOrInit(ctx, s.dealsPath, newDealPlayers)
	if err != nil {
		return dealPlayers{}, fmt.Errorf("load deal players: %w", err)
	}

	if deals.Info == nil {
		deals.Info = []string{}
	}

	return deals, nil
}

func (s *DayState) save(path string, value any) error {
	if err := Save(path, value); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fableforge/engine/internal/game/combat"
)

// ErrReportNotFound is returned when a battle report lookup yields no results.
var ErrReportNotFound = errors.New("battle report not found")

// ErrReportExists is returned when creating a report whose engagement ID is
// already stored.
var ErrReportExists = errors.New("battle report already exists")

// BattleReport is the persisted form of a resolved engagement. The round log
// is stored as JSONB so reports survive engine formula changes unchanged.
type BattleReport struct {
	ID             string
	Outcome        string
	Winner         string
	Loser          string
	TotalRounds    int
	TotalDamage    int
	TotalHits      int
	TotalCriticals int
	HitRate        float64
	CriticalRate   float64
	AverageDamage  float64
	Rounds         []combat.RoundRecord
	CreatedAt      time.Time
}

// NewBattleReport converts an engagement outcome into its persisted form.
//
// Precondition: outcome must be non-nil.
func NewBattleReport(outcome *combat.CombatOutcome) *BattleReport {
	return &BattleReport{
		ID:             outcome.EngagementID,
		Outcome:        string(outcome.Outcome),
		Winner:         outcome.Winner,
		Loser:          outcome.Loser,
		TotalRounds:    outcome.TotalRounds,
		TotalDamage:    outcome.TotalDamage,
		TotalHits:      outcome.TotalHits,
		TotalCriticals: outcome.TotalCriticals,
		HitRate:        outcome.HitRate,
		CriticalRate:   outcome.CriticalRate,
		AverageDamage:  outcome.AverageDamage,
		Rounds:         outcome.Rounds,
	}
}

// ReportRepository provides battle report persistence operations.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a battle report and returns it with CreatedAt set.
//
// Precondition: report.ID must be a non-empty engagement ID.
// Postcondition: Returns the stored report, or ErrReportExists on a duplicate
// engagement ID.
func (r *ReportRepository) Create(ctx context.Context, report *BattleReport) (*BattleReport, error) {
	roundsJSON, err := json.Marshal(report.Rounds)
	if err != nil {
		return nil, fmt.Errorf("encoding round log: %w", err)
	}

	out := *report
	err = r.db.QueryRow(ctx, `
		INSERT INTO battle_reports
			(id, outcome, winner, loser, total_rounds, total_damage, total_hits,
			 total_criticals, hit_rate, critical_rate, average_damage, rounds)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at`,
		report.ID, report.Outcome, report.Winner, report.Loser,
		report.TotalRounds, report.TotalDamage, report.TotalHits,
		report.TotalCriticals, report.HitRate, report.CriticalRate,
		report.AverageDamage, roundsJSON,
	).Scan(&out.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrReportExists
		}
		return nil, fmt.Errorf("inserting battle report: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a battle report by engagement ID.
//
// Precondition: id must be non-empty.
// Postcondition: Returns the BattleReport or ErrReportNotFound.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*BattleReport, error) {
	var (
		report     BattleReport
		roundsJSON []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, outcome, winner, loser, total_rounds, total_damage, total_hits,
		       total_criticals, hit_rate, critical_rate, average_damage, rounds, created_at
		FROM battle_reports WHERE id = $1`,
		id,
	).Scan(
		&report.ID, &report.Outcome, &report.Winner, &report.Loser,
		&report.TotalRounds, &report.TotalDamage, &report.TotalHits,
		&report.TotalCriticals, &report.HitRate, &report.CriticalRate,
		&report.AverageDamage, &roundsJSON, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("querying battle report: %w", err)
	}
	if err := json.Unmarshal(roundsJSON, &report.Rounds); err != nil {
		return nil, fmt.Errorf("decoding round log: %w", err)
	}
	return &report, nil
}

// ListRecent returns the most recently stored reports, newest first. The
// round logs are omitted to keep listings cheap.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]*BattleReport, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, outcome, winner, loser, total_rounds, total_damage, total_hits,
		       total_criticals, hit_rate, critical_rate, average_damage, created_at
		FROM battle_reports ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*BattleReport, 0)
	for rows.Next() {
		var report BattleReport
		if err := rows.Scan(
			&report.ID, &report.Outcome, &report.Winner, &report.Loser,
			&report.TotalRounds, &report.TotalDamage, &report.TotalHits,
			&report.TotalCriticals, &report.HitRate, &report.CriticalRate,
			&report.AverageDamage, &report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning battle report row: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

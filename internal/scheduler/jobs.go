package scheduler

import (
	"context"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/behavior"
	"github.com/aristath/bulwark/internal/modules/scoring"
	"github.com/aristath/bulwark/internal/reliability"
	"github.com/rs/zerolog"
)

const jobTimeout = 10 * time.Minute

// ScoreRefreshJob rescans the account's open positions and rescores each
// symbol, warming the cache and persisting fresh daily rows.
type ScoreRefreshJob struct {
	broker  domain.BrokerClient
	scoring *scoring.Service
	account string
	log     zerolog.Logger
}

// NewScoreRefreshJob creates a new score refresh job
func NewScoreRefreshJob(broker domain.BrokerClient, scoringService *scoring.Service, account string, log zerolog.Logger) *ScoreRefreshJob {
	return &ScoreRefreshJob{
		broker:  broker,
		scoring: scoringService,
		account: account,
		log:     log.With().Str("job", "score_refresh").Logger(),
	}
}

// Name implements Job
func (j *ScoreRefreshJob) Name() string { return "score_refresh" }

// Run scores every open stock position. Per-symbol failures are logged
// and skipped; the job only fails when the position list is unavailable.
func (j *ScoreRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	positions, err := j.broker.ListStockPositions(ctx, j.account)
	if err != nil {
		return err
	}

	scored := 0
	for _, pos := range positions {
		if _, err := j.scoring.ScorePosition(ctx, j.account, pos.Symbol, pos.LastPrice); err != nil {
			j.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("Failed to refresh score")
			continue
		}
		scored++
	}

	j.log.Info().Int("scored", scored).Int("positions", len(positions)).Msg("Scores refreshed")
	return nil
}

// BehaviorScanJob recomputes per-symbol discipline metrics from the
// broker's fill history.
type BehaviorScanJob struct {
	behavior *behavior.Service
	account  string
	log      zerolog.Logger
}

// NewBehaviorScanJob creates a new behavior scan job
func NewBehaviorScanJob(behaviorService *behavior.Service, account string, log zerolog.Logger) *BehaviorScanJob {
	return &BehaviorScanJob{
		behavior: behaviorService,
		account:  account,
		log:      log.With().Str("job", "behavior_scan").Logger(),
	}
}

// Name implements Job
func (j *BehaviorScanJob) Name() string { return "behavior_scan" }

// Run implements Job
func (j *BehaviorScanJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	_, err := j.behavior.ScanAccount(ctx, j.account)
	return err
}

// BackupJob uploads a database backup and rotates old archives
type BackupJob struct {
	backup        *reliability.BackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(backup *reliability.BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backup:        backup,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name implements Job
func (j *BackupJob) Name() string { return "backup" }

// Run implements Job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := j.backup.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	return j.backup.RotateOldBackups(ctx, j.retentionDays)
}

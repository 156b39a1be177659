package scoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
)

// scoreColumns is the list of columns for the position_scores table.
// Column order must match scanScore().
const scoreColumns = `account, symbol, score_date, technical_score, fundamental_score,
	sentiment_score, overall_score, risk_tier, recommendation, target_weight,
	stop_loss, take_profit, price, created_at`

// ScoreRepository persists position scores in portfolio.db. Rows are keyed
// by (account, symbol, score_date); rescoring the same day upserts in place.
type ScoreRepository struct {
	portfolioDB *sql.DB
	log         zerolog.Logger
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(portfolioDB *sql.DB, log zerolog.Logger) *ScoreRepository {
	return &ScoreRepository{
		portfolioDB: portfolioDB,
		log:         log.With().Str("repo", "position_scores").Logger(),
	}
}

// Upsert inserts or replaces the score row for (account, symbol, score_date)
func (r *ScoreRepository) Upsert(s PositionScore) error {
	query := `
		INSERT INTO position_scores
		(account, symbol, score_date, technical_score, fundamental_score,
		 sentiment_score, overall_score, risk_tier, recommendation,
		 target_weight, stop_loss, take_profit, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account, symbol, score_date) DO UPDATE SET
			technical_score = excluded.technical_score,
			fundamental_score = excluded.fundamental_score,
			sentiment_score = excluded.sentiment_score,
			overall_score = excluded.overall_score,
			risk_tier = excluded.risk_tier,
			recommendation = excluded.recommendation,
			target_weight = excluded.target_weight,
			stop_loss = excluded.stop_loss,
			take_profit = excluded.take_profit,
			price = excluded.price,
			created_at = excluded.created_at
	`

	_, err := r.portfolioDB.Exec(query,
		s.Account,
		s.Symbol,
		s.ScoreDate,
		s.TechnicalScore,
		s.FundamentalScore,
		s.SentimentScore,
		s.OverallScore,
		string(s.RiskTier),
		string(s.Recommendation),
		s.TargetWeight,
		s.StopLoss,
		s.TakeProfit,
		s.Price,
		s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position score for %s: %w", s.Symbol, err)
	}

	return nil
}

// GetLatest returns the most recent score row for a symbol, or nil when absent
func (r *ScoreRepository) GetLatest(account, symbol string) (*PositionScore, error) {
	query := "SELECT " + scoreColumns + ` FROM position_scores
		WHERE account = ? AND symbol = ?
		ORDER BY score_date DESC LIMIT 1`

	rows, err := r.portfolioDB.Query(query, account, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query position score for %s: %w", symbol, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	s, err := scanScore(rows)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// GetByDate returns all score rows for an account on one date, symbol-ordered
func (r *ScoreRepository) GetByDate(account, scoreDate string) ([]PositionScore, error) {
	query := "SELECT " + scoreColumns + ` FROM position_scores
		WHERE account = ? AND score_date = ?
		ORDER BY symbol`

	rows, err := r.portfolioDB.Query(query, account, scoreDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query position scores: %w", err)
	}
	defer rows.Close()

	var result []PositionScore
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func scanScore(rows *sql.Rows) (PositionScore, error) {
	var s PositionScore
	var tier, rec, createdAt string

	err := rows.Scan(
		&s.Account,
		&s.Symbol,
		&s.ScoreDate,
		&s.TechnicalScore,
		&s.FundamentalScore,
		&s.SentimentScore,
		&s.OverallScore,
		&tier,
		&rec,
		&s.TargetWeight,
		&s.StopLoss,
		&s.TakeProfit,
		&s.Price,
		&createdAt,
	)
	if err != nil {
		return s, fmt.Errorf("failed to scan position score: %w", err)
	}

	s.RiskTier = domain.RiskTier(tier)
	s.Recommendation = domain.Recommendation(rec)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = t
	}

	return s, nil
}

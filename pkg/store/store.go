// Package store persists the game collection and its price history in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/pricing/sources"
)

// Game is one collection entry. CurrentPrice, PriceSource and
// PriceUpdatedAt are unset until the first successful refresh.
type Game struct {
	ID             int64
	Title          string
	PlatformName   string
	PlatformSlug   string
	SteamAppID     string
	CurrentPrice   *decimal.Decimal
	PriceSource    string
	MarketPrices   []sources.Quote
	PriceUpdatedAt *time.Time
}

// Store is a SQLite-backed game store. Thread-safe; writes are serialized
// because SQLite supports a single writer.
type Store struct {
	db     *sql.DB
	logger *logging.Logger
	mu     sync.RWMutex
}

// New opens (creating if needed) the database at path and bootstraps the
// schema.
func New(path string, logger *logging.Logger) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info("Game store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		platform_name TEXT NOT NULL DEFAULT '',
		platform_slug TEXT NOT NULL DEFAULT '',
		steam_appid TEXT NOT NULL DEFAULT '',
		current_price TEXT,
		price_source TEXT NOT NULL DEFAULT '',
		market_prices TEXT,
		price_updated_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_games_title ON games(title);
	CREATE INDEX IF NOT EXISTS idx_games_price_updated ON games(price_updated_at);
	`
	_, err := db.Exec(query)
	return err
}

// AddGame inserts a game and returns its id.
func (s *Store) AddGame(ctx context.Context, g Game) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO games (title, platform_name, platform_slug, steam_appid)
		VALUES (?, ?, ?, ?)`,
		g.Title, g.PlatformName, g.PlatformSlug, g.SteamAppID)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return result.LastInsertId()
}

const gameColumns = `id, title, platform_name, platform_slug, steam_appid,
	current_price, price_source, market_prices, price_updated_at`

// GetGame fetches one game by id. Returns ErrGameNotFound for unknown ids.
func (s *Store) GetGame(ctx context.Context, id int64) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// ListGames returns every game ordered by id.
func (s *Store) ListGames(ctx context.Context) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

// SaveGamePrice records the selected price, its source and the full quote
// list for a game.
func (s *Store) SaveGamePrice(ctx context.Context, id int64, price decimal.Decimal, source string, quotes []sources.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marketPrices, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encode market prices: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE games
		SET current_price = ?, price_source = ?, market_prices = ?, price_updated_at = ?
		WHERE id = ?`,
		price.String(), source, string(marketPrices), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("save game price: %w", err)
	}
	return s.requireRow(result, id)
}

// SetSteamAppID back-fills a Steam app id discovered during a refresh.
func (s *Store) SetSteamAppID(ctx context.Context, id int64, appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE games SET steam_appid = ? WHERE id = ?`, appID, id)
	if err != nil {
		return fmt.Errorf("set steam app id: %w", err)
	}
	return s.requireRow(result, id)
}

func (s *Store) requireRow(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrGameNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*Game, error) {
	var (
		g            Game
		currentPrice sql.NullString
		market       sql.NullString
		updatedAt    sql.NullTime
	)
	err := row.Scan(&g.ID, &g.Title, &g.PlatformName, &g.PlatformSlug, &g.SteamAppID,
		&currentPrice, &g.PriceSource, &market, &updatedAt)
	if err != nil {
		return nil, err
	}

	if currentPrice.Valid && currentPrice.String != "" {
		price, err := decimal.NewFromString(currentPrice.String)
		if err != nil {
			return nil, fmt.Errorf("bad stored price %q: %w", currentPrice.String, err)
		}
		g.CurrentPrice = &price
	}
	if market.Valid && market.String != "" {
		if err := json.Unmarshal([]byte(market.String), &g.MarketPrices); err != nil {
			return nil, fmt.Errorf("bad stored market prices: %w", err)
		}
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		g.PriceUpdatedAt = &t
	}
	return &g, nil
}

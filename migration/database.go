package migration

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ch0002ic/creatorcoin-ai/logx"
)

const (
	maxConnectRetries = 5
	connectRetryDelay = 3 * time.Second
)

// ConnectDatabase opens the legacy Postgres database, retrying a few times
// so the importer survives a database that is still coming up.
func ConnectDatabase(databaseURL string) (*sql.DB, error) {
	var lastErr error

	for attempt := 0; attempt < maxConnectRetries; attempt++ {
		if attempt > 0 {
			logx.Info("MIGRATION", fmt.Sprintf("Retrying database connection (attempt %d/%d) after error: %v", attempt+1, maxConnectRetries, lastErr))
			time.Sleep(connectRetryDelay)
		}

		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			lastErr = fmt.Errorf("open database: %w", err)
			continue
		}
		if err := db.Ping(); err != nil {
			db.Close()
			lastErr = fmt.Errorf("ping database: %w", err)
			continue
		}

		logx.Info("MIGRATION", "Database connection established")
		return db, nil
	}

	return nil, fmt.Errorf("connect after %d attempts: %w", maxConnectRetries, lastErr)
}

// LegacyBalance is one row of the legacy wallet table
type LegacyBalance struct {
	UserID  int64
	Address string
	Amount  string
}

// DefaultQuery reads the legacy wallet table. Balances are NUMERIC in major
// units; rows without a positive balance are skipped at the source.
const DefaultQuery = `SELECT id, wallet_address, balance FROM user_wallets WHERE balance > 0 ORDER BY id`

// FetchBalances runs query (DefaultQuery when empty) and scans the rows
func FetchBalances(db *sql.DB, query string) ([]LegacyBalance, error) {
	if query == "" {
		query = DefaultQuery
	}
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query legacy balances: %w", err)
	}
	defer rows.Close()

	var balances []LegacyBalance
	for rows.Next() {
		var row LegacyBalance
		if err := rows.Scan(&row.UserID, &row.Address, &row.Amount); err != nil {
			return nil, fmt.Errorf("scan legacy balance row: %w", err)
		}
		balances = append(balances, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy balances: %w", err)
	}
	return balances, nil
}

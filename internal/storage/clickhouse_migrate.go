package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
)

// RunClickHouseMigrations executes the .sql files in migrationsPath against
// ClickHouse in lexical order. ClickHouse DDL here is idempotent
// (CREATE TABLE IF NOT EXISTS), so reruns are safe.
func RunClickHouseMigrations(db *ClickHouseDB, migrationsPath string) error {
	ctx := context.Background()
	logger := logging.GetGlobalLogger()

	files, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	if len(sqlFiles) == 0 {
		logger.Warn("No ClickHouse migration files found")
		return nil
	}

	for _, filename := range sqlFiles {
		content, err := os.ReadFile(filepath.Join(migrationsPath, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		logger.WithField("file", filename).Info("Applying ClickHouse migration")

		for _, stmt := range splitSQLStatements(string(content)) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", filename, err)
			}
		}
	}

	return nil
}

// splitSQLStatements splits a migration file into individual statements.
// Comment-only lines are dropped so a trailing comment does not produce an
// empty statement.
func splitSQLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Split(strings.Join(cleaned, "\n"), ";")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/simtools/farkit/internal/catalog"
	"github.com/simtools/farkit/internal/utils"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the archive catalog from the command line",
	Long: `Query executes SQL against the catalog database built by the catalog
command. Use --archives for a formatted summary of every cataloged
archive, --tables to list the catalog tables, or --schema to inspect a
table's columns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listArchives, err := cmd.Flags().GetBool("archives")
		if err != nil {
			return fmt.Errorf("failed to get archives flag: %w", err)
		}
		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		schemaTable, err := cmd.Flags().GetString("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"archives", listArchives,
			"tables", listTables,
			"schema", schemaTable)

		// Open catalog connection
		db, err := catalog.Open(catalog.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer db.Close()

		hasSchema, err := db.HasSchema(ctx)
		if err != nil {
			return fmt.Errorf("checking catalog: %w", err)
		}
		if !hasSchema {
			return fmt.Errorf("catalog %s has no tables yet, run: farkit catalog <directory>", cfg.Database)
		}

		// Handle --archives flag
		if listArchives {
			return printArchives(ctx, db)
		}

		// Handle --tables flag
		if listTables {
			slog.Debug("Listing catalog tables")

			query := `
				SELECT name FROM sqlite_master
				WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
				ORDER BY name
			`

			rows, err := db.Query(ctx, query)
			if err != nil {
				return fmt.Errorf("listing tables: %w", err)
			}
			defer rows.Close()

			fmt.Println("Available tables:")
			for rows.Next() {
				var tableName string
				if err := rows.Scan(&tableName); err != nil {
					return fmt.Errorf("scanning table name: %w", err)
				}
				fmt.Printf("  %s\n", tableName)
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating table names: %w", err)
			}

			return nil
		}

		// Handle --schema flag
		if schemaTable != "" {
			slog.Debug("Getting table schema", "table", schemaTable)

			quoted := `"` + strings.ReplaceAll(schemaTable, `"`, `""`) + `"`
			rows, err := db.Query(ctx, `PRAGMA table_info(`+quoted+`)`)
			if err != nil {
				return fmt.Errorf("getting schema for table %s: %w", schemaTable, err)
			}
			defer rows.Close()

			fmt.Printf("Schema for table '%s':\n", schemaTable)
			fmt.Printf("%-20s %-15s %-10s %-10s %-10s\n",
				"Column", "Type", "NotNull", "Default", "Primary")
			fmt.Println(strings.Repeat("-", 70))

			for rows.Next() {
				var cid int
				var name, dataType string
				var notNull int
				var defaultValue, primaryKey interface{}

				if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &primaryKey); err != nil {
					return fmt.Errorf("scanning schema row: %w", err)
				}

				defaultStr := "NULL"
				if defaultValue != nil {
					defaultStr = formatValue(defaultValue)
				}

				primaryStr := "NO"
				if primaryKey != nil && formatValue(primaryKey) != "0" {
					primaryStr = "YES"
				}

				fmt.Printf("%-20s %-15s %-10s %-10s %-10s\n",
					name, dataType,
					map[int]string{0: "NO", 1: "YES"}[notNull],
					defaultStr, primaryStr)
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating schema: %w", err)
			}

			return nil
		}

		// Handle SQL query execution
		if len(args) > 0 {
			query := args[0]
			slog.Debug("Executing SQL query", "query", query)

			rows, err := db.Query(ctx, query)
			if err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
			defer rows.Close()

			columns, err := rows.Columns()
			if err != nil {
				return fmt.Errorf("getting column names: %w", err)
			}

			// Print column headers
			for i, col := range columns {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(col)
			}
			fmt.Println()

			// Print separator
			for i, col := range columns {
				if i > 0 {
					fmt.Print("\t")
				}
				fmt.Print(strings.Repeat("-", len(col)))
			}
			fmt.Println()

			// Print rows
			for rows.Next() {
				values := make([]interface{}, len(columns))
				valuePtrs := make([]interface{}, len(columns))
				for i := range values {
					valuePtrs[i] = &values[i]
				}

				if err := rows.Scan(valuePtrs...); err != nil {
					return fmt.Errorf("scanning row: %w", err)
				}

				for i, val := range values {
					if i > 0 {
						fmt.Print("\t")
					}
					fmt.Print(formatValue(val))
				}
				fmt.Println()
			}

			if err := rows.Err(); err != nil {
				return fmt.Errorf("iterating rows: %w", err)
			}

			return nil
		}

		return fmt.Errorf("no query provided, use --archives, --tables, --schema <table> or a SQL string")
	},
}

// printArchives prints a formatted summary of every cataloged archive
func printArchives(ctx context.Context, db *catalog.Database) error {
	rows, err := db.Query(ctx,
		`SELECT path, version, entry_count, data_size, scanned_at FROM archives ORDER BY path`)
	if err != nil {
		return fmt.Errorf("listing archives: %w", err)
	}
	defer rows.Close()

	fmt.Printf("%-48s %8s %8s %12s  %s\n", "Path", "Version", "Entries", "Data", "Scanned")
	fmt.Println(strings.Repeat("-", 96))

	for rows.Next() {
		var path, scannedAt string
		var version, entryCount, dataSize int64
		if err := rows.Scan(&path, &version, &entryCount, &dataSize, &scannedAt); err != nil {
			return fmt.Errorf("scanning archive row: %w", err)
		}
		fmt.Printf("%-48s %8d %8s %12s  %s\n",
			path, version, utils.Number(entryCount), utils.Bytes(uint64(dataSize)), scannedAt)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating archives: %w", err)
	}

	st, err := db.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading catalog stats: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s archives, %s entries, %s of file data\n",
		utils.Number(st.Archives), utils.Number(st.Entries), utils.Bytes(uint64(st.DataSize)))
	return nil
}

// formatValue renders a scanned SQL value for terminal output
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("archives", false, "List cataloged archives with a summary")
	queryCmd.Flags().Bool("tables", false, "List available tables")
	queryCmd.Flags().String("schema", "", "Show schema for specified table")
}

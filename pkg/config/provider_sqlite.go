package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const defaultConfigQuery = `(SELECT id FROM configs WHERE name = 'default')`

// NewMigrator returns a migrator for the configuration schema of db.
func NewMigrator(db *sql.DB, logger *zap.SugaredLogger) (*migrate.Migrator, error) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewMigrator(db, migrate.NewFSProvider(sub, ""), logger), nil
}

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens the SQLite database at dbPath, creating it and
// bringing its schema up to date as needed.
func NewSQLiteProvider(dbPath string, logger *zap.SugaredLogger) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// foreign_keys is a per-connection pragma
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	migrator, err := NewMigrator(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	simulation, err := s.getSimulation()
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation config: %w", err)
	}
	config.Simulation = *simulation

	lakes, err := s.GetLakes()
	if err != nil {
		return nil, fmt.Errorf("failed to load lakes: %w", err)
	}
	config.Lakes = lakes

	storage, err := s.getStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	server, err := s.getServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	return config, nil
}

const lakeColumns = `
	l.name, l.type, l.latitude, l.altitude, l.zmax, l.surface, l.volume,
	p.a, p.b, p.c, p.d, p.e, p.alpha, p.beta, p.at_factor, p.sw_factor, p.mat`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLake(row rowScanner) (*LakeData, error) {
	var lake LakeData
	var lakeType string
	var a, b, c, d, e, alpha, beta, atFactor, swFactor, mat sql.NullFloat64

	err := row.Scan(
		&lake.Name, &lakeType, &lake.Latitude, &lake.Altitude, &lake.Zmax, &lake.Surface, &lake.Volume,
		&a, &b, &c, &d, &e, &alpha, &beta, &atFactor, &swFactor, &mat,
	)
	if err != nil {
		return nil, err
	}
	lake.Type = types.LakeType(lakeType)

	// parameter columns are all NULL when the lake has no parameter set
	if a.Valid {
		lake.Parameters = &types.ParameterSet{
			A: a.Float64, B: b.Float64, C: c.Float64, D: d.Float64, E: e.Float64,
			Alpha: alpha.Float64, Beta: beta.Float64,
			ATFactor: atFactor.Float64, SWFactor: swFactor.Float64, MAT: mat.Float64,
		}
	}
	return &lake, nil
}

// GetLakes returns every configured lake ordered by name
func (s *SQLiteProvider) GetLakes() ([]LakeData, error) {
	query := `SELECT ` + lakeColumns + `
		FROM lakes l
		LEFT JOIN parameter_sets p ON p.lake_id = l.id
		WHERE l.config_id = ` + defaultConfigQuery + `
		ORDER BY l.name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lakes: %w", err)
	}
	defer rows.Close()

	var lakes []LakeData
	for rows.Next() {
		lake, err := scanLake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lake row: %w", err)
		}
		lakes = append(lakes, *lake)
	}
	return lakes, rows.Err()
}

// GetLake retrieves a specific lake by name
func (s *SQLiteProvider) GetLake(name string) (*LakeData, error) {
	query := `SELECT ` + lakeColumns + `
		FROM lakes l
		LEFT JOIN parameter_sets p ON p.lake_id = l.id
		WHERE l.config_id = ` + defaultConfigQuery + ` AND l.name = ?`

	lake, err := scanLake(s.db.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lake %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lake %s: %w", name, err)
	}
	return lake, nil
}

// GetParameters returns the stored parameter set of a lake
func (s *SQLiteProvider) GetParameters(lake string) (*types.ParameterSet, error) {
	l, err := s.GetLake(lake)
	if err != nil {
		return nil, err
	}
	if l.Parameters == nil {
		return nil, fmt.Errorf("parameters of lake %s: %w", lake, ErrNotFound)
	}
	return l.Parameters, nil
}

// AddLake adds a new lake, with its parameter set when present
func (s *SQLiteProvider) AddLake(lake LakeData) error {
	if err := lake.Validate(); err != nil {
		return fmt.Errorf("lake %s: %w", lake.Name, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertLake(tx, &lake); err != nil {
		return fmt.Errorf("failed to insert lake %s: %w", lake.Name, err)
	}
	return tx.Commit()
}

// DeleteLake removes a lake and its parameter set
func (s *SQLiteProvider) DeleteLake(name string) error {
	result, err := s.db.Exec(`DELETE FROM lakes WHERE config_id = `+defaultConfigQuery+` AND name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete lake %s: %w", name, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("lake %s: %w", name, ErrNotFound)
	}
	return nil
}

// SaveParameters stores params as the parameter set of an existing lake,
// replacing any previous one.
func (s *SQLiteProvider) SaveParameters(lake string, params types.ParameterSet) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("parameters of lake %s: %w", lake, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lakeID int64
	err = tx.QueryRow(`SELECT id FROM lakes WHERE config_id = `+defaultConfigQuery+` AND name = ?`, lake).Scan(&lakeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lake %s: %w", lake, ErrNotFound)
		}
		return fmt.Errorf("failed to look up lake %s: %w", lake, err)
	}

	if err := upsertParameters(tx, lakeID, params); err != nil {
		return fmt.Errorf("failed to save parameters of lake %s: %w", lake, err)
	}
	return tx.Commit()
}

func insertLake(tx *sql.Tx, lake *LakeData) error {
	result, err := tx.Exec(`
		INSERT INTO lakes (config_id, name, type, latitude, altitude, zmax, surface, volume)
		VALUES (`+defaultConfigQuery+`, ?, ?, ?, ?, ?, ?, ?)`,
		lake.Name, string(lake.Type), lake.Latitude, lake.Altitude, lake.Zmax, lake.Surface, lake.Volume,
	)
	if err != nil {
		return err
	}
	if lake.Parameters == nil {
		return nil
	}

	lakeID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	return upsertParameters(tx, lakeID, *lake.Parameters)
}

func upsertParameters(tx *sql.Tx, lakeID int64, p types.ParameterSet) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO parameter_sets
			(lake_id, a, b, c, d, e, alpha, beta, at_factor, sw_factor, mat, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		lakeID, p.A, p.B, p.C, p.D, p.E, p.Alpha, p.Beta, p.ATFactor, p.SWFactor, p.MAT,
	)
	return err
}

func (s *SQLiteProvider) getSimulation() (*SimulationData, error) {
	query := `
		SELECT folder, lake, meteo_file, lake_file, par_file, output_file,
		       obs_file, validation_file, start_date, end_date,
		       periodicity, output_periodicity, fill_clear_sky_sr
		FROM simulation_configs
		WHERE config_id = ` + defaultConfigQuery

	var sim SimulationData
	var folder, lake, meteo, lakeFile, par, output, obs, validation, start, end, outputPeriodicity sql.NullString
	var periodicity string

	err := s.db.QueryRow(query).Scan(
		&folder, &lake, &meteo, &lakeFile, &par, &output,
		&obs, &validation, &start, &end,
		&periodicity, &outputPeriodicity, &sim.FillClearSkySR,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &sim, nil
	}
	if err != nil {
		return nil, err
	}

	sim.Folder = folder.String
	sim.Lake = lake.String
	sim.MeteoFile = meteo.String
	sim.LakeFile = lakeFile.String
	sim.ParFile = par.String
	sim.OutputFile = output.String
	sim.ObsFile = obs.String
	sim.ValidationFile = validation.String
	sim.Start = start.String
	sim.End = end.String

	switch types.Periodicity(periodicity) {
	case types.Weekly:
		sim.Weekly = true
	case types.Monthly:
		sim.Monthly = true
	default:
		sim.Daily = true
	}
	switch types.Periodicity(outputPeriodicity.String) {
	case types.Daily:
		sim.DailyOutput = true
	case types.Weekly:
		sim.WeeklyOutput = true
	case types.Monthly:
		sim.MonthlyOutput = true
	}
	return &sim, nil
}

func (s *SQLiteProvider) getStorage() (*StorageData, error) {
	query := `
		SELECT backend_type, timescale_connection_string
		FROM storage_configs
		WHERE config_id = ` + defaultConfigQuery + ` AND enabled = 1`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage configs: %w", err)
	}
	defer rows.Close()

	storage := &StorageData{}
	for rows.Next() {
		var backendType string
		var connectionString sql.NullString
		if err := rows.Scan(&backendType, &connectionString); err != nil {
			return nil, fmt.Errorf("failed to scan storage config row: %w", err)
		}

		switch backendType {
		case "timescaledb":
			if connectionString.Valid {
				storage.TimescaleDB = &TimescaleDBData{ConnectionString: connectionString.String}
			}
		}
	}
	return storage, rows.Err()
}

func (s *SQLiteProvider) getServer() (*ServerData, error) {
	query := `SELECT listen_addr, port, tls_cert, tls_key FROM server_configs WHERE config_id = ` + defaultConfigQuery

	var server ServerData
	var listenAddr, cert, key sql.NullString
	var port sql.NullInt64
	err := s.db.QueryRow(query).Scan(&listenAddr, &port, &cert, &key)
	if errors.Is(err, sql.ErrNoRows) {
		return &server, nil
	}
	if err != nil {
		return nil, err
	}

	server.ListenAddr = listenAddr.String
	server.Port = int(port.Int64)
	server.Cert = cert.String
	server.Key = key.String
	return &server, nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	resolved, err := configData.Simulation.Resolve()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		"DELETE FROM simulation_configs WHERE config_id = " + defaultConfigQuery,
		"DELETE FROM lakes WHERE config_id = " + defaultConfigQuery,
		"DELETE FROM storage_configs WHERE config_id = " + defaultConfigQuery,
		"DELETE FROM server_configs WHERE config_id = " + defaultConfigQuery,
	} {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to clear existing config: %w", err)
		}
	}

	sim := configData.Simulation
	_, err = tx.Exec(`
		INSERT INTO simulation_configs (
			config_id, folder, lake, meteo_file, lake_file, par_file, output_file,
			obs_file, validation_file, start_date, end_date,
			periodicity, output_periodicity, fill_clear_sky_sr
		) VALUES (`+defaultConfigQuery+`, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(sim.Folder), nullString(sim.Lake), nullString(sim.MeteoFile), nullString(sim.LakeFile),
		nullString(sim.ParFile), nullString(sim.OutputFile), nullString(sim.ObsFile),
		nullString(sim.ValidationFile), nullString(sim.Start), nullString(sim.End),
		string(resolved.Periodicity), nullString(string(resolved.OutputPeriodicity)), sim.FillClearSkySR,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation config: %w", err)
	}

	for i := range configData.Lakes {
		lake := configData.Lakes[i]
		if err := lake.Validate(); err != nil {
			return fmt.Errorf("lake %s: %w", lake.Name, err)
		}
		if err := insertLake(tx, &lake); err != nil {
			return fmt.Errorf("failed to insert lake %s: %w", lake.Name, err)
		}
	}

	if ts := configData.Storage.TimescaleDB; ts != nil {
		_, err := tx.Exec(`
			INSERT INTO storage_configs (config_id, backend_type, enabled, timescale_connection_string)
			VALUES (`+defaultConfigQuery+`, 'timescaledb', 1, ?)`, ts.ConnectionString)
		if err != nil {
			return fmt.Errorf("failed to insert storage config: %w", err)
		}
	}

	srv := configData.Server
	_, err = tx.Exec(`
		INSERT INTO server_configs (config_id, listen_addr, port, tls_cert, tls_key)
		VALUES (`+defaultConfigQuery+`, ?, ?, ?, ?)`,
		nullString(srv.ListenAddr), srv.Port, nullString(srv.Cert), nullString(srv.Key),
	)
	if err != nil {
		return fmt.Errorf("failed to insert server config: %w", err)
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nullString stores empty strings as NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

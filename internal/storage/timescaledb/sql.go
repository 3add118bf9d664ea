package timescaledb

const createRunsTableSQL = `
CREATE TABLE IF NOT EXISTS okp_runs (
    id uuid PRIMARY KEY,
    lake text NOT NULL DEFAULT '',
    periodicity text NOT NULL,
    created_at timestamp WITH TIME ZONE NOT NULL,
    a double precision NOT NULL,
    b double precision NOT NULL,
    c double precision NOT NULL,
    d double precision NOT NULL,
    e double precision NOT NULL,
    alpha double precision NOT NULL,
    beta double precision NOT NULL,
    at_factor double precision NOT NULL,
    sw_factor double precision NOT NULL,
    mat double precision NOT NULL
);`

const createSeriesTableSQL = `
CREATE TABLE IF NOT EXISTS okp_series (
    time timestamp WITH TIME ZONE NOT NULL,
    run_id uuid NOT NULL REFERENCES okp_runs (id) ON DELETE CASCADE,
    tepi double precision NULL,
    thyp double precision NULL,
    PRIMARY KEY (run_id, time)
);`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb CASCADE;`

const createHypertableSQL = `SELECT create_hypertable('okp_series', 'time', if_not_exists => TRUE, migrate_data => TRUE);`

const createLakeIndexSQL = `CREATE INDEX IF NOT EXISTS okp_runs_lake_idx ON okp_runs (lake, created_at DESC);`

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS plan_runs (
    run_id          TEXT PRIMARY KEY,
    fingerprint     TEXT NOT NULL,
    household       TEXT NOT NULL DEFAULT '',
    strategy        TEXT NOT NULL DEFAULT '',
    nominal         TEXT NOT NULL DEFAULT '',
    mode            TEXT NOT NULL DEFAULT '',
    income          TEXT NOT NULL DEFAULT '0',
    residual        TEXT NOT NULL DEFAULT '0',
    interest_saved  TEXT NOT NULL DEFAULT '0',
    months_saved    INTEGER NOT NULL DEFAULT 0,
    exit_date       TEXT NOT NULL DEFAULT '',
    report_json     TEXT NOT NULL,
    created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plan_runs_fingerprint ON plan_runs(fingerprint);
CREATE INDEX IF NOT EXISTS idx_plan_runs_created ON plan_runs(created_at);
`

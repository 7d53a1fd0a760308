package history

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per audit run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scanned_at TEXT NOT NULL,
    total_pages INTEGER NOT NULL,
    p0_count INTEGER NOT NULL DEFAULT 0,
    p1_count INTEGER NOT NULL DEFAULT 0,
    p2_count INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Per-page scores for each run, kept small so trends stay queryable
CREATE TABLE IF NOT EXISTS run_pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    url TEXT NOT NULL,
    locale TEXT NOT NULL,
    content_class TEXT NOT NULL,
    overall_score INTEGER NOT NULL,
    priority_score INTEGER NOT NULL,
    priority_tier TEXT NOT NULL,
    word_count INTEGER NOT NULL DEFAULT 0,
    internal_links INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_pages_run ON run_pages(run_id);
CREATE INDEX IF NOT EXISTS idx_run_pages_url ON run_pages(url);
CREATE INDEX IF NOT EXISTS idx_run_pages_tier ON run_pages(priority_tier);
`

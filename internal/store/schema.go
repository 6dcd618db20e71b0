package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    key                  TEXT PRIMARY KEY,
    body                 BLOB NOT NULL,
    updated_at           TEXT NOT NULL
);
`

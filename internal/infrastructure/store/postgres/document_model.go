package postgres

import "time"

const (
	documentsTable  = "documents"
	documentChannel = "documents"
)

type documentTableModel struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

package postgres

import (
	"strings"
	"testing"
	"time"

	qb "github.com/riskibarqy/cup-tracker/internal/platform/querybuilder"
)

func TestUpsertQueryShape(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	query, args, err := qb.InsertModel(qb.Dollar, documentsTable, documentTableModel{
		Key:       "matches",
		Value:     "[]",
		Version:   1,
		UpdatedAt: now,
	}, upsertSuffix)
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}

	wantPrefix := "INSERT INTO documents (key, value, version, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (key)"
	if !strings.HasPrefix(query, wantPrefix) {
		t.Fatalf("unexpected query:\nwant prefix: %s\ngot: %s", wantPrefix, query)
	}
	if !strings.Contains(query, "version = documents.version + 1") || !strings.HasSuffix(query, "RETURNING version") {
		t.Fatalf("upsert must bump and return version: %s", query)
	}
	if len(args) != 4 || args[0] != "matches" || args[3] != now {
		t.Fatalf("unexpected args: %+v", args)
	}
}

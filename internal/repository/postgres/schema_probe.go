package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

// ProbeSessionSchema inspects information_schema once at startup to decide
// which session layouts the deployed database supports. The modern layout
// needs both the session_lookups table and the sessions.csrf_secret column;
// legacy plaintext rows may still exist after migration, so a modern schema
// probes as Both. ModernOnly is reachable only through the config override,
// once legacy rows are known to be gone.
func ProbeSessionSchema(ctx context.Context, db *sqlx.DB) (repository.SchemaCapability, error) {
	var hasLookupTable bool
	err := db.GetContext(ctx, &hasLookupTable, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = 'session_lookups'
		)`)
	if err != nil {
		return repository.LegacyOnly, fmt.Errorf("failed to probe session_lookups table: %w", err)
	}

	var hasCSRFColumn bool
	err = db.GetContext(ctx, &hasCSRFColumn, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema()
			  AND table_name = 'sessions' AND column_name = 'csrf_secret'
		)`)
	if err != nil {
		return repository.LegacyOnly, fmt.Errorf("failed to probe sessions.csrf_secret column: %w", err)
	}

	if hasLookupTable && hasCSRFColumn {
		return repository.Both, nil
	}
	return repository.LegacyOnly, nil
}

// ResolveSessionSchema applies the SESSION_SCHEMA config override on top of
// the probe. Empty override means "trust the probe".
func ResolveSessionSchema(ctx context.Context, db *sqlx.DB, override string) (repository.SchemaCapability, error) {
	switch override {
	case "modern":
		return repository.ModernOnly, nil
	case "legacy":
		return repository.LegacyOnly, nil
	case "both":
		return repository.Both, nil
	case "":
		capability, err := ProbeSessionSchema(ctx, db)
		if err != nil {
			return repository.LegacyOnly, err
		}
		log.Printf("[SESSION] schema capability probed: %s", capability)
		return capability, nil
	default:
		return repository.LegacyOnly, fmt.Errorf("unknown SESSION_SCHEMA value %q", override)
	}
}

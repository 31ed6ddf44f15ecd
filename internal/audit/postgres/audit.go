package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/callcenter-admin/internal/audit"
	auditDatamodel "github.com/frahmantamala/callcenter-admin/internal/core/datamodel/audit"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

const selectEntries = `
SELECT a.id, a.actor_id, a.action, a.target, a.target_user_id, a.metadata, a.timestamp,
       actor.full_name AS actor_name, tgt.full_name AS target_user_name
FROM audit_logs a
LEFT JOIN users actor ON actor.id = a.actor_id
LEFT JOIN users tgt ON tgt.id = a.target_user_id
`

func (r *AuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	row := auditDatamodel.AuditLog{
		ActorID:      entry.ActorID,
		Action:       entry.Action,
		Target:       entry.Target,
		TargetUserID: entry.TargetUserID,
		Timestamp:    entry.Timestamp,
	}

	if entry.Metadata != nil {
		payload, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		row.Metadata = payload
	}

	if err := coredb.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		return err
	}

	entry.ID = row.ID
	entry.Timestamp = row.Timestamp
	return nil
}

// Recent applies the role-scoped visibility filter inside the query, before
// the limit, and orders newest first.
func (r *AuditRepository) Recent(ctx context.Context, vis audit.Visibility, limit int) ([]audit.Entry, error) {
	query := selectEntries
	var args []interface{}

	switch vis.Role {
	case rbac.RoleAdmin:
		// no filter
	case rbac.RoleManager:
		// managers never see admin-authored entries; entries whose actor
		// was deleted drop out with them
		query += `WHERE actor.id IS NOT NULL AND actor.role <> 'admin'` + "\n"
	default:
		query += `WHERE a.actor_id = ?` + "\n"
		args = append(args, vis.UserID)
	}

	query += `ORDER BY a.timestamp DESC, a.id DESC LIMIT ?`
	args = append(args, limit)

	return r.scanEntries(ctx, query, args...)
}

// ForUser matches entries where the user is the actor or the target.
func (r *AuditRepository) ForUser(ctx context.Context, userID int64, skip, limit int) ([]audit.Entry, error) {
	query := selectEntries +
		`WHERE a.actor_id = ? OR a.target_user_id = ?` + "\n" +
		`ORDER BY a.timestamp DESC, a.id DESC LIMIT ? OFFSET ?`
	return r.scanEntries(ctx, query, userID, userID, limit, skip)
}

func (r *AuditRepository) All(ctx context.Context, skip, limit int) ([]audit.Entry, error) {
	query := selectEntries + `ORDER BY a.timestamp DESC, a.id DESC LIMIT ? OFFSET ?`
	return r.scanEntries(ctx, query, limit, skip)
}

func (r *AuditRepository) scanEntries(ctx context.Context, query string, args ...interface{}) ([]audit.Entry, error) {
	rows, err := coredb.GetTxFromContext(ctx, r.db).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var entry audit.Entry
		var metadata []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Target,
			&entry.TargetUserID,
			&metadata,
			&entry.Timestamp,
			&entry.ActorName,
			&entry.TargetUserName,
		); err != nil {
			return nil, err
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal audit metadata for entry %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

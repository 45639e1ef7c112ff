package repomanager

import (
	"context"
	"database/sql"

	"github.com/taskvault/taskvault/internal/dbx"
	"github.com/taskvault/taskvault/internal/server/repositories/refreshsessions"
	"github.com/taskvault/taskvault/internal/server/repositories/tasks"
	"github.com/taskvault/taskvault/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories against one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshSessions(db dbx.DBTX) refreshsessions.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

package db

import (
	"context"
	"fmt"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/rs/zerolog/log"
)

// Migrate wendet das Schema idempotent an. Die Reihenfolge ist relevant
// (Fremdschlüssel, Policies zuletzt).
func Migrate(ctx context.Context, q tx.Querier) error {
	migrations := []string{
		migrationCreateUsers,
		migrationCreateFolders,
		migrationCreateLists,
		migrationCreateTasks,
		migrationCreateAssignees,
		migrationCreateComments,
		migrationCreateSyncQueue,
		migrationRowLevelSecurity,
	}

	for i, m := range migrations {
		if _, err := q.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Int("count", len(migrations)).Msg("Migrationen angewendet")
	return nil
}

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    id                  UUID PRIMARY KEY,
    email               TEXT NOT NULL UNIQUE,
    display_name        TEXT NOT NULL,
    password_hash       TEXT NOT NULL,
    role                TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    zimbra_sync_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    is_active           BOOLEAN NOT NULL DEFAULT TRUE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ
);
`

const migrationCreateFolders = `
CREATE TABLE IF NOT EXISTS folders (
    id         UUID PRIMARY KEY,
    owner_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_folders_owner ON folders(owner_id);
`

const migrationCreateLists = `
CREATE TABLE IF NOT EXISTS lists (
    id         UUID PRIMARY KEY,
    folder_id  UUID NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
    owner_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS list_members (
    list_id  UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    user_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (list_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_lists_folder ON lists(folder_id);
`

const migrationCreateTasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id           UUID PRIMARY KEY,
    list_id      UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    notes        TEXT,
    due_date     TIMESTAMPTZ,
    priority     TEXT NOT NULL DEFAULT 'Medium' CHECK (priority IN ('Low', 'Medium', 'High', 'Urgent')),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_by   UUID NOT NULL REFERENCES users(id),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id);
`

const migrationCreateAssignees = `
CREATE TABLE IF NOT EXISTS task_assignees (
    task_id          UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    user_id          UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    is_completed     BOOLEAN NOT NULL DEFAULT FALSE,
    assigned_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    external_task_id TEXT,
    PRIMARY KEY (task_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_task_assignees_user ON task_assignees(user_id);
`

const migrationCreateComments = `
CREATE TABLE IF NOT EXISTS task_comments (
    id         UUID PRIMARY KEY,
    task_id    UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    body       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_task_comments_task ON task_comments(task_id);
`

// task_id ohne Fremdschlüssel: DELETE-Einträge überleben die Löschung der Aufgabe.
const migrationCreateSyncQueue = `
CREATE TABLE IF NOT EXISTS zimbra_sync_queue (
    id                 UUID PRIMARY KEY,
    task_id            UUID NOT NULL,
    user_email         TEXT NOT NULL,
    action_type        TEXT NOT NULL CHECK (action_type IN ('CREATE', 'UPDATE', 'DELETE')),
    payload            JSONB NOT NULL,
    status             TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'IN_PROGRESS', 'DONE', 'FAILED')),
    attempt            INT NOT NULL DEFAULT 1,
    retry_of           UUID,
    available_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    claimed_at         TIMESTAMPTZ,
    processed_at       TIMESTAMPTZ,
    last_error         TEXT,
    result_external_id TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sync_queue_pending ON zimbra_sync_queue(status, available_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_queue_retry_of ON zimbra_sync_queue(retry_of) WHERE retry_of IS NOT NULL;
`

// Ein leerer oder fehlender Actor bedeutet Bypass (Worker, Admin-Pfade).
const migrationRowLevelSecurity = `
CREATE OR REPLACE FUNCTION neolist_actor() RETURNS TEXT
    LANGUAGE sql STABLE AS $$ SELECT COALESCE(current_setting('neolist.actor_id', true), '') $$;

CREATE OR REPLACE FUNCTION neolist_actor_is_admin() RETURNS BOOLEAN
    LANGUAGE sql STABLE AS $$
        SELECT EXISTS (SELECT 1 FROM users WHERE id::text = neolist_actor() AND role = 'admin')
    $$;

ALTER TABLE folders ENABLE ROW LEVEL SECURITY;
ALTER TABLE folders FORCE ROW LEVEL SECURITY;
DROP POLICY IF EXISTS folders_actor ON folders;
CREATE POLICY folders_actor ON folders
    USING (neolist_actor() = '' OR owner_id::text = neolist_actor() OR neolist_actor_is_admin());

ALTER TABLE lists ENABLE ROW LEVEL SECURITY;
ALTER TABLE lists FORCE ROW LEVEL SECURITY;
DROP POLICY IF EXISTS lists_actor ON lists;
CREATE POLICY lists_actor ON lists
    USING (
        neolist_actor() = ''
        OR owner_id::text = neolist_actor()
        OR EXISTS (SELECT 1 FROM list_members m WHERE m.list_id = lists.id AND m.user_id::text = neolist_actor())
        OR neolist_actor_is_admin()
    );

ALTER TABLE tasks ENABLE ROW LEVEL SECURITY;
ALTER TABLE tasks FORCE ROW LEVEL SECURITY;
DROP POLICY IF EXISTS tasks_actor ON tasks;
CREATE POLICY tasks_actor ON tasks
    USING (neolist_actor() = '' OR EXISTS (SELECT 1 FROM lists l WHERE l.id = tasks.list_id));
`

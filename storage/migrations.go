package storage

var pgMigration = []string{
	`CREATE TABLE job_run (
id uuid PRIMARY KEY,
job VARCHAR(32) NOT NULL,
status_code INTEGER NOT NULL,
started_at TIMESTAMPTZ NOT NULL,
finished_at TIMESTAMPTZ NOT NULL,
summary JSONB NOT NULL DEFAULT '{}'
)`,
	`CREATE INDEX job_run_job_started_at ON job_run (job, started_at)`,
}

package jobstore

import (
	"context"
	"embed"
	"io/fs"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations, rooted at the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Store keeps job definitions and their execution logs.
type Store interface {
	// Add validates and stores job, returning the new id. job.ID is ignored.
	Add(ctx context.Context, job adminbiz.JobInfo) (int, error)

	// Update replaces the definition with id job.ID. A running job whose
	// schedule changed gets a new next fire time.
	Update(ctx context.Context, job adminbiz.JobInfo) error

	// Remove deletes a job and its logs.
	Remove(ctx context.Context, id int) error

	// Start enables scheduling and computes the next fire time.
	Start(ctx context.Context, id int) error

	// Stop disables scheduling.
	Stop(ctx context.Context, id int) error

	// Get returns a job definition.
	Get(ctx context.Context, id int) (adminbiz.JobInfo, error)

	// OpenLog records a triggered execution awaiting its callback.
	OpenLog(ctx context.Context, jobID int) (int64, error)

	// RecordCallback stores the outcome of the execution logged as p.LogID.
	RecordCallback(ctx context.Context, p adminbiz.HandleCallbackParam) error
}

package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/db"
)

var _ Store = (*Postgres)(nil)

const jobColumns = `id, job_group, job_desc, author, alarm_email, schedule_type, schedule_conf,
	misfire_strategy, executor_route_strategy, executor_handler, executor_param,
	executor_block_strategy, executor_timeout, executor_fail_retry_count, glue_type,
	glue_source, glue_remark, child_jobid, trigger_status`

// Postgres stores jobs in the job_info and job_log tables.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres creates a store on pool. Apply Migrations first.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, now: time.Now}
}

func (s *Postgres) Add(ctx context.Context, job adminbiz.JobInfo) (int, error) {
	if err := validate(job); err != nil {
		return 0, err
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO job_info (job_group, job_desc, author, alarm_email, schedule_type, schedule_conf,
			misfire_strategy, executor_route_strategy, executor_handler, executor_param,
			executor_block_strategy, executor_timeout, executor_fail_retry_count, glue_type,
			glue_source, glue_remark, child_jobid, trigger_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 0)
		RETURNING id`,
		job.JobGroup, job.JobDesc, job.Author, job.AlarmEmail, job.ScheduleType, job.ScheduleConf,
		job.MisfireStrategy, job.ExecutorRouteStrategy, job.ExecutorHandler, job.ExecutorParam,
		job.ExecutorBlockStrategy, job.ExecutorTimeout, job.ExecutorFailRetryCount, job.GlueType,
		job.GlueSource, job.GlueRemark, job.ChildJobID,
	).Scan(&id)
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return id, nil
}

func (s *Postgres) Update(ctx context.Context, job adminbiz.JobInfo) error {
	if err := validate(job); err != nil {
		return err
	}

	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := getJob(ctx, tx, job.ID, true)
		if err != nil {
			return err
		}

		status := cur.TriggerStatus
		var next int64 = -1 // keep
		switch {
		case job.ScheduleType == adminbiz.ScheduleTypeNone:
			status, next = adminbiz.TriggerStatusStopped, 0
		case status == adminbiz.TriggerStatusRunning && scheduleChanged(cur, job):
			t, err := NextFireTime(job, s.now())
			if err != nil {
				return err
			}
			next = t.UnixMilli()
		}

		_, err = tx.Exec(ctx, `
			UPDATE job_info SET job_group = $2, job_desc = $3, author = $4, alarm_email = $5,
				schedule_type = $6, schedule_conf = $7, misfire_strategy = $8,
				executor_route_strategy = $9, executor_handler = $10, executor_param = $11,
				executor_block_strategy = $12, executor_timeout = $13, executor_fail_retry_count = $14,
				glue_type = $15, glue_source = $16, glue_remark = $17, child_jobid = $18,
				trigger_status = $19,
				trigger_next_time = CASE WHEN $20::BIGINT < 0 THEN trigger_next_time ELSE $20::BIGINT END,
				update_time = now()
			WHERE id = $1`,
			job.ID, job.JobGroup, job.JobDesc, job.Author, job.AlarmEmail,
			job.ScheduleType, job.ScheduleConf, job.MisfireStrategy,
			job.ExecutorRouteStrategy, job.ExecutorHandler, job.ExecutorParam,
			job.ExecutorBlockStrategy, job.ExecutorTimeout, job.ExecutorFailRetryCount,
			job.GlueType, job.GlueSource, job.GlueRemark, job.ChildJobID,
			status, next,
		)
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		return nil
	})
}

func (s *Postgres) Remove(ctx context.Context, id int) error {
	// job_log rows go with the job via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_info WHERE id = $1`, id)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Start(ctx context.Context, id int) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		job, err := getJob(ctx, tx, id, true)
		if err != nil {
			return err
		}
		next, err := NextFireTime(job, s.now())
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE job_info SET trigger_status = $2, trigger_last_time = 0, trigger_next_time = $3, update_time = now()
			WHERE id = $1`,
			id, adminbiz.TriggerStatusRunning, next.UnixMilli(),
		)
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		return nil
	})
}

func (s *Postgres) Stop(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE job_info SET trigger_status = $2, trigger_last_time = 0, trigger_next_time = 0, update_time = now()
		WHERE id = $1`,
		id, adminbiz.TriggerStatusStopped,
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id int) (adminbiz.JobInfo, error) {
	return getJob(ctx, s.pool, id, false)
}

func (s *Postgres) OpenLog(ctx context.Context, jobID int) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO job_log (job_id) SELECT id FROM job_info WHERE id = $1
		RETURNING id`, jobID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return id, nil
}

func (s *Postgres) RecordCallback(ctx context.Context, p adminbiz.HandleCallbackParam) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var code int
		err := tx.QueryRow(ctx, `SELECT handle_code FROM job_log WHERE id = $1 FOR UPDATE`, p.LogID).Scan(&code)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLogNotFound
		}
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		if code > 0 {
			return ErrDuplicateCallback
		}

		_, err = tx.Exec(ctx, `
			UPDATE job_log SET handle_time = $2, handle_code = $3, handle_msg = $4
			WHERE id = $1`,
			p.LogID, s.now(), p.HandleCode, p.HandleMsg,
		)
		if err != nil {
			return errors.Join(ErrStoreFailed, err)
		}
		return nil
	})
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getJob(ctx context.Context, q querier, id int, forUpdate bool) (adminbiz.JobInfo, error) {
	query := `SELECT ` + jobColumns + ` FROM job_info WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var j adminbiz.JobInfo
	err := q.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.JobGroup, &j.JobDesc, &j.Author, &j.AlarmEmail, &j.ScheduleType, &j.ScheduleConf,
		&j.MisfireStrategy, &j.ExecutorRouteStrategy, &j.ExecutorHandler, &j.ExecutorParam,
		&j.ExecutorBlockStrategy, &j.ExecutorTimeout, &j.ExecutorFailRetryCount, &j.GlueType,
		&j.GlueSource, &j.GlueRemark, &j.ChildJobID, &j.TriggerStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return adminbiz.JobInfo{}, ErrNotFound
	}
	if err != nil {
		return adminbiz.JobInfo{}, errors.Join(ErrStoreFailed, err)
	}
	return j, nil
}

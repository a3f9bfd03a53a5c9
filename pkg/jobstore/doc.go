// Package jobstore persists job definitions and execution logs for the
// admin service.
//
// [Store] backs the addXxlJob, updateXxlJob, removeXxlJob, startXxlJob and
// stopXxlJob operations and receives execution callbacks. [Postgres] keeps
// everything in PostgreSQL (schema in [Migrations]); [Memory] is an
// in-process implementation for tests and single-node setups.
//
// # Schedules
//
// Jobs carry a schedule type and configuration:
//
//	NONE      never triggered by the scheduler; cannot be started
//	CRON      scheduleConf is a six-field cron expression with seconds,
//	          e.g. "0 */5 * * * ?"
//	FIX_RATE  scheduleConf is an interval in seconds, e.g. "30"
//
// Add and Update reject a configuration that does not parse. Start computes
// the next fire time from the schedule.
package jobstore

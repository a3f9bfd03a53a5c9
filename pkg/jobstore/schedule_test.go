package jobstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
)

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     string
		conf    string
		wantErr bool
	}{
		{name: "none ignores conf", typ: adminbiz.ScheduleTypeNone, conf: "whatever"},
		{name: "cron with seconds", typ: adminbiz.ScheduleTypeCron, conf: "0 */5 * * * *"},
		{name: "cron with question mark", typ: adminbiz.ScheduleTypeCron, conf: "0 0 12 * * ?"},
		{name: "cron descriptor", typ: adminbiz.ScheduleTypeCron, conf: "@hourly"},
		{name: "cron five fields", typ: adminbiz.ScheduleTypeCron, conf: "*/5 * * * *", wantErr: true},
		{name: "cron empty", typ: adminbiz.ScheduleTypeCron, conf: "", wantErr: true},
		{name: "cron garbage", typ: adminbiz.ScheduleTypeCron, conf: "every day", wantErr: true},
		{name: "fix rate", typ: adminbiz.ScheduleTypeFixRate, conf: "30"},
		{name: "fix rate zero", typ: adminbiz.ScheduleTypeFixRate, conf: "0", wantErr: true},
		{name: "fix rate text", typ: adminbiz.ScheduleTypeFixRate, conf: "30s", wantErr: true},
		{name: "unknown type", typ: "FIX_DELAY", conf: "30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := jobstore.ValidateSchedule(adminbiz.JobInfo{ScheduleType: tt.typ, ScheduleConf: tt.conf})
			if tt.wantErr {
				require.ErrorIs(t, err, jobstore.ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNextFireTime(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cron", func(t *testing.T) {
		t.Parallel()

		next, err := jobstore.NextFireTime(adminbiz.JobInfo{ScheduleType: "CRON", ScheduleConf: "0 30 * * * ?"}, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), next)
	})

	t.Run("fix rate", func(t *testing.T) {
		t.Parallel()

		next, err := jobstore.NextFireTime(adminbiz.JobInfo{ScheduleType: "FIX_RATE", ScheduleConf: "45"}, from)
		require.NoError(t, err)
		assert.Equal(t, from.Add(45*time.Second), next)
	})

	t.Run("none cannot fire", func(t *testing.T) {
		t.Parallel()

		_, err := jobstore.NextFireTime(adminbiz.JobInfo{ScheduleType: "NONE"}, from)
		require.ErrorIs(t, err, jobstore.ErrNotSchedulable)
	})
}

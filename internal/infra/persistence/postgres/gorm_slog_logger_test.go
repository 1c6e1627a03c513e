package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"thalassist/config"
	deliverycontext "thalassist/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCapturedGormLogger(debug bool) (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)), cfg), &buf
}

func statement() (string, int64) {
	return `SELECT * FROM "accounts" WHERE email = 'a@b.c'`, 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		elapsed time.Duration
		err     error
		want    string
	}{
		{name: "failure", err: errors.New("connection reset"), want: "Account query failed"},
		{name: "record not found is quiet", err: gorm.ErrRecordNotFound, want: ""},
		{name: "slow query", elapsed: slowQueryThreshold + time.Second, want: "Slow account query"},
		{name: "fast query hidden outside debug", want: ""},
		{name: "fast query shown in debug", debug: true, want: "msg=\"Account query\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newCapturedGormLogger(tt.debug)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), statement, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "rows=1")
		})
	}
}

func TestGormSlogLogger_UsesScopedLogger(t *testing.T) {
	l, buf := newCapturedGormLogger(false)
	base := slog.New(slog.NewTextHandler(buf, nil))
	ctx := deliverycontext.WithLogger(context.Background(), base.With(slog.String("request_id", "req-9")))

	l.Trace(ctx, time.Now(), statement, errors.New("deadlock detected"))

	assert.Contains(t, buf.String(), "request_id=req-9")
}

func TestGormSlogLogger_Silent(t *testing.T) {
	l, buf := newCapturedGormLogger(true)

	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	l.LogMode(logger.Silent).Error(context.Background(), "boom %d", 1)

	assert.Empty(t, buf.String())
}

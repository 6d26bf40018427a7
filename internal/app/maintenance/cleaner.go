package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	"github.com/solvento/hrcore/pkg/logger"
)

// Cleaner purges soft-deleted authorization rows once they age past the
// retention window. Live rows and recently retired rows are never touched, so
// an accidental bulk replace stays recoverable until retention expires.
type Cleaner struct {
	db        *gorm.DB
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	log       *zap.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithSchedule overrides the cron expression (default: daily at 03:00).
func WithSchedule(spec string) Option {
	return func(c *Cleaner) { c.schedule = spec }
}

// WithRetention overrides how long retired rows are kept (default: 30 days).
func WithRetention(d time.Duration) Option {
	return func(c *Cleaner) { c.retention = d }
}

func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	c := &Cleaner{
		db:        db,
		schedule:  "0 3 * * *",
		retention: 30 * 24 * time.Hour,
		log:       logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start schedules the purge job.
func (c *Cleaner) Start() error {
	c.cron = cron.New()
	_, err := c.cron.AddFunc(c.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := c.Run(ctx); err != nil {
			c.log.Error("maintenance run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule maintenance job: %w", err)
	}
	c.cron.Start()
	c.log.Info("maintenance scheduled",
		zap.String("schedule", c.schedule),
		zap.Duration("retention", c.retention),
	)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (c *Cleaner) Stop() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
}

// Run purges expired rows from every retired table, collecting all failures
// rather than stopping at the first.
func (c *Cleaner) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-c.retention)

	var errs error
	for name, model := range map[string]any{
		"user_permissions": &models.UserPermission{},
		"user_scopes":      &models.UserScope{},
	} {
		res := c.db.WithContext(ctx).
			Where("is_deleted = ? AND deleted_at < ?", true, cutoff).
			Delete(model)
		if res.Error != nil {
			errs = multierr.Append(errs, fmt.Errorf("purge %s: %w", name, res.Error))
			continue
		}
		if res.RowsAffected > 0 {
			c.log.Info("purged retired rows",
				zap.String("table", name),
				zap.Int64("rows", res.RowsAffected),
			)
		}
	}
	return errs
}

package jobs

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Worker struct {
	ID   string
	Repo *Repo
	DB   *gorm.DB
	Log  zerolog.Logger
}

type profileRow struct {
	UserID       uint64     `gorm:"column:user_id"`
	IsPremium    bool       `gorm:"column:is_premium"`
	PremiumUntil *time.Time `gorm:"column:premium_until"`
}

func (profileRow) TableName() string { return "profiles" }

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				w.Log.Error().Err(err).Msg("worker claim failed")
				continue
			}
			if job == nil {
				continue
			}
			w.handle(job)
		}
	}
}

func (w *Worker) handle(job *Job) {
	switch job.Type {
	case "PREMIUM_EXPIRE":
		w.handlePremiumExpire(job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

// handlePremiumExpire clears the stored premium flag once the expiry has
// genuinely passed. Effective premium is derived from the expiry at read
// time; this job only converges the stored state.
func (w *Worker) handlePremiumExpire(job *Job) {
	var p profileRow
	if err := w.DB.Where("user_id = ?", job.UserID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			_ = w.Repo.MarkDone(job.ID)
			return
		}
		w.retry(job, "db read error")
		return
	}

	if !p.IsPremium || p.PremiumUntil == nil {
		_ = w.Repo.MarkDone(job.ID)
		return
	}
	if p.PremiumUntil.After(time.Now()) {
		// Extended since this job was scheduled. The replacement job
		// carries the new run time.
		_ = w.Repo.MarkDone(job.ID)
		return
	}

	err := w.DB.Exec(`
update profiles set is_premium=false, updated_at=now()
where user_id = ? and premium_until is not null and premium_until <= now()
`, job.UserID).Error
	if err != nil {
		w.retry(job, "db write error")
		return
	}

	w.Log.Info().Uint64("user_id", job.UserID).Msg("premium lapsed")
	_ = w.Repo.MarkDone(job.ID)
}

func (w *Worker) retry(job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		_ = w.Repo.MarkFailed(job.ID, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().Add(time.Duration(sec) * time.Second)

	_ = w.Repo.RetryLater(job.ID, attempts, next, errMsg)
}

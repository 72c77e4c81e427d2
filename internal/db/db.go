package db

import (
	"fmt"

	"memorygym/internal/auth"
	"memorygym/internal/billing"
	"memorygym/internal/feedback"
	"memorygym/internal/jobs"
	"memorygym/internal/study"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	// TranslateError turns driver unique-violations into
	// gorm.ErrDuplicatedKey so handlers can tell conflicts from outages.
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&study.Subject{},
		&study.Card{},
		&billing.Profile{},
		&billing.Payment{},
		&feedback.Feedback{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Helpful indexes. Note: table/column names depend on GORM naming.
	// Default is snake_case plural.
	stmts := []string{
		`create index if not exists idx_cards_user_box on cards(user_id, box_number, id);`,
		`create index if not exists idx_cards_user_due on cards(user_id, next_review);`,
		`create index if not exists idx_cards_user_subject on cards(user_id, subject_id);`,
		`create index if not exists idx_subjects_user_created on subjects(user_id, created_at desc);`,
		`create index if not exists idx_payments_user_created on payments(user_id, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

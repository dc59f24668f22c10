package services

import (
	"testing"

	"parimarket/internal/models"
)

func TestRefreshDerivedROIUndefinedWithoutWagers(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTables(db)

	stats := NewStatsService()
	user := createTestUser(t, db, "alice", 1000)

	if _, err := stats.Get(db, user.ID); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := stats.RefreshDerived(db, user.ID); err != nil {
		t.Fatalf("RefreshDerived failed: %v", err)
	}

	row := loadStats(t, db, user.ID)
	if row.ROI != nil {
		t.Errorf("expected ROI undefined with nothing wagered, got %v", *row.ROI)
	}
}

func TestApplyOutcomeStreaks(t *testing.T) {
	stats := &models.UserStats{}

	applyOutcome(stats, settlementOutcome{Won: true, Amount: 100})
	applyOutcome(stats, settlementOutcome{Won: true, Amount: 250})
	if stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
		t.Errorf("expected streaks 2/2, got %d/%d", stats.CurrentStreak, stats.LongestStreak)
	}
	if stats.BiggestWin != 250 {
		t.Errorf("expected biggest win 250, got %d", stats.BiggestWin)
	}

	// A loss resets the current streak but keeps the longest.
	applyOutcome(stats, settlementOutcome{Won: false})
	if stats.CurrentStreak != 0 || stats.LongestStreak != 2 {
		t.Errorf("expected streaks 0/2 after loss, got %d/%d", stats.CurrentStreak, stats.LongestStreak)
	}

	// A smaller win never shrinks the biggest win.
	applyOutcome(stats, settlementOutcome{Won: true, Amount: 50})
	if stats.BiggestWin != 250 {
		t.Errorf("expected biggest win to stay 250, got %d", stats.BiggestWin)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("expected streak restarted at 1, got %d", stats.CurrentStreak)
	}

	if stats.TotalWon != 400 || stats.Profit != 400 {
		t.Errorf("expected won/profit 400/400, got %d/%d", stats.TotalWon, stats.Profit)
	}
}

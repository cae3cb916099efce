package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/pkanok/matstock/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/matstock?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func testKey(sapid string) domain.ItemKey {
	return domain.NewItemKey(sapid, "Test Widget "+sapid, "PCS", "TEST-L1")
}

func cleanupTags(ctx context.Context, db *sql.DB, sapid string) {
	db.ExecContext(ctx, `DELETE FROM stock_tags WHERE sapid = ?`, sapid)
}

func TestTagReceiveMerge_CreateThenMerge(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-merge-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 100, time.Now()); err != nil {
		t.Fatalf("first ReceiveMerge failed: %v", err)
	}
	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 50, time.Now()); err != nil {
		t.Fatalf("second ReceiveMerge failed: %v", err)
	}

	var count, qty int
	db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(qty), 0) FROM stock_tags WHERE sapid = ?`, key.SAPID).
		Scan(&count, &qty)
	if count != 1 {
		t.Errorf("expected a single merged tag, got %d rows", count)
	}
	if qty != 150 {
		t.Errorf("expected merged qty 150, got %d", qty)
	}
}

func TestTagReceiveMerge_ReactivatesArchived(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-react-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	_, err := db.ExecContext(ctx, `
		INSERT INTO stock_tags (sapid, description, material_group, qty, unit, location, created_at, archived)
		VALUES (?, ?, 'RM', 0, ?, ?, NOW(), 1)`,
		key.SAPID, key.Description, key.Unit, key.Location)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 30, time.Now()); err != nil {
		t.Fatalf("ReceiveMerge failed: %v", err)
	}

	var count, qty, archived int
	db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(qty), 0), MAX(archived) FROM stock_tags WHERE sapid = ?`, key.SAPID).
		Scan(&count, &qty, &archived)
	if count != 1 || qty != 30 || archived != 0 {
		t.Errorf("expected one reactivated tag qty=30, got count=%d qty=%d archived=%d", count, qty, archived)
	}
}

func TestTagSetQuantityWithSplit(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-split-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 150, time.Now()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	var id int64
	db.QueryRowContext(ctx, `SELECT id FROM stock_tags WHERE sapid = ?`, key.SAPID).Scan(&id)

	if err := store.SetQuantityWithSplit(ctx, db, id, 60, key, domain.GroupRawMaterial, time.Now()); err != nil {
		t.Fatalf("SetQuantityWithSplit failed: %v", err)
	}

	var count, total int
	db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(qty), 0) FROM stock_tags WHERE sapid = ? AND archived = 0`, key.SAPID).
		Scan(&count, &total)
	if count != 2 {
		t.Errorf("expected 2 active tags after split, got %d", count)
	}
	if total != 150 {
		t.Errorf("split must conserve quantity: got total %d", total)
	}

	var updated int
	db.QueryRowContext(ctx, `SELECT qty FROM stock_tags WHERE id = ?`, id).Scan(&updated)
	if updated != 60 {
		t.Errorf("expected original tag qty 60, got %d", updated)
	}
}

func TestTagSetQuantityWithSplit_ZeroArchives(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-split-zero-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 40, time.Now()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	var id int64
	db.QueryRowContext(ctx, `SELECT id FROM stock_tags WHERE sapid = ?`, key.SAPID).Scan(&id)

	if err := store.SetQuantityWithSplit(ctx, db, id, 0, key, domain.GroupRawMaterial, time.Now()); err != nil {
		t.Fatalf("SetQuantityWithSplit failed: %v", err)
	}

	var count, qty, archived int
	db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(qty), 0), MAX(archived) FROM stock_tags WHERE sapid = ?`, key.SAPID).
		Scan(&count, &qty, &archived)
	if count != 1 || qty != 0 || archived != 1 {
		t.Errorf("expected one archived zero tag, got count=%d qty=%d archived=%d", count, qty, archived)
	}
}

func TestTagDeductQuantity_RefusesOverdraw(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-deduct-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 30, time.Now()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	var id int64
	db.QueryRowContext(ctx, `SELECT id FROM stock_tags WHERE sapid = ?`, key.SAPID).Scan(&id)

	if err := store.DeductQuantity(ctx, db, id, 20); err != nil {
		t.Fatalf("DeductQuantity failed: %v", err)
	}

	err := store.DeductQuantity(ctx, db, id, 20)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	qty, err := store.CurrentQuantity(ctx, db, id)
	if err != nil {
		t.Fatalf("CurrentQuantity failed: %v", err)
	}
	if qty != 10 {
		t.Errorf("refused deduction must not change qty: got %d", qty)
	}
}

func TestTagArchiveVsHide(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-archive-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	if err := store.ReceiveMerge(ctx, db, key, domain.GroupRawMaterial, 30, time.Now()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	var id int64
	db.QueryRowContext(ctx, `SELECT id FROM stock_tags WHERE sapid = ?`, key.SAPID).Scan(&id)

	if err := store.Hide(ctx, db, id); err != nil {
		t.Fatalf("Hide failed: %v", err)
	}
	var qty, archived int
	db.QueryRowContext(ctx, `SELECT qty, archived FROM stock_tags WHERE id = ?`, id).Scan(&qty, &archived)
	if qty != 30 || archived != 1 {
		t.Errorf("hide must keep qty: got qty=%d archived=%d", qty, archived)
	}

	if err := store.ArchiveAndZero(ctx, db, id); err != nil {
		t.Fatalf("ArchiveAndZero failed: %v", err)
	}
	db.QueryRowContext(ctx, `SELECT qty, archived FROM stock_tags WHERE id = ?`, id).Scan(&qty, &archived)
	if qty != 0 || archived != 1 {
		t.Errorf("archive must zero qty: got qty=%d archived=%d", qty, archived)
	}
}

func TestTagArchiveAndZero_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	store := NewMySQLTagStore()
	if err := store.ArchiveAndZero(context.Background(), db, -1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTagOldestActiveForUpdate_SkipsArchived(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-oldest-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	for i, row := range []struct {
		qty      int
		archived int
	}{
		{0, 1},  // oldest but archived
		{60, 0}, // oldest active
		{90, 0},
	} {
		_, err := db.ExecContext(ctx, `
			INSERT INTO stock_tags (sapid, description, material_group, qty, unit, location, created_at, archived)
			VALUES (?, ?, 'RM', ?, ?, ?, ?, ?)`,
			key.SAPID, key.Description, row.qty, key.Unit, key.Location,
			base.Add(time.Duration(i)*time.Minute), row.archived)
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	tag, err := store.OldestActiveForUpdate(ctx, db, key.SAPID, key.Unit, key.Location)
	if err != nil {
		t.Fatalf("OldestActiveForUpdate failed: %v", err)
	}
	if tag == nil {
		t.Fatal("expected a tag, got nil")
	}
	if tag.Quantity != 60 {
		t.Errorf("expected the oldest active tag (qty 60), got qty=%d", tag.Quantity)
	}
}

func TestTagAggregateActive_SumsPerKey(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	store := NewMySQLTagStore()
	key := testKey("test-agg-001")
	cleanupTags(ctx, db, key.SAPID)
	defer cleanupTags(ctx, db, key.SAPID)

	for _, row := range []struct {
		qty      int
		archived int
	}{
		{60, 0},
		{90, 0},
		{500, 1}, // archived, must not count
	} {
		_, err := db.ExecContext(ctx, `
			INSERT INTO stock_tags (sapid, description, material_group, qty, unit, location, created_at, archived)
			VALUES (?, ?, 'RM', ?, ?, ?, NOW(), ?)`,
			key.SAPID, key.Description, row.qty, key.Unit, key.Location, row.archived)
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	sums, err := store.AggregateActive(ctx, db)
	if err != nil {
		t.Fatalf("AggregateActive failed: %v", err)
	}

	found := false
	for _, s := range sums {
		if s.SAPID == key.SAPID {
			found = true
			if s.Quantity != 150 {
				t.Errorf("expected aggregate 150, got %d", s.Quantity)
			}
		}
	}
	if !found {
		t.Error("aggregate row for test key not found")
	}
}

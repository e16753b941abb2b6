package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

func sampleOrder(id string, at time.Time) OrderRecord {
	return OrderRecord{
		ID:       id,
		Customer: "Sam",
		Items: []OrderLine{
			{ItemID: "g_bread", Name: "Bread", Quantity: 2, UnitPrice: 3},
		},
		Total:     6,
		Currency:  "USD",
		Status:    "placed",
		CreatedAt: at,
	}
}

func TestFileLedgerMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	l := NewFileLedger(t.TempDir())
	_, err := l.LastOrder(context.Background())
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestFileLedgerMalformedFileIsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultOrdersFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l := NewFileLedger(dir)
	_, err := l.LastOrder(context.Background())
	require.ErrorIs(t, err, contractx.ErrNotFound)

	require.NoError(t, l.AppendOrder(context.Background(), sampleOrder("ORD-1", time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var orders []OrderRecord
	require.NoError(t, json.Unmarshal(data, &orders))
	require.Len(t, orders, 1)
}

func TestFileLedgerAppendKeepsHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewFileLedger(dir, WithOrdersFile("orders_acp.json"))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, l.AppendOrder(ctx, sampleOrder("ORD-1", now)))
	require.NoError(t, l.AppendOrder(ctx, sampleOrder("ORD-2", now.Add(time.Second))))

	last, err := l.LastOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-2", last.ID)
	require.Equal(t, 6.0, last.Total)

	data, err := os.ReadFile(filepath.Join(dir, "orders_acp.json"))
	require.NoError(t, err)
	var orders []OrderRecord
	require.NoError(t, json.Unmarshal(data, &orders))
	require.Len(t, orders, 2)
}

func TestFileLedgerTicketsAndLeadsUseOwnFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewFileLedger(dir)
	ctx := context.Background()

	require.NoError(t, l.AppendTicket(ctx, TicketRecord{ID: "TKT-1", DrinkType: "Latte", Extras: []string{}}))
	require.NoError(t, l.AppendLead(ctx, LeadRecord{ID: "LEAD-1", Name: "Asha"}))

	for _, name := range []string{DefaultTicketsFile, DefaultLeadsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, DefaultOrdersFile))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileLedgerWriteFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The ledger directory is a regular file, so no write can succeed.
	l := NewFileLedger(blocker)
	err := l.AppendOrder(context.Background(), sampleOrder("ORD-1", time.Now()))
	require.ErrorIs(t, err, contractx.ErrPersistence)
}

func TestFileLedgerUnreadableFileKeepsHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// A directory in place of the orders file cannot be read as a file.
	path := filepath.Join(dir, DefaultOrdersFile)
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644))

	l := NewFileLedger(dir)
	ctx := context.Background()

	err := l.AppendOrder(ctx, sampleOrder("ORD-1", time.Now()))
	require.ErrorIs(t, err, contractx.ErrPersistence)
	_, err = l.LastOrder(ctx)
	require.ErrorIs(t, err, contractx.ErrPersistence)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join(path, "keep"))
	require.NoError(t, err)
}

func TestFileLedgerCustomFileNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewFileLedger(dir, WithTicketsFile("barista_tickets.json"), WithLeadsFile("sdr_leads.json"), WithOrdersFile(""))
	ctx := context.Background()

	require.NoError(t, l.AppendTicket(ctx, TicketRecord{ID: "TKT-1", DrinkType: "Latte", Extras: []string{}}))
	require.NoError(t, l.AppendLead(ctx, LeadRecord{ID: "LEAD-1", Name: "Asha"}))
	require.NoError(t, l.AppendOrder(ctx, sampleOrder("ORD-1", time.Now())))

	for _, name := range []string{"barista_tickets.json", "sdr_leads.json", DefaultOrdersFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}

func TestNewIDIsPrefixedAndUnique(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a := NewID("ORD", now)
	b := NewID("ORD", now)
	require.True(t, strings.HasPrefix(a, "ORD-"))
	require.Len(t, a, len("ORD-")+26)
	require.NotEqual(t, a, b)
}

func TestSQLLedgerSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_pragma=busy_timeout(5000)"
	l, err := OpenSQL(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	_, err = l.LastOrder(ctx)
	require.ErrorIs(t, err, contractx.ErrNotFound)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, l.AppendOrder(ctx, sampleOrder("ORD-A", base)))
	require.NoError(t, l.AppendOrder(ctx, sampleOrder("ORD-B", base.Add(time.Minute))))

	last, err := l.LastOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-B", last.ID)
	require.Equal(t, "Sam", last.Customer)
	require.Len(t, last.Items, 1)
	require.Equal(t, 2, last.Items[0].Quantity)
	require.InDelta(t, 6.0, last.Total, 1e-9)

	require.NoError(t, l.AppendTicket(ctx, TicketRecord{ID: "TKT-1", DrinkType: "Latte", Extras: []string{"vanilla"}, CreatedAt: base}))
	require.NoError(t, l.AppendLead(ctx, LeadRecord{ID: "LEAD-1", Name: "Asha", Company: "Acme", Email: "a@acme.test", CreatedAt: base}))
}

func TestSQLLedgerLastOrderIsScopedToAssistant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "shared.db") + "?_pragma=busy_timeout(5000)"
	shop, err := OpenSQL(ctx, DriverSQLite, dsn, WithAssistant("shopping"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = shop.Close() })
	grocery, err := OpenSQL(ctx, DriverSQLite, dsn, WithAssistant("grocery"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = grocery.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	hoodie := sampleOrder("ORD-SHOP", base)
	hoodie.Assistant = "shopping"
	bread := sampleOrder("ORD-GROC", base.Add(time.Minute))
	bread.Assistant = "grocery"
	require.NoError(t, shop.AppendOrder(ctx, hoodie))
	require.NoError(t, grocery.AppendOrder(ctx, bread))

	last, err := shop.LastOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-SHOP", last.ID)

	last, err = grocery.LastOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, "ORD-GROC", last.ID)

	barista, err := OpenSQL(ctx, DriverSQLite, dsn, WithAssistant("barista"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = barista.Close() })
	_, err = barista.LastOrder(ctx)
	require.ErrorIs(t, err, contractx.ErrNotFound)
}

func TestOpenSQLRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenSQL(context.Background(), "mysql", "dsn")
	require.Error(t, err)
}

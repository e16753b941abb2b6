package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Desk/agent/tool"
)

const testGroceryCatalog = `[
  {"id": "g_bread", "name": "Whole Wheat Bread", "price": 3.0, "currency": "USD", "category": "bakery"},
  {"id": "g_milk", "name": "Milk", "price": 2.5, "currency": "USD", "category": "dairy"}
]`

func setupDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grocery_catalog.json"), []byte(testGroceryCatalog), 0o600))
	t.Setenv("VOICEDESK_DATA_DIR", dir)
	t.Setenv("VOICEDESK_ASSISTANT", "grocery")
	t.Setenv("VOICEDESK_LEDGER_DRIVER", "file")
	t.Setenv("VOICEDESK_STATE_BACKEND", "memory")
	t.Setenv("VOICEDESK_NOTIFY_DESTINATION", "")
	t.Setenv("VOICEDESK_ORDERS_FILE", "")
	t.Setenv("VOICEDESK_TICKETS_FILE", "")
	t.Setenv("VOICEDESK_LEADS_FILE", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"voice-desk"}, args...))
	return out.String(), err
}

func TestOrdersLastEmpty(t *testing.T) {
	setupDataDir(t)

	out, err := runCLI(t, "orders", "last")
	require.NoError(t, err)
	assert.Equal(t, "No orders found.", strings.TrimSpace(out))
}

func TestCheckoutThenOrdersLast(t *testing.T) {
	dir := setupDataDir(t)
	ctx := context.Background()

	cfg, kind, err := loadAppConfig(nil, "")
	require.NoError(t, err)
	require.Equal(t, contractx.AssistantGrocery, kind)

	app, err := buildApp(ctx, cfg, kind, nil)
	require.NoError(t, err)
	defer app.Close()

	res, err := app.orchestrator.Execute(ctx, "s1", contractx.ToolRequest{
		Tool: toolx.ToolAddToCart,
		Args: map[string]any{"item_name": "bread", "quantity": 2},
	})
	require.NoError(t, err)
	require.False(t, res.Failed(), res.Output)

	res, err = app.orchestrator.Execute(ctx, "s1", contractx.ToolRequest{
		Tool: toolx.ToolCheckout,
		Args: map[string]any{"customer_name": "Sam"},
	})
	require.NoError(t, err)
	require.False(t, res.Failed(), res.Output)
	assert.FileExists(t, filepath.Join(dir, "orders.json"))

	out, err := runCLI(t, "orders", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "2x Whole Wheat Bread")
	assert.Contains(t, out, "Total: 6 USD")
}

func TestAssistantOverrideAndUnknown(t *testing.T) {
	setupDataDir(t)

	_, kind, err := loadAppConfig(nil, "tutor")
	require.NoError(t, err)
	assert.Equal(t, contractx.AssistantTutor, kind)

	_, _, err = loadAppConfig(nil, "pirate")
	require.Error(t, err)
}

func TestBuildStoreAndLedgerRejectUnknown(t *testing.T) {
	setupDataDir(t)

	_, err := buildStore(AppConfig{StateBackend: "etcd"}, contractx.AssistantGrocery, nil)
	require.Error(t, err)

	_, err = buildLedger(context.Background(), AppConfig{LedgerDriver: "mongo", LedgerDSN: "x"}, contractx.AssistantGrocery)
	require.Error(t, err)
}

func TestShoppingUsesOwnOrdersFile(t *testing.T) {
	dir := setupDataDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acp_catalog.json"),
		[]byte(`[{"id":"hoodie-001","name":"Black Hoodie","price":1200,"currency":"INR","category":"hoodie","color":"black"}]`), 0o600))

	ctx := context.Background()
	cfg, kind, err := loadAppConfig(nil, "shopping")
	require.NoError(t, err)
	app, err := buildApp(ctx, cfg, kind, nil)
	require.NoError(t, err)
	defer app.Close()

	res, err := app.orchestrator.Execute(ctx, "s1", contractx.ToolRequest{
		Tool: toolx.ToolCreateOrder,
		Args: map[string]any{"product_id": "hoodie-001"},
	})
	require.NoError(t, err)
	require.False(t, res.Failed(), res.Output)
	assert.FileExists(t, filepath.Join(dir, "orders_acp.json"))
	assert.NoFileExists(t, filepath.Join(dir, "orders.json"))
}

func TestBaristaTicketsFileFromConfig(t *testing.T) {
	dir := setupDataDir(t)
	t.Setenv("VOICEDESK_TICKETS_FILE", "counter_tickets.json")

	ctx := context.Background()
	cfg, kind, err := loadAppConfig(nil, "barista")
	require.NoError(t, err)
	app, err := buildApp(ctx, cfg, kind, nil)
	require.NoError(t, err)
	defer app.Close()

	res, err := app.orchestrator.Execute(ctx, "s1", contractx.ToolRequest{
		Tool: toolx.ToolUpdateOrderDetails,
		Args: map[string]any{"drink_type": "Latte", "size": "Large", "milk": "Oat", "name": "Sam"},
	})
	require.NoError(t, err)
	require.False(t, res.Failed(), res.Output)
	res, err = app.orchestrator.Execute(ctx, "s1", contractx.ToolRequest{Tool: toolx.ToolSubmitOrder})
	require.NoError(t, err)
	require.False(t, res.Failed(), res.Output)

	assert.FileExists(t, filepath.Join(dir, "counter_tickets.json"))
	assert.NoFileExists(t, filepath.Join(dir, "tickets.json"))
}

func TestSQLLedgerLastOrderPerAssistant(t *testing.T) {
	dir := setupDataDir(t)
	ctx := context.Background()
	cfg := AppConfig{
		DataDir:      dir,
		LedgerDriver: "sqlite",
		LedgerDSN:    filepath.Join(dir, "ledger.db") + "?_pragma=busy_timeout(5000)",
	}

	groceryLedger, err := buildLedger(ctx, cfg, contractx.AssistantGrocery)
	require.NoError(t, err)
	defer groceryLedger.Close()
	shopLedger, err := buildLedger(ctx, cfg, contractx.AssistantShopping)
	require.NoError(t, err)
	defer shopLedger.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, shopLedger.AppendOrder(ctx, ledgerx.OrderRecord{ID: "ORD-SHOP", Assistant: "shopping", Currency: "INR", CreatedAt: now}))
	require.NoError(t, groceryLedger.AppendOrder(ctx, ledgerx.OrderRecord{ID: "ORD-GROC", Assistant: "grocery", Currency: "USD", CreatedAt: now.Add(time.Minute)}))

	last, err := shopLedger.LastOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-SHOP", last.ID)
}

func TestBuildStoreRedis(t *testing.T) {
	setupDataDir(t)
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())

	store, err := buildStore(AppConfig{StateBackend: "redis"}, contractx.AssistantBarista, nil)
	require.NoError(t, err)
	app := &deskApp{store: store}
	defer app.Close()

	st := statex.NewSessionState("s1", contractx.AssistantBarista, time.Now())
	require.NoError(t, store.Save(context.Background(), st))
	assert.True(t, mr.Exists("voicedesk:barista:s1"))
}

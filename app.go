package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Voice-Desk/agent/agents/orchestrator"
	catalogx "github.com/tanpawarit/Chative-Voice-Desk/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	ledgerx "github.com/tanpawarit/Chative-Voice-Desk/agent/ledger"
	statex "github.com/tanpawarit/Chative-Voice-Desk/agent/state"
	toolx "github.com/tanpawarit/Chative-Voice-Desk/agent/tool"
	configx "github.com/tanpawarit/Chative-Voice-Desk/pkg/config"
	qstashx "github.com/tanpawarit/Chative-Voice-Desk/pkg/qstash"
)

const (
	stateBackendMemory  = "memory"
	stateBackendUpstash = "upstash"
	stateBackendRedis   = "redis"
)

type AppConfig struct {
	Assistant         string `envconfig:"ASSISTANT" default:"grocery"`
	DataDir           string `envconfig:"DATA_DIR" default:"data"`
	CatalogFile       string `envconfig:"CATALOG_FILE"`
	ContentFile       string `envconfig:"CONTENT_FILE" default:"tutor_content.json"`
	KnowledgeFile     string `envconfig:"KNOWLEDGE_FILE" default:"company_data.json"`
	LedgerDriver      string `envconfig:"LEDGER_DRIVER" default:"file"`
	LedgerDSN         string `envconfig:"LEDGER_DSN"`
	OrdersFile        string `envconfig:"ORDERS_FILE"`
	TicketsFile       string `envconfig:"TICKETS_FILE"`
	LeadsFile         string `envconfig:"LEADS_FILE"`
	StateBackend      string `envconfig:"STATE_BACKEND" default:"memory"`
	NotifyDestination string `envconfig:"NOTIFY_DESTINATION"`
}

// catalogFile is the product list the assistant reads when none is configured.
func (c AppConfig) catalogFile(kind contractx.AssistantKind) string {
	if name := strings.TrimSpace(c.CatalogFile); name != "" {
		return c.dataPath(name)
	}
	switch kind {
	case contractx.AssistantShopping:
		return c.dataPath("acp_catalog.json")
	default:
		return c.dataPath("grocery_catalog.json")
	}
}

func (c AppConfig) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// deskApp holds everything one assistant needs to serve tool calls.
type deskApp struct {
	cfg          AppConfig
	assistant    contractx.AssistantKind
	ledger       ledgerx.Ledger
	store        statex.Store
	orchestrator *orchestratorx.Orchestrator
}

func (a *deskApp) Close() error {
	var errs []error
	if closer, ok := a.store.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
	}
	return errors.Join(errs...)
}

func loadAppConfig(envOpts []configx.Option, assistantOverride string) (AppConfig, contractx.AssistantKind, error) {
	cfg, err := configx.New[AppConfig]("VOICEDESK", envOpts...)
	if err != nil {
		return AppConfig{}, "", fmt.Errorf("load app config: %w", err)
	}
	if v := strings.TrimSpace(assistantOverride); v != "" {
		cfg.Assistant = v
	}
	kind, err := contractx.ParseAssistantKind(strings.TrimSpace(cfg.Assistant))
	if err != nil {
		return AppConfig{}, "", err
	}
	return *cfg, kind, nil
}

func buildApp(ctx context.Context, cfg AppConfig, kind contractx.AssistantKind, envOpts []configx.Option) (*deskApp, error) {
	ledger, err := buildLedger(ctx, cfg, kind)
	if err != nil {
		return nil, err
	}

	app, err := buildWithLedger(cfg, kind, ledger, envOpts)
	if err != nil {
		ledger.Close()
		return nil, err
	}
	return app, nil
}

func buildWithLedger(cfg AppConfig, kind contractx.AssistantKind, ledger ledgerx.Ledger, envOpts []configx.Option) (*deskApp, error) {
	deps, err := buildDeps(cfg, kind)
	if err != nil {
		return nil, err
	}
	deps.Ledger = ledger

	notifier, err := buildNotifier(cfg, envOpts)
	if err != nil {
		return nil, err
	}
	deps.Notifier = notifier

	store, err := buildStore(cfg, kind, envOpts)
	if err != nil {
		return nil, err
	}

	executor, err := toolx.NewExecutor(kind, deps)
	if err != nil {
		return nil, err
	}
	orch, err := orchestratorx.New(store, executor)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("assistant", string(kind)).
		Str("ledger_driver", cfg.LedgerDriver).
		Str("state_backend", cfg.StateBackend).
		Bool("notify", notifier != nil).
		Msg("assistant ready")

	return &deskApp{cfg: cfg, assistant: kind, ledger: ledger, store: store, orchestrator: orch}, nil
}

func buildDeps(cfg AppConfig, kind contractx.AssistantKind) (toolx.Deps, error) {
	deps := toolx.Deps{Recipes: catalogx.DefaultRecipes}

	switch kind {
	case contractx.AssistantShopping, contractx.AssistantGrocery:
		cat, err := catalogx.Load(cfg.catalogFile(kind))
		if err != nil {
			return toolx.Deps{}, err
		}
		if cat.Len() == 0 {
			log.Warn().Str("path", cfg.catalogFile(kind)).Msg("catalog is empty")
		}
		deps.Catalog = cat
	case contractx.AssistantSales:
		kb, err := catalogx.LoadKnowledgeBase(cfg.dataPath(cfg.KnowledgeFile))
		if err != nil {
			return toolx.Deps{}, err
		}
		deps.Knowledge = kb
	case contractx.AssistantTutor:
		course, err := catalogx.LoadCourse(cfg.dataPath(cfg.ContentFile))
		if err != nil {
			return toolx.Deps{}, err
		}
		deps.Course = course
	}

	return deps, nil
}

func buildLedger(ctx context.Context, cfg AppConfig, kind contractx.AssistantKind) (ledgerx.Ledger, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.LedgerDriver))
	switch driver {
	case "", ledgerx.DriverFile:
		ordersFile := strings.TrimSpace(cfg.OrdersFile)
		if ordersFile == "" && kind == contractx.AssistantShopping {
			ordersFile = "orders_acp.json"
		}
		return ledgerx.NewFileLedger(cfg.DataDir,
			ledgerx.WithOrdersFile(ordersFile),
			ledgerx.WithTicketsFile(strings.TrimSpace(cfg.TicketsFile)),
			ledgerx.WithLeadsFile(strings.TrimSpace(cfg.LeadsFile)),
		), nil
	default:
		return ledgerx.OpenSQL(ctx, driver, cfg.LedgerDSN, ledgerx.WithAssistant(string(kind)))
	}
}

func buildStore(cfg AppConfig, kind contractx.AssistantKind, envOpts []configx.Option) (statex.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StateBackend)) {
	case "", stateBackendMemory:
		return statex.NewMemoryStore(), nil
	case stateBackendUpstash:
		redisCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS", envOpts...)
		if err != nil {
			return nil, fmt.Errorf("load upstash config: %w", err)
		}
		return statex.NewUpstashRedisStore(*redisCfg, statex.WithKeyPrefix(sessionKeyPrefix(kind)))
	case stateBackendRedis:
		redisCfg, err := configx.New[statex.RedisConfig]("REDIS", envOpts...)
		if err != nil {
			return nil, fmt.Errorf("load redis config: %w", err)
		}
		return statex.NewRedisStore(*redisCfg, sessionKeyPrefix(kind)), nil
	default:
		return nil, fmt.Errorf("unsupported state backend %q", cfg.StateBackend)
	}
}

func sessionKeyPrefix(kind contractx.AssistantKind) string {
	return "voicedesk:" + string(kind) + ":"
}

// buildNotifier returns nil when no destination is configured.
func buildNotifier(cfg AppConfig, envOpts []configx.Option) (contractx.Notifier, error) {
	destination := strings.TrimSpace(cfg.NotifyDestination)
	if destination == "" {
		return nil, nil
	}
	qCfg, err := configx.New[qstashx.Config]("QSTASH", envOpts...)
	if err != nil {
		return nil, fmt.Errorf("load qstash config: %w", err)
	}
	client, err := qstashx.NewClient(*qCfg)
	if err != nil {
		return nil, err
	}
	return qstashx.NewNotifier(client, destination), nil
}

func lastOrderText(ctx context.Context, ledger ledgerx.Ledger) (string, error) {
	rec, err := ledger.LastOrder(ctx)
	if errors.Is(err, contractx.ErrNotFound) {
		return "No orders found.", nil
	}
	if err != nil {
		return "", err
	}
	return toolx.DescribeOrder(rec), nil
}

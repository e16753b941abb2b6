package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

const (
	DefaultOrdersFile  = "orders.json"
	DefaultTicketsFile = "tickets.json"
	DefaultLeadsFile   = "leads.json"
)

// FileLedger keeps each record kind as a JSON array in its own file. Every
// append reads the whole array, appends and rewrites the file.
//
// The mutex only serialises writers inside this process. Two processes sharing
// the same directory can still lose an update (last writer wins).
type FileLedger struct {
	mu          sync.Mutex
	dir         string
	ordersFile  string
	ticketsFile string
	leadsFile   string
}

type FileOption func(*FileLedger)

func WithOrdersFile(name string) FileOption {
	return func(l *FileLedger) {
		if name != "" {
			l.ordersFile = name
		}
	}
}

func WithTicketsFile(name string) FileOption {
	return func(l *FileLedger) {
		if name != "" {
			l.ticketsFile = name
		}
	}
}

func WithLeadsFile(name string) FileOption {
	return func(l *FileLedger) {
		if name != "" {
			l.leadsFile = name
		}
	}
}

func NewFileLedger(dir string, opts ...FileOption) *FileLedger {
	l := &FileLedger{
		dir:         dir,
		ordersFile:  DefaultOrdersFile,
		ticketsFile: DefaultTicketsFile,
		leadsFile:   DefaultLeadsFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FileLedger) AppendOrder(_ context.Context, rec OrderRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendRecord(l.path(l.ordersFile), rec)
}

func (l *FileLedger) LastOrder(_ context.Context) (OrderRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	orders, err := readRecords[OrderRecord](l.path(l.ordersFile))
	if err != nil {
		return OrderRecord{}, err
	}
	if len(orders) == 0 {
		return OrderRecord{}, fmt.Errorf("%w: no orders yet", contractx.ErrNotFound)
	}
	return orders[len(orders)-1], nil
}

func (l *FileLedger) AppendTicket(_ context.Context, rec TicketRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendRecord(l.path(l.ticketsFile), rec)
}

func (l *FileLedger) AppendLead(_ context.Context, rec LeadRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendRecord(l.path(l.leadsFile), rec)
}

func (l *FileLedger) Close() error { return nil }

func (l *FileLedger) path(name string) string {
	return filepath.Join(l.dir, name)
}

// readRecords treats a missing, empty or malformed file as an empty list. Any
// other read failure is an error so an append never replaces history it could
// not read.
func readRecords[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrPersistence, path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ledger file malformed, treating as empty")
		return nil, nil
	}
	return out, nil
}

func appendRecord[T any](path string, rec T) error {
	records, err := readRecords[T](path)
	if err != nil {
		return err
	}
	records = append(records, rec)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", contractx.ErrPersistence, path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrPersistence, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}

package memory_test

import (
	"testing"

	"github.com/aretw0/airdesk/pkg/adapters/memory"
	"github.com/aretw0/airdesk/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryLedger_Contract(t *testing.T) {
	ledger := memory.NewLedger()
	ports.RunLedgerContract(t, ledger)
}

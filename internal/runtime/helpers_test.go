package runtime_test

import (
	"github.com/aretw0/airdesk/pkg/adapters/memory"
	"github.com/aretw0/airdesk/pkg/booking"
)

func newLedger() *memory.Ledger { return memory.NewLedger() }

func fixedIDs(ids ...string) booking.Generator { return booking.NewSequence(ids...) }

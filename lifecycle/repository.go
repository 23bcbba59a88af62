package lifecycle

import (
	"sync"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/vote"
)

// Repository is the session's view of the ledger's vote records. Every
// refresh rebuilds it wholesale from ledger reads; nothing is merged
// incrementally, so a stale view can only last until the next refresh.
type Repository struct {
	sync.RWMutex
	*common.Logger
	reader  ledger.Reader
	records []vote.Record
}

func NewRepository(reader ledger.Reader) *Repository {
	return &Repository{
		Logger: common.NewLogger(log, "module", "repository"),
		reader: reader,
	}
}

// Refresh enumerates the ledger and fetches every record. A single
// record failing to fetch is skipped and the refresh continues; only a
// failing enumeration fails the refresh itself.
func (rp *Repository) Refresh() ([]vote.Record, error) {
	ids, err := rp.reader.RecordIDs()
	if err != nil {
		return nil, err
	}

	records := make([]vote.Record, 0, len(ids))
	for _, id := range ids {
		r, err := rp.reader.Record(id)
		if err != nil {
			rp.Log().Error("failed to fetch record; skipped", "id", id, "error", err)
			continue
		}

		records = append(records, r)
	}

	rp.Lock()
	rp.records = records
	rp.Unlock()

	rp.Log().Debug("repository refreshed", "records", len(records), "ids", len(ids))

	return rp.Records(), nil
}

func (rp *Repository) Len() int {
	rp.RLock()
	defer rp.RUnlock()

	return len(rp.records)
}

func (rp *Repository) Records() []vote.Record {
	rp.RLock()
	defer rp.RUnlock()

	records := make([]vote.Record, len(rp.records))
	copy(records, rp.records)

	return records
}

func (rp *Repository) Stats(identity vote.Address) vote.Stats {
	return vote.ComputeStats(rp.Records(), identity, common.Now())
}

func (rp *Repository) History(identity vote.Address) []vote.Record {
	return vote.HistoryOf(rp.Records(), identity)
}

func (rp *Repository) Filter(search, category string) []vote.Record {
	return vote.FilterRecords(rp.Records(), search, category)
}

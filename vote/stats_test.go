package vote

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/veilvote/veilvote/common"
)

type testStats struct {
	suite.Suite
	now common.Time
}

func (t *testStats) SetupTest() {
	t.now = common.Now()
}

func (t *testStats) newRecords(n int, creator Address, age time.Duration) []Record {
	var records []Record
	for i := 0; i < n; i++ {
		records = append(records, NewRecord(
			fmt.Sprintf("vote-%d", i),
			fmt.Sprintf("title %d", i),
			"",
			creator,
			t.now.Add(age*-1),
			"",
		))
	}

	return records
}

func (t *testStats) TestTotalMatchesRepository() {
	for _, n := range []int{0, 1, 7} {
		records := t.newRecords(n, Address("0xabc"), time.Hour)
		stats := ComputeStats(records, Address("0xabc"), t.now)

		t.Equal(n, stats.TotalVotes)
		t.True(stats.VerifiedVotes <= stats.TotalVotes)
	}
}

func (t *testStats) TestVerifiedCount() {
	records := t.newRecords(4, Address("0xabc"), time.Hour)
	records[1] = records[1].SetVerified(9)
	records[3] = records[3].SetVerified(2)

	stats := ComputeStats(records, EmptyAddress, t.now)
	t.Equal(2, stats.VerifiedVotes)
	t.True(stats.VerifiedVotes <= stats.TotalVotes)
}

func (t *testStats) TestActiveProposalWindow() {
	fresh := t.newRecords(2, Address("0xabc"), time.Hour*24)
	stale := t.newRecords(3, Address("0xabc"), time.Hour*24*8)

	stats := ComputeStats(append(fresh, stale...), EmptyAddress, t.now)
	t.Equal(5, stats.TotalVotes)
	t.Equal(2, stats.ActiveProposals)
}

func (t *testStats) TestUserVotes() {
	mine := t.newRecords(2, Address("0xABC"), time.Hour)
	others := t.newRecords(3, Address("0xdef"), time.Hour)

	// creator comparison is case-insensitive
	stats := ComputeStats(append(mine, others...), Address("0xabc"), t.now)
	t.Equal(2, stats.UserVotes)

	stats = ComputeStats(append(mine, others...), EmptyAddress, t.now)
	t.Equal(0, stats.UserVotes)
}

func (t *testStats) TestFilterRecords() {
	records := []Record{
		NewRecord("vote-0", "Budget plan", "city budget", "0xabc", t.now, "governance"),
		NewRecord("vote-1", "Park hours", "longer evenings", "0xabc", t.now, "general"),
		NewRecord("vote-2", "New budget rules", "", "0xdef", t.now, "proposal"),
	}

	t.Len(FilterRecords(records, "", "all"), 3)
	t.Len(FilterRecords(records, "budget", ""), 2)
	t.Len(FilterRecords(records, "budget", "governance"), 1)
	t.Len(FilterRecords(records, "nothing-matches", ""), 0)
	t.Len(FilterRecords(records, "", "general"), 1)
}

func (t *testStats) TestHistoryNewestFirst() {
	records := []Record{
		NewRecord("vote-0", "old", "", "0xabc", t.now.Add(time.Hour*-2), ""),
		NewRecord("vote-1", "other", "", "0xdef", t.now, ""),
		NewRecord("vote-2", "new", "", "0xABC", t.now.Add(time.Hour*-1), ""),
	}

	history := HistoryOf(records, Address("0xabc"))
	t.Len(history, 2)
	t.Equal("vote-2", history[0].ID())
	t.Equal("vote-0", history[1].ID())

	t.Nil(HistoryOf(records, EmptyAddress))
}

func TestStats(t *testing.T) {
	suite.Run(t, &testStats{})
}

package vote

import (
	"sort"
	"strings"
	"time"

	"github.com/veilvote/veilvote/common"
)

// ActiveProposalWindow is how long after creation a record counts as an
// active proposal.
const ActiveProposalWindow = time.Hour * 24 * 7

type Stats struct {
	TotalVotes      int `json:"total_votes"`
	VerifiedVotes   int `json:"verified_votes"`
	ActiveProposals int `json:"active_proposals"`
	UserVotes       int `json:"user_votes"`
}

// ComputeStats derives the aggregate counts from scratch on every call;
// stats are never patched incrementally.
func ComputeStats(records []Record, identity Address, now common.Time) Stats {
	var stats Stats
	stats.TotalVotes = len(records)

	for _, r := range records {
		if r.IsVerified() {
			stats.VerifiedVotes++
		}

		if now.Sub(r.CreatedAt()) < ActiveProposalWindow {
			stats.ActiveProposals++
		}

		if !identity.IsEmpty() && r.Creator().Equal(identity) {
			stats.UserVotes++
		}
	}

	return stats
}

// FilterRecords keeps records whose title or description contains the
// search term and whose category matches; empty term and empty or "all"
// category pass everything.
func FilterRecords(records []Record, search, category string) []Record {
	search = strings.ToLower(search)

	var filtered []Record
	for _, r := range records {
		if len(search) > 0 &&
			!strings.Contains(strings.ToLower(r.Title()), search) &&
			!strings.Contains(strings.ToLower(r.Description()), search) {
			continue
		}

		if len(category) > 0 && category != "all" && r.Category() != category {
			continue
		}

		filtered = append(filtered, r)
	}

	return filtered
}

// HistoryOf returns the identity's own records, newest first.
func HistoryOf(records []Record, identity Address) []Record {
	if identity.IsEmpty() {
		return nil
	}

	var history []Record
	for _, r := range records {
		if r.Creator().Equal(identity) {
			history = append(history, r)
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].CreatedAt().After(history[j].CreatedAt())
	})

	return history
}

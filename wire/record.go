package wire

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core"
	"feesim/native/fees"
)

// RoleTuple is one participant appearance: the round, the capacity, the vote
// cast, and the round's final label.
type RoleTuple struct {
	Round int    `json:"round"`
	Role  string `json:"role"`
	Vote  string `json:"vote,omitempty"`
	Label string `json:"label,omitempty"`
}

// ParticipantRecord aggregates one participant's appearances and cumulative
// quantities. Amounts are decimal strings so they survive any JSON reader.
type ParticipantRecord struct {
	Address string      `json:"address"`
	Roles   []RoleTuple `json:"roles"`
	Earned  string      `json:"earned"`
	Cost    string      `json:"cost"`
	Burned  string      `json:"burned"`
	Slashed string      `json:"slashed"`
}

// Record is the compressed persisted form of one processed transaction.
type Record struct {
	RunID        string                       `json:"runId,omitempty"`
	Path         []int                        `json:"path"`
	Labels       []int                        `json:"labels"`
	Participants map[string]ParticipantRecord `json:"participants"`
	Invariants   uint32                       `json:"invariants"`
	Hash         string                       `json:"hash"`
}

// BuildRecord projects a processed transaction into its persisted form.
// Participant ids are assigned 1, 2, … in order of first appearance in the
// event log; the invariant bitfield sets bit k iff invariant k+1 passed.
func BuildRecord(state *core.TransactionState, path []int, bitfield uint32, runID string) Record {
	record := Record{
		RunID:        runID,
		Path:         append([]int(nil), path...),
		Labels:       make([]int, len(state.Labels)),
		Participants: make(map[string]ParticipantRecord),
		Invariants:   bitfield,
	}
	for i, label := range state.Labels {
		record.Labels[i] = LabelIndex(label)
	}

	ids := make(map[common.Address]string)
	order := make([]common.Address, 0)
	for _, event := range state.Events {
		if _, ok := ids[event.Address]; !ok {
			ids[event.Address] = strconv.Itoa(len(order) + 1)
			order = append(order, event.Address)
		}
	}
	ledger := fees.ProjectBalances(state.Events)
	for _, addr := range order {
		sheet := ledger.Sheet(addr)
		participant := ParticipantRecord{
			Address: addr.Hex(),
			Earned:  sheet.Earned.String(),
			Cost:    sheet.Cost.String(),
			Burned:  sheet.Burned.String(),
			Slashed: sheet.Slashed.String(),
		}
		for _, event := range state.Events {
			if event.Address != addr {
				continue
			}
			tuple := RoleTuple{
				Round: event.RoundIndex,
				Role:  string(event.Role),
				Label: string(event.Label),
			}
			if event.Vote != nil {
				tuple.Vote = string(event.Vote.Kind)
			}
			participant.Roles = append(participant.Roles, tuple)
		}
		record.Participants[ids[addr]] = participant
	}

	record.Hash = fmt.Sprintf("%016x", record.ContentHash())
	return record
}

// ContentHash computes the record's 64-bit content hash: the low 64 bits of
// SHA-256 over the canonical serialization with the hash field cleared.
func (r Record) ContentHash() uint64 {
	unsealed := r
	unsealed.Hash = ""
	sum := sha256.Sum256(unsealed.canonical())
	return binary.BigEndian.Uint64(sum[24:])
}

// Verify recomputes the content hash and compares it to the sealed value.
func (r Record) Verify() bool {
	return r.Hash == fmt.Sprintf("%016x", r.ContentHash())
}

// canonical serializes the record deterministically: map keys sorted, struct
// fields in declaration order, no insignificant whitespace. encoding/json
// already sorts map keys and emits struct fields in declaration order, which
// fixes the byte stream.
func (r Record) canonical() []byte {
	keys := make([]string, 0, len(r.Participants))
	for key := range r.Participants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	normalized := Record{
		RunID:        r.RunID,
		Path:         r.Path,
		Labels:       r.Labels,
		Participants: make(map[string]ParticipantRecord, len(keys)),
		Invariants:   r.Invariants,
		Hash:         r.Hash,
	}
	for _, key := range keys {
		normalized.Participants[key] = r.Participants[key]
	}
	blob, err := json.Marshal(normalized)
	if err != nil {
		panic(fmt.Sprintf("wire: record serialization failed: %v", err))
	}
	return blob
}

// Encode writes the record as JSON.
func (r Record) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// DecodeRecord reads a record back and checks its content hash.
func DecodeRecord(rd io.Reader) (Record, error) {
	var record Record
	if err := json.NewDecoder(rd).Decode(&record); err != nil {
		return Record{}, fmt.Errorf("wire: decode record: %w", err)
	}
	if !record.Verify() {
		return Record{}, fmt.Errorf("wire: record hash mismatch")
	}
	return record, nil
}

package snapshot

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ch0002ic/creatorcoin-ai/db"
	"github.com/ch0002ic/creatorcoin-ai/jsonx"
	"github.com/ch0002ic/creatorcoin-ai/logx"
	"github.com/ch0002ic/creatorcoin-ai/staking"
	"github.com/ch0002ic/creatorcoin-ai/store"
	"github.com/ch0002ic/creatorcoin-ai/types"
)

const FileName = "snapshot-latest.json"

type SnapshotMeta struct {
	CreatedAt time.Time `json:"created_at"`
	LatestSeq uint64    `json:"latest_seq"`
	StateHash [32]byte  `json:"state_hash"`
}

type SnapshotFile struct {
	Meta     SnapshotMeta          `json:"meta"`
	Accounts []types.Account       `json:"accounts"`
	Stakes   []staking.StakeRecord `json:"stakes"`
}

// ComputeStateHash hashes every account balance and stake record in a
// deterministic order, so two stores with the same state always produce
// the same hash.
func ComputeStateHash(accounts []*types.Account, stakes []*staking.StakeRecord) [32]byte {
	sorted := make([]*types.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	h := sha256.New()
	for _, acc := range sorted {
		h.Write([]byte(acc.Address))
		currencies := make([]string, 0, len(acc.Balances))
		for code := range acc.Balances {
			currencies = append(currencies, code)
		}
		sort.Strings(currencies)
		for _, code := range currencies {
			balance := acc.Balances[code].Bytes32()
			h.Write([]byte(code))
			h.Write(balance[:])
		}
	}

	sortedStakes := make([]*staking.StakeRecord, len(stakes))
	copy(sortedStakes, stakes)
	sort.Slice(sortedStakes, func(i, j int) bool { return sortedStakes[i].StakeID < sortedStakes[j].StakeID })
	for _, record := range sortedStakes {
		h.Write([]byte(record.StakeID))
		h.Write([]byte(record.Address))
		amount := record.Amount.Bytes32()
		h.Write(amount[:])
		h.Write([]byte(record.Status))
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Export writes the full ledger state to dir as snapshot-latest.json and
// removes any older snapshot files.
func Export(dir string, accounts []*types.Account, stakes []*staking.StakeRecord, latestSeq uint64) (string, error) {
	accountList := make([]types.Account, len(accounts))
	for i, acc := range accounts {
		accountList[i] = *acc
	}
	stakeList := make([]staking.StakeRecord, len(stakes))
	for i, record := range stakes {
		stakeList[i] = *record
	}

	file := SnapshotFile{
		Meta: SnapshotMeta{
			CreatedAt: time.Now().UTC(),
			LatestSeq: latestSeq,
			StateHash: ComputeStateHash(accounts, stakes),
		},
		Accounts: accountList,
		Stakes:   stakeList,
	}

	data, err := jsonx.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir snapshot dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}

	if err := cleanupOldSnapshots(dir, path); err != nil {
		logx.Error("SNAPSHOT", "Failed to cleanup old snapshots:", err.Error())
	}

	return path, nil
}

// Read loads a snapshot file from disk and verifies its state hash
func Read(path string) (*SnapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s SnapshotFile
	if err := jsonx.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	accounts := make([]*types.Account, len(s.Accounts))
	for i := range s.Accounts {
		accounts[i] = &s.Accounts[i]
	}
	stakes := make([]*staking.StakeRecord, len(s.Stakes))
	for i := range s.Stakes {
		stakes[i] = &s.Stakes[i]
	}
	if got := ComputeStateHash(accounts, stakes); got != s.Meta.StateHash {
		return nil, fmt.Errorf("snapshot state hash mismatch: file is corrupt or was edited")
	}
	return &s, nil
}

// Restore writes a verified snapshot's state into fresh stores
func Restore(s *SnapshotFile, provider db.DatabaseProvider, accountStore store.AccountStore, stakeStore staking.StakeStore) error {
	accounts := make([]*types.Account, len(s.Accounts))
	for i := range s.Accounts {
		accounts[i] = &s.Accounts[i]
	}
	if err := accountStore.StoreBatch(accounts); err != nil {
		return fmt.Errorf("restore accounts: %w", err)
	}
	for i := range s.Stakes {
		if err := stakeStore.Store(&s.Stakes[i]); err != nil {
			return fmt.Errorf("restore stake %s: %w", s.Stakes[i].StakeID, err)
		}
	}
	// Seed the log sequence floor so appends on the restored node continue
	// numbering after the checkpoint instead of restarting at 1.
	if s.Meta.LatestSeq > 0 {
		seq := strconv.FormatUint(s.Meta.LatestSeq, 10)
		if err := provider.Put([]byte(store.TxLogMetaKeyLatestSeq), []byte(seq)); err != nil {
			return fmt.Errorf("seed log sequence: %w", err)
		}
	}
	logx.Info("SNAPSHOT", fmt.Sprintf("Restored %d accounts and %d stakes at seq %d", len(s.Accounts), len(s.Stakes), s.Meta.LatestSeq))
	return nil
}

func cleanupOldSnapshots(dir, latestPath string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read snapshot dir: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		filePath := filepath.Join(dir, file.Name())
		if filePath != latestPath {
			if err := os.Remove(filePath); err != nil {
				logx.Error("SNAPSHOT", "Failed to remove old snapshot:", filePath, err.Error())
			}
		}
	}

	return nil
}

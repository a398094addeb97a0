package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/misterclayt0n/ferro/internal/models"
)

func getSnapshotPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "ferro")
	os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "last_replay.toml"), nil
}

// SaveSnapshot persists the latest replay baseline. The next invocation diffs
// its replay against this to flag rows that moved because of an edit.
func SaveSnapshot(snap *models.Snapshot) error {
	path, err := getSnapshotPath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(snap)
}

func LoadSnapshot() (*models.Snapshot, error) {
	path, err := getSnapshotPath()
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	_, err = toml.DecodeFile(path, &snap)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

func ClearSnapshot() error {
	path, err := getSnapshotPath()
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func SnapshotExists() bool {
	path, err := getSnapshotPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return !os.IsNotExist(err)
}

package models

import (
	"bytes"
	"encoding/json"
)

// StorageSnapshot is the serialized storage state of a browser context
// (cookies and per-origin local storage) exactly as playwright produces
// it. It is treated as an opaque blob: the launcher never inspects or
// rewrites its fields, it only checks that the document is well formed
// before handing the file path back to playwright.
type StorageSnapshot []byte

// SnapshotFrom serializes the storage state object returned by the
// automation library into an opaque snapshot.
func SnapshotFrom(state any) (StorageSnapshot, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return StorageSnapshot(data), nil
}

// Valid reports whether the snapshot is a syntactically well formed
// JSON document.
func (s StorageSnapshot) Valid() bool {
	return len(s) > 0 && json.Valid(s)
}

// Empty reports whether there is no snapshot data at all.
func (s StorageSnapshot) Empty() bool {
	return len(s) == 0
}

// Equal compares two snapshots byte for byte.
func (s StorageSnapshot) Equal(other StorageSnapshot) bool {
	return bytes.Equal(s, other)
}

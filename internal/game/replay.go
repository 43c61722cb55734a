package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNothingToUndo is returned by Undo when only the starting state is recorded.
var ErrNothingToUndo = errors.New("nothing to undo")

// ReplayEntry is one accepted transition: the action and the state it produced.
type ReplayEntry struct {
	Action ActionKind
	At     time.Time
	State  State
}

// Replay is the ordered history of one game, with a playback cursor.
type Replay struct {
	GameID       string
	Entries      []ReplayEntry
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID:  gameID,
		Entries: make([]ReplayEntry, 0),
	}
}

// Record appends the state produced by action.
func (r *Replay) Record(action ActionKind, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Entries = append(r.Entries, ReplayEntry{Action: action, At: time.Now(), State: s.Clone()})
}

// Undo drops the latest entry and returns the state before it.
func (r *Replay) Undo() (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Entries) < 2 {
		return State{}, ErrNothingToUndo
	}
	r.Entries = r.Entries[:len(r.Entries)-1]
	if r.CurrentIndex > len(r.Entries) {
		r.CurrentIndex = len(r.Entries)
	}
	return r.Entries[len(r.Entries)-1].State.Clone(), nil
}

// Latest returns the most recent entry.
func (r *Replay) Latest() (ReplayEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.Entries) == 0 {
		return ReplayEntry{}, false
	}
	return r.Entries[len(r.Entries)-1], true
}

// Start rewinds the playback cursor.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the entry under the cursor and advances it.
func (r *Replay) Next() (ReplayEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex >= len(r.Entries) {
		return ReplayEntry{}, false
	}
	entry := r.Entries[r.CurrentIndex]
	r.CurrentIndex++
	return entry, true
}

// Previous steps the cursor back and returns that entry.
func (r *Replay) Previous() (ReplayEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex == 0 {
		return ReplayEntry{}, false
	}
	r.CurrentIndex--
	return r.Entries[r.CurrentIndex], true
}

// Skip moves the cursor by count, clamped to the recording.
func (r *Replay) Skip(count int) (ReplayEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Entries) == 0 {
		return ReplayEntry{}, false
	}
	r.CurrentIndex = min(max(r.CurrentIndex+count, 0), len(r.Entries)-1)
	return r.Entries[r.CurrentIndex], true
}

// Size returns the number of recorded entries.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Entries)
}

// EntryAt returns the entry at index.
func (r *Replay) EntryAt(index int) (ReplayEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.Entries) {
		return ReplayEntry{}, false
	}
	return r.Entries[index], true
}

// ReplayPath is where SaveToFile writes the replay for gameID.
func ReplayPath(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// replayMetadata heads a replay file.
type replayMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	EntryCount int
}

// SaveToFile writes the replay as gzip-compressed gob: metadata followed by every entry.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(ReplayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)
	meta := replayMetadata{
		GameID:     r.GameID,
		Timestamp:  time.Now(),
		Version:    SnapshotVersion,
		EntryCount: len(r.Entries),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Entries {
		if err := enc.Encode(&r.Entries[i]); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(path string) (*Replay, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: replay version %d", ErrUnsupportedVersion, meta.Version)
	}

	replay := NewReplay(meta.GameID)
	for i := 0; i < meta.EntryCount; i++ {
		var entry ReplayEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		entry.State = normalize(entry.State)
		replay.Entries = append(replay.Entries, entry)
	}
	return replay, nil
}

// ReplayRecorder keeps the replay of the running game and writes finished games to disk.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.Mutex
	current *Replay
	saveDir string // empty disables saving
}

// NewReplayRecorder creates a recorder. saveDir may be empty to keep replays in memory only.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{logger: logger, saveDir: saveDir}
}

// Begin starts a new recording seeded with the starting state, finishing any previous one.
func (rr *ReplayRecorder) Begin(gameID string, initial State) {
	rr.Finish()

	replay := NewReplay(gameID)
	replay.Record("", initial)

	rr.mu.Lock()
	rr.current = replay
	rr.mu.Unlock()

	rr.logger.Info("started replay recording", zap.String("game_id", gameID))
}

// Record appends a transition to the running recording, if any.
func (rr *ReplayRecorder) Record(action ActionKind, s State) {
	rr.mu.Lock()
	replay := rr.current
	rr.mu.Unlock()
	if replay == nil {
		return
	}
	replay.Record(action, s)
	rr.logger.Debug("recorded replay entry",
		zap.String("game_id", replay.GameID),
		zap.String("action", string(action)),
		zap.Int("entry_count", replay.Size()),
	)
}

// Undo rolls the running recording back one transition.
func (rr *ReplayRecorder) Undo() (State, error) {
	rr.mu.Lock()
	replay := rr.current
	rr.mu.Unlock()
	if replay == nil {
		return State{}, ErrNothingToUndo
	}
	return replay.Undo()
}

// Current returns the running recording.
func (rr *ReplayRecorder) Current() (*Replay, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.current, rr.current != nil
}

// Finish stops the running recording and saves it when a directory is configured.
func (rr *ReplayRecorder) Finish() {
	rr.mu.Lock()
	replay := rr.current
	rr.current = nil
	rr.mu.Unlock()

	if replay == nil || rr.saveDir == "" {
		return
	}
	if err := replay.SaveToFile(rr.saveDir); err != nil {
		rr.logger.Warn("failed to save replay",
			zap.String("game_id", replay.GameID),
			zap.Error(err),
		)
		return
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", replay.GameID),
		zap.Int("entry_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
}

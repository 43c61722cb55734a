package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// SnapshotKey is the store key the current game is saved under.
	SnapshotKey = "truthOrTrapState"
	// SnapshotVersion is the envelope version written by EncodeSnapshot.
	SnapshotVersion = 1
)

var (
	// ErrChecksumMismatch is returned when a snapshot body does not match its checksum.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
	// ErrUnsupportedVersion is returned for snapshots written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// SerializationChecksum is a SHA-256 digest of a state's canonical JSON form.
type SerializationChecksum struct {
	Hash      string // hex SHA-256 of the canonical encoding
	Timestamp string // when the checksum was computed
	Version   int    // serialization version
}

// ComputeChecksum hashes the canonical encoding of s. encoding/json writes struct fields
// in declaration order and map keys sorted, so equal states hash equally.
func ComputeChecksum(s State, at time.Time) (*SerializationChecksum, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return &SerializationChecksum{
		Hash:      hashBytes(body),
		Timestamp: at.UTC().Format("2006-01-02T15:04:05.000Z"),
		Version:   SnapshotVersion,
	}, nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// snapshotEnvelope is the persisted form of a state.
type snapshotEnvelope struct {
	Version  int             `json:"version"`
	SavedAt  string          `json:"savedAt"`
	Checksum string          `json:"checksum"`
	State    json.RawMessage `json:"state"`
}

// EncodeSnapshot serializes s into a versioned, checksummed envelope.
func EncodeSnapshot(s State, at time.Time) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	data, err := json.Marshal(snapshotEnvelope{
		Version:  SnapshotVersion,
		SavedAt:  at.UTC().Format(time.RFC3339Nano),
		Checksum: hashBytes(body),
		State:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses an envelope written by EncodeSnapshot and verifies its checksum.
// The state is returned exactly as saved.
func DecodeSnapshot(data []byte) (State, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if env.Version != SnapshotVersion {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if len(env.State) == 0 {
		return State{}, fmt.Errorf("failed to decode snapshot: empty state")
	}
	if got := hashBytes(env.State); got != env.Checksum {
		return State{}, fmt.Errorf("%w: stored=%s computed=%s", ErrChecksumMismatch, env.Checksum, got)
	}

	var s State
	if err := json.Unmarshal(env.State, &s); err != nil {
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return normalize(s), nil
}

// RestoreSnapshot loads a saved game for a fresh start. Any failure yields the initial
// state along with the error for logging. A game saved mid-play resumes on the setup screen.
func RestoreSnapshot(data []byte) (State, error) {
	s, err := DecodeSnapshot(data)
	if err != nil {
		return Initial(), err
	}
	if s.Screen == ScreenGame {
		s.Screen = ScreenSetup
	}
	return s, nil
}

// normalize fills values an older or hand-edited snapshot may lack. States produced by
// the reducer pass through unchanged.
func normalize(s State) State {
	if s.Players == nil {
		s.Players = []Player{}
	}
	for i := range s.Players {
		if s.Players[i].Cards == nil {
			s.Players[i].Cards = []Card{}
		}
	}
	if !s.Language.Valid() {
		s.Language = LanguageCN
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = DifficultyNormal
	}
	if s.Screen != ScreenGame {
		s.Screen = ScreenSetup
	}
	if s.Turn == "" {
		s.Turn = TurnSetup
	}
	if s.Challenge.Phase == "" {
		s.Challenge.Phase = ChallengeIdle
	}
	if s.Challenge.ExecutionMode == "" {
		s.Challenge.ExecutionMode = ExecutionSolo
	}
	if s.Dialog == "" {
		s.Dialog = DialogNone
	}
	if s.DialogReturn == "" {
		s.DialogReturn = DialogNone
	}
	return s
}

// GobEncode encodes through JSON. gob flattens pointers and skips zero values, which
// would turn seat index 0 into "no seat".
func (s State) GobEncode() ([]byte, error) {
	return json.Marshal(s)
}

// GobDecode is the inverse of GobEncode.
func (s *State) GobDecode(data []byte) error {
	return json.Unmarshal(data, s)
}

// SerializeToBytes encodes s with gob. Replay files use this form.
func SerializeToBytes(s State) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeFromBytes decodes a gob-encoded state.
func DeserializeFromBytes(data []byte) (State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return normalize(s), nil
}

// ValidateSerializationRoundtrip checks that s survives both the snapshot envelope and
// the gob encoding without changing its checksum.
func ValidateSerializationRoundtrip(s State) error {
	now := time.Now()
	original, err := ComputeChecksum(s, now)
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}

	data, err := EncodeSnapshot(s, now)
	if err != nil {
		return err
	}
	fromSnapshot, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	raw, err := SerializeToBytes(fromSnapshot)
	if err != nil {
		return err
	}
	fromGob, err := DeserializeFromBytes(raw)
	if err != nil {
		return err
	}

	final, err := ComputeChecksum(fromGob, now)
	if err != nil {
		return fmt.Errorf("failed to compute roundtrip checksum: %w", err)
	}
	if original.Hash != final.Hash {
		return fmt.Errorf("%w: original=%s roundtrip=%s", ErrChecksumMismatch, original.Hash, final.Hash)
	}
	return nil
}

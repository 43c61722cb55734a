package challenge

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

//go:embed data/challenges.json
var embedded embed.FS

// Entry is one stored challenge. Type, difficulty and language are matched case-insensitively.
type Entry struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Content    string `json:"content"`
}

func (e Entry) matches(req Request) bool {
	return strings.EqualFold(e.Type, string(req.Type)) &&
		strings.EqualFold(e.Difficulty, string(req.Difficulty)) &&
		strings.EqualFold(e.Language, string(req.Language))
}

// Corpus is an immutable list of challenges.
type Corpus struct {
	entries []Entry
}

// NewCorpus builds a corpus, dropping entries without content.
func NewCorpus(entries []Entry) *Corpus {
	c := &Corpus{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if strings.TrimSpace(e.Content) == "" {
			continue
		}
		c.entries = append(c.entries, e)
	}
	return c
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Entries returns a copy of every entry.
func (c *Corpus) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Filter returns the entries for a type, difficulty and language, in corpus order.
func (c *Corpus) Filter(req Request) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.matches(req) {
			out = append(out, e)
		}
	}
	return out
}

// ReadCorpus decodes a JSON array of entries.
func ReadCorpus(r io.Reader) (*Corpus, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode challenge corpus: %w", err)
	}
	return NewCorpus(entries), nil
}

// EmbeddedCorpus returns the corpus compiled into the binary.
func EmbeddedCorpus() (*Corpus, error) {
	f, err := embedded.Open("data/challenges.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded corpus: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}

// LoadCorpusFile reads a corpus from a JSON file.
func LoadCorpusFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}

// Querier is the part of pgxpool.Pool the corpus loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const selectChallenges = `SELECT id, challenge_type, difficulty, language, content FROM challenges ORDER BY id`

// LoadCorpusDB reads the challenges table written by scripts/import_challenges.go.
func LoadCorpusDB(ctx context.Context, q Querier) (*Corpus, error) {
	rows, err := q.Query(ctx, selectChallenges)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Type, &e.Difficulty, &e.Language, &e.Content)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read challenges: %w", err)
	}
	return NewCorpus(entries), nil
}

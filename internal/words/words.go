// internal/words/words.go
//
// Word bank for the arena.
//
// Responsibilities:
//   - Load the secret-word list from a file (WORDS_FILE) or fall back to the
//     embedded default bank in assets/words.txt.
//   - Keep a set for quick membership lookups.
//   - Supply ChooseSecret (uniform random), IsValid and Len.
//
// Constraints:
//   • Words must be 5 alphabetic letters; lists are normalized to uppercase.
//   • The process-wide default bank is loaded once (sync.Once).
//   • The arbiter never enforces IsValid on agent guesses; it is offered to
//     integrators who want a legality policy.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/wordle-arena/assets"
	"github.com/robalobadob/wordle-arena/internal/game"
)

// fallbackSecret is returned by ChooseSecret on an empty bank.
const fallbackSecret game.Word = "CRANE"

// Bank is an immutable set of valid uppercase 5-letter words.
type Bank struct {
	list []game.Word
	set  map[game.Word]struct{}
}

// New builds a bank from raw entries, keeping only valid, unique words.
func New(entries []string) *Bank {
	b := &Bank{set: make(map[game.Word]struct{}, len(entries))}
	for _, e := range entries {
		w, ok := game.ParseWord(e)
		if !ok {
			continue
		}
		if _, dup := b.set[w]; dup {
			continue
		}
		b.set[w] = struct{}{}
		b.list = append(b.list, w)
	}
	return b
}

// Load reads one word per line from path. Blank lines and #-comments are skipped.
func Load(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(out), nil
}

// ChooseSecret returns a uniformly random word from the bank.
// An empty bank yields "CRANE".
func (b *Bank) ChooseSecret() game.Word {
	if len(b.list) == 0 {
		return fallbackSecret
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(b.list))))
	if err != nil {
		return b.list[0]
	}
	return b.list[n.Int64()]
}

// IsValid reports whether w (any case) is in the bank.
func (b *Bank) IsValid(w string) bool {
	_, ok := b.set[game.Word(strings.ToUpper(strings.TrimSpace(w)))]
	return ok
}

// Len returns the number of words in the bank.
func (b *Bank) Len() int { return len(b.list) }

var (
	initOnce   sync.Once
	defaultBnk *Bank
	initialErr error
)

// Init loads the process-wide bank exactly once.
// If path is non-empty the file is used, otherwise the embedded list.
// Returns an error if the bank ends up empty.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			defaultBnk, initialErr = Load(path)
		} else {
			var list []string
			list, initialErr = assets.WordList()
			defaultBnk = New(list)
		}
		if initialErr == nil && defaultBnk.Len() == 0 {
			initialErr = errors.New("words: bank is empty")
		}
	})
	return initialErr
}

// Default returns the process-wide bank, loading the embedded list if
// Init has not been called.
func Default() *Bank {
	_ = Init("")
	if defaultBnk == nil {
		return New(nil)
	}
	return defaultBnk
}

// Command replay inspects recorded agent sessions: it streams a
// session's JSONL log, tallies traffic and action outcomes, and can
// cross-check the tallies against the SQLite session index.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelagent.ai/internal/record"
)

func main() {
	var (
		dir     = flag.String("dir", "data/sessions", "session directory")
		session = flag.String("session", "", "session id (default: every session in -dir)")
		verbose = flag.Bool("v", false, "print every entry")
		index   = flag.Bool("index", false, "compare outcome tallies against sessions.db")
	)
	flag.Parse()

	files, err := sessionFiles(*dir, *session)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list sessions:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no session files under", *dir)
		os.Exit(1)
	}

	var idx *record.SQLiteIndex
	if *index {
		idx, err = record.OpenSQLite(filepath.Join(*dir, "sessions.db"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "open index:", err)
			os.Exit(1)
		}
		defer idx.Close()
	}

	for _, path := range files {
		if err := inspect(path, *verbose, idx); err != nil {
			fmt.Fprintln(os.Stderr, "inspect:", err)
			os.Exit(1)
		}
	}
}

func sessionFiles(dir, session string) ([]string, error) {
	if session != "" {
		return []string{filepath.Join(dir, "session-"+session+".jsonl.zst")}, nil
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "session-") && strings.HasSuffix(name, ".jsonl.zst") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

func inspect(path string, verbose bool, idx *record.SQLiteIndex) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	var (
		events, commands uint64
		firstTick        uint64
		lastTick         uint64
		sawEntry         bool
		outcomes         = map[string]int{}
	)

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e record.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if !sawEntry {
			firstTick = e.Tick
			sawEntry = true
		}
		if e.Tick > lastTick {
			lastTick = e.Tick
		}
		switch e.Dir {
		case "in":
			events++
		case "out":
			commands++
		case "res":
			outcomes[e.Outcome]++
		}
		if verbose {
			fmt.Printf("  tick=%d %s %s %s%s\n", e.Tick, e.Dir, e.Type, e.Kind, outcomeSuffix(e))
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	sessionID := sessionIDFromPath(path)
	fmt.Printf("%s: ticks %d..%d events=%d commands=%d resolutions=%s\n",
		sessionID, firstTick, lastTick, events, commands, formatOutcomes(outcomes))

	if idx != nil {
		indexed, err := idx.OutcomeCounts(sessionID)
		if err != nil {
			return err
		}
		for outcome, n := range outcomes {
			if indexed[outcome] != n {
				fmt.Printf("  index mismatch for %s: log=%d index=%d\n", outcome, n, indexed[outcome])
			}
		}
	}
	return nil
}

func sessionIDFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, "session-")
	return strings.TrimSuffix(name, ".jsonl.zst")
}

func outcomeSuffix(e record.Entry) string {
	if e.Outcome == "" {
		return ""
	}
	return " -> " + e.Outcome
}

func formatOutcomes(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

package record

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteIndex is the queryable side of session recording. All writes go
// through a single writer goroutine over a buffered channel; enqueue
// never blocks the caller and drops when the indexer falls behind, the
// JSONL stream stays complete.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan idxReq
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type idxKind int

const (
	idxSession idxKind = iota + 1
	idxSessionEnd
	idxResolution
)

type idxReq struct {
	kind idxKind

	sessionID string
	agentName string
	at        time.Time

	tick     uint64
	actionID string
	action   string
	outcome  string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan idxReq, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL durability is enough
	// for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			agent_name TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS resolutions (
			session_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			action_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			outcome TEXT NOT NULL,
			PRIMARY KEY (session_id, action_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_outcome ON resolutions(session_id, outcome);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) RecordSession(sessionID, agentName string, at time.Time) {
	s.enqueue(idxReq{kind: idxSession, sessionID: sessionID, agentName: agentName, at: at})
}

func (s *SQLiteIndex) RecordSessionEnd(sessionID string, at time.Time) {
	s.enqueue(idxReq{kind: idxSessionEnd, sessionID: sessionID, at: at})
}

func (s *SQLiteIndex) RecordResolution(sessionID string, tick uint64, actionID, kind, outcome string) {
	s.enqueue(idxReq{kind: idxResolution, sessionID: sessionID, tick: tick, actionID: actionID, action: kind, outcome: outcome})
}

func (s *SQLiteIndex) enqueue(r idxReq) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

// OutcomeCounts reports resolution outcome totals for one session.
func (s *SQLiteIndex) OutcomeCounts(sessionID string) (map[string]int, error) {
	if s == nil {
		return nil, fmt.Errorf("index not open")
	}
	rows, err := s.db.Query(`SELECT outcome, COUNT(*) FROM resolutions WHERE session_id = ? GROUP BY outcome`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[outcome] = n
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	insertSession, _ := s.db.Prepare(`INSERT OR REPLACE INTO sessions(id,agent_name,started_at) VALUES(?,?,?)`)
	endSession, _ := s.db.Prepare(`UPDATE sessions SET ended_at = ? WHERE id = ?`)
	insertResolution, _ := s.db.Prepare(`INSERT OR REPLACE INTO resolutions(session_id,tick,action_id,kind,outcome) VALUES(?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertSession, endSession, insertResolution} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	for r := range s.ch {
		switch r.kind {
		case idxSession:
			if insertSession != nil {
				_, _ = insertSession.Exec(r.sessionID, r.agentName, r.at.Format(time.RFC3339))
			}
		case idxSessionEnd:
			if endSession != nil {
				_, _ = endSession.Exec(r.at.Format(time.RFC3339), r.sessionID)
			}
		case idxResolution:
			if insertResolution != nil {
				_, _ = insertResolution.Exec(r.sessionID, r.tick, r.actionID, r.action, r.outcome)
			}
		}
	}
}

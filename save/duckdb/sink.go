// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package duckdb stores enriched request rows into a DuckDB database
// file. Rows go through the appender interface in chunks; a chunk the
// database refuses is retried row by row so a single bad record does
// not void the records around it.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog/log"

	"log2duck/weblog"
	"log2duck/weblog/combined"
)

// Sink is a single-writer connection to the target database file.
// It keeps two views of the same connector: a sql.DB for DDL and
// queries and a native connection the appender is attached to.
type Sink struct {
	dbPath    string
	connector *duckdb.Connector
	db        *sql.DB
	conn      driver.Conn
	appender  *duckdb.Appender
	insert    string
	chunkSize int
	pending   []*combined.BoundRow
}

// OpenSink opens (and if needed, initializes) the target database
// file. An existing file must contain a compatible log table,
// otherwise the function refuses to touch it.
func OpenSink(dbPath string, chunkSize int) (*Sink, error) {
	connector, err := duckdb.NewConnector(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	db := sql.OpenDB(connector)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database %s: %w", dbPath, err)
	}
	var numCols int
	err = db.QueryRow(
		"SELECT count(*) FROM information_schema.columns WHERE table_name = ?", TableName,
	).Scan(&numCols)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect database %s: %w", dbPath, err)
	}
	if numCols != len(tableColumns) {
		db.Close()
		return nil, fmt.Errorf(
			"database %s contains an incompatible %s table (%d columns, expected %d)",
			dbPath, TableName, numCols, len(tableColumns))
	}
	conn, err := connector.Connect(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbPath, err)
	}
	appender, err := duckdb.NewAppenderFromConn(conn, "", TableName)
	if err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("failed to attach appender to database %s: %w", dbPath, err)
	}
	return &Sink{
		dbPath:    dbPath,
		connector: connector,
		db:        db,
		conn:      conn,
		appender:  appender,
		insert:    insertSQL(),
		chunkSize: chunkSize,
		pending:   make([]*combined.BoundRow, 0, chunkSize),
	}, nil
}

// MaxTimestamp returns the newest request time already stored in the
// file or the zero time in case the table is empty. It is used to
// skip already imported lines when processing a growing log.
func (sink *Sink) MaxTimestamp() (time.Time, error) {
	var ans sql.NullTime
	err := sink.db.QueryRow(
		fmt.Sprintf(`SELECT max("timestamp") FROM %s`, TableName)).Scan(&ans)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find the newest stored record: %w", err)
	}
	if !ans.Valid {
		return time.Time{}, nil
	}
	return ans.Time, nil
}

// Write appends a row. Once the internal buffer reaches the
// configured chunk size, the chunk is flushed to the file. The
// returned values report how many rows the flush stored and which
// rows the database refused.
func (sink *Sink) Write(item *combined.BoundRow) (int, []weblog.RowError) {
	if err := sink.appender.AppendRow(item.Row.AppenderValues()...); err != nil {
		return 0, []weblog.RowError{weblog.NewRowError(item.LineNumber, item.Line, err)}
	}
	sink.pending = append(sink.pending, item)
	if len(sink.pending) >= sink.chunkSize {
		return sink.flushPending()
	}
	return 0, nil
}

func (sink *Sink) flushPending() (int, []weblog.RowError) {
	numPending := len(sink.pending)
	if numPending == 0 {
		return 0, nil
	}
	if err := sink.appender.Flush(); err != nil {
		log.Error().
			Err(err).
			Int("rows", numPending).
			Msg("failed to write a chunk, retrying rows one by one")
		failed := sink.rescuePending()
		sink.pending = sink.pending[:0]
		if err := sink.resetAppender(); err != nil {
			log.Error().Err(err).Msg("failed to reattach the row appender")
		}
		return numPending - len(failed), failed
	}
	sink.pending = sink.pending[:0]
	return numPending, nil
}

// rescuePending re-inserts rows of a failed chunk one by one using a
// regular insert statement. This isolates the records the database
// actually refuses from their innocent chunk neighbors.
func (sink *Sink) rescuePending() []weblog.RowError {
	ans := make([]weblog.RowError, 0, len(sink.pending))
	for _, item := range sink.pending {
		if _, err := sink.db.Exec(sink.insert, item.Row.AppenderValues()...); err != nil {
			ans = append(ans, weblog.NewRowError(item.LineNumber, item.Line, err))
		}
	}
	return ans
}

// resetAppender replaces the appender after a failed flush as its
// internal buffer state is undefined at that point.
func (sink *Sink) resetAppender() error {
	sink.appender.Close()
	appender, err := duckdb.NewAppenderFromConn(sink.conn, "", TableName)
	if err != nil {
		return err
	}
	sink.appender = appender
	return nil
}

// Close flushes the remaining buffered rows and releases the
// database. The returned values report the outcome of the final
// flush; the error covers the release itself.
func (sink *Sink) Close() (int, []weblog.RowError, error) {
	written, failed := sink.flushPending()
	var ans error
	if err := sink.appender.Close(); err != nil {
		ans = fmt.Errorf("failed to close the row appender: %w", err)
	}
	if err := sink.conn.Close(); err != nil && ans == nil {
		ans = fmt.Errorf("failed to close database connection: %w", err)
	}
	if err := sink.db.Close(); err != nil && ans == nil {
		ans = fmt.Errorf("failed to close database %s: %w", sink.dbPath, err)
	}
	return written, failed, ans
}

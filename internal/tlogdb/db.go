// Package tlogdb archives decoded trajectory-log summaries and per-axis
// deviation statistics in a local sqlite database.
package tlogdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/tlogstats"
)

type DB struct {
	*sql.DB
}

// LogRecord is one archived log's header summary.
type LogRecord struct {
	LogID              string
	SourceFile         string
	Signature          string
	Version            float64
	SamplingIntervalMS int64
	NumAxes            int64
	AxisScale          int64
	NumSubbeams        int64
	IsTruncated        int64
	NumSnapshots       int64
	MLCModel           int64
	NumMLCLeaves       int64
	ImportedAt         time.Time
}

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS logs (
			log_id               TEXT PRIMARY KEY,
			source_file          TEXT,
			signature            TEXT,
			version              DOUBLE,
			sampling_interval_ms BIGINT,
			num_axes             BIGINT,
			axis_scale           BIGINT,
			num_subbeams         BIGINT,
			is_truncated         BIGINT,
			num_snapshots        BIGINT,
			mlc_model            BIGINT,
			num_mlc_leaves       BIGINT,
			imported_at          BIGINT
		);
		CREATE TABLE IF NOT EXISTS axis_stats (
			log_id     TEXT,
			axis       TEXT,
			unit       TEXT,
			mean_dev   DOUBLE,
			stddev_dev DOUBLE,
			rms_dev    DOUBLE,
			max_dev    DOUBLE,
			FOREIGN KEY(log_id) REFERENCES logs(log_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RecordLog stores one decoded log's header summary plus its per-axis
// deviation rows in a single transaction and returns the new log id.
func (db *DB) RecordLog(src string, l *tlog.TrajectoryLog, devs []tlogstats.AxisDeviation) (string, error) {
	logID := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO logs (
			log_id, source_file, signature, version, sampling_interval_ms,
			num_axes, axis_scale, num_subbeams, is_truncated, num_snapshots,
			mlc_model, num_mlc_leaves, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		logID, src, l.Signature, l.Version, l.SamplingIntervalMS,
		l.NumAxes, l.AxisScale, l.NumSubbeams, l.IsTruncated, l.NumSnapshots,
		l.MLCModel, l.NumMLCLeaves, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert log: %w", err)
	}

	for _, d := range devs {
		_, err = tx.Exec(`
			INSERT INTO axis_stats (log_id, axis, unit, mean_dev, stddev_dev, rms_dev, max_dev)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			logID, d.Axis, d.Unit, d.Mean, d.StdDev, d.RMS, d.Max,
		)
		if err != nil {
			return "", fmt.Errorf("insert axis stats for %s: %w", d.Axis, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return logID, nil
}

// Logs returns the archived log summaries, most recent import first.
func (db *DB) Logs() ([]LogRecord, error) {
	rows, err := db.Query(`
		SELECT log_id, source_file, signature, version, sampling_interval_ms,
		       num_axes, axis_scale, num_subbeams, is_truncated, num_snapshots,
		       mlc_model, num_mlc_leaves, imported_at
		FROM logs ORDER BY imported_at DESC, log_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogRecord
	for rows.Next() {
		var r LogRecord
		var importedAtUnix int64
		if err := rows.Scan(
			&r.LogID, &r.SourceFile, &r.Signature, &r.Version, &r.SamplingIntervalMS,
			&r.NumAxes, &r.AxisScale, &r.NumSubbeams, &r.IsTruncated, &r.NumSnapshots,
			&r.MLCModel, &r.NumMLCLeaves, &importedAtUnix,
		); err != nil {
			return nil, err
		}
		r.ImportedAt = time.Unix(importedAtUnix, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AxisStats returns the deviation rows for one archived log in insertion
// order (fixed axes first, then leaves).
func (db *DB) AxisStats(logID string) ([]tlogstats.AxisDeviation, error) {
	rows, err := db.Query(`
		SELECT axis, unit, mean_dev, stddev_dev, rms_dev, max_dev
		FROM axis_stats WHERE log_id = ? ORDER BY rowid`, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tlogstats.AxisDeviation
	for rows.Next() {
		var d tlogstats.AxisDeviation
		if err := rows.Scan(&d.Axis, &d.Unit, &d.Mean, &d.StdDev, &d.RMS, &d.Max); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

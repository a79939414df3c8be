// Copyright 2023 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pool policy: 5 idle connections plus an overflow of 10.
const (
	maxIdleConns    = 5
	maxOpenConns    = maxIdleConns + 10
	connMaxLifetime = 30 * time.Minute
	// retries after the first attempt on a reset connection
	resetRetries = 1
)

// Prometheus metrics
var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dyeingdashboard_queries_total",
			Help: "The total number of executed queries by template and outcome",
		},
		[]string{"template", "outcome"},
	)
	queryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyeingdashboard_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// Connection is the pooled database handle shared by every session.
type Connection struct {
	db        *gorm.DB
	sqlDB     *sql.DB
	templates *TemplateStore
	backend   string
	backoff   internal.Backoff
	timeout   time.Duration
}

// Connect opens the pool described by creds. The pool dials lazily; the
// first statement or Ping establishes a connection.
func Connect(creds *Credentials, templates *TemplateStore) (*Connection, error) {
	zap.S().Infof("Connecting to %s", creds)
	db, err := gorm.Open(creds.Dialector(), &gorm.Config{
		Logger:               newGormLogger(bool(creds.Echo)),
		DisableAutomaticPing: true,
		PrepareStmt:          false,
	})
	if err != nil {
		logHints(err)
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return newConnection(db, creds.DatabaseType, templates)
}

// NewWithDialector wraps an already configured dialector, e.g. one opened on
// an existing *sql.DB.
func NewWithDialector(dialector gorm.Dialector, backend string, templates *TemplateStore) (*Connection, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(false), DisableAutomaticPing: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return newConnection(db, backend, templates)
}

func newConnection(db *gorm.DB, backend string, templates *TemplateStore) (*Connection, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return &Connection{
		db:        db,
		sqlDB:     sqlDB,
		templates: templates,
		backend:   backend,
		backoff:   internal.DefaultBackoff,
		timeout:   internal.QueryTimeout,
	}, nil
}

// Backend is the configured database type.
func (c *Connection) Backend() string { return c.backend }

// Templates returns the template store of the connection.
func (c *Connection) Templates() *TemplateStore { return c.templates }

// Ping checks that a connection can be obtained.
func (c *Connection) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.sqlDB.PingContext(ctx); err != nil {
		logHints(err)
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

// Close closes every pooled connection.
func (c *Connection) Close() error {
	return c.sqlDB.Close()
}

// Execute runs query and returns its result set. A reset connection is
// retried once on a fresh one.
func (c *Connection) Execute(ctx context.Context, query string) (*datamodel.Table, error) {
	return c.execute(ctx, "", query)
}

// ExecuteTemplate renders the template name and runs it.
func (c *Connection) ExecuteTemplate(ctx context.Context, name string, substitutions map[string]string) (*datamodel.Table, error) {
	if c.templates == nil {
		return nil, fmt.Errorf("%w: no template directory", ErrConfig)
	}
	query, err := c.templates.Render(name, substitutions)
	if err != nil {
		queriesTotal.WithLabelValues(name, "config_error").Inc()
		return nil, err
	}
	return c.execute(ctx, name, query)
}

// Periods returns the period tokens of the template name.
func (c *Connection) Periods(name string, defaults []string) ([]PeriodToken, error) {
	if c.templates == nil {
		return tokensOf(defaults), nil
	}
	return c.templates.Periods(name, defaults)
}

func (c *Connection) execute(ctx context.Context, name, query string) (*datamodel.Table, error) {
	start := time.Now()
	defer func() { queryDuration.Observe(time.Since(start).Seconds()) }()

	for attempt := 0; ; attempt++ {
		t, err := c.executeOnce(ctx, query)
		if err == nil {
			queriesTotal.WithLabelValues(name, "ok").Inc()
			return t, nil
		}
		if isConnectionReset(err) {
			if attempt < resetRetries {
				zap.S().Warnf("Connection reset while running %s, retrying: %s", name, err)
				if serr := c.backoff.Sleep(ctx, int64(attempt+1)); serr != nil {
					return nil, fmt.Errorf("%w: %w", ErrConnection, serr)
				}
				continue
			}
			logHints(err)
			queriesTotal.WithLabelValues(name, "connection_error").Inc()
			return nil, fmt.Errorf("%w: %w", ErrConnection, err)
		}
		logHints(err)
		queriesTotal.WithLabelValues(name, "query_error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %w", ErrQuery, c.timeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
}

func (c *Connection) executeOnce(ctx context.Context, query string) (*datamodel.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out *datamodel.Table
	err := c.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		// pre-ping on checkout
		if p, ok := tx.Statement.ConnPool.(interface{ PingContext(context.Context) error }); ok {
			if err := p.PingContext(ctx); err != nil {
				return err
			}
		}
		rows, err := tx.Raw(query).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanTable(rows)
		return err
	})
	return out, err
}

func scanTable(rows *sql.Rows) (*datamodel.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		types = nil
	}
	t := datamodel.NewTable(columns...)
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make([]datamodel.Cell, len(columns))
		for i, v := range values {
			dbType := ""
			if i < len(types) && types[i] != nil {
				dbType = types[i].DatabaseTypeName()
			}
			row[i] = toCell(v, dbType)
		}
		if err = t.Append(row...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

// toCell converts a scanned value. Drivers return DECIMAL and, over the
// MySQL text protocol, integers as []byte; the column type tells them apart.
func toCell(v interface{}, dbType string) datamodel.Cell {
	b, ok := v.([]byte)
	if !ok {
		return datamodel.CellOf(v)
	}
	s := string(b)
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY", "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return datamodel.Float(f)
		}
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "INT2", "INT4", "INT8",
		"UNSIGNED INT", "UNSIGNED BIGINT", "UNSIGNED SMALLINT", "UNSIGNED TINYINT", "YEAR", "BIT":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return datamodel.Int(i)
		}
	case "DATETIME", "DATETIME2", "DATE", "TIMESTAMP", "SMALLDATETIME":
		if ts, err := datamodel.ParseDate(s); err == nil {
			return datamodel.DateTime(ts)
		}
	case "UNIQUEIDENTIFIER":
		var u mssql.UniqueIdentifier
		if err := u.Scan(b); err == nil {
			return datamodel.Text(u.String())
		}
	}
	return datamodel.Text(s)
}

// ConnectionInfo is the result of a connection test.
type ConnectionInfo struct {
	Status       string `json:"status"`
	Backend      string `json:"backend"`
	Version      string `json:"version,omitempty"`
	ServerName   string `json:"server_name,omitempty"`
	DatabaseName string `json:"database_name,omitempty"`
	Error        string `json:"error,omitempty"`
}

var infoQueries = map[string]string{
	BackendMySQL:     "SELECT VERSION() AS version, @@hostname AS server_name, DATABASE() AS database_name",
	BackendSQLServer: "SELECT @@VERSION AS version, @@SERVERNAME AS server_name, DB_NAME() AS database_name",
	BackendPostgres:  "SELECT version() AS version, COALESCE(inet_server_addr()::text, 'local') AS server_name, current_database() AS database_name",
}

// Info runs a connection test. Failures are reported in the result.
func (c *Connection) Info(ctx context.Context) ConnectionInfo {
	info := ConnectionInfo{Backend: c.backend}
	query, ok := infoQueries[c.backend]
	if !ok {
		query = infoQueries[BackendSQLServer]
	}
	t, err := c.execute(ctx, "connection_test", query)
	if err != nil {
		zap.S().Errorf("Connection test failed: %s", err)
		info.Status = "Failed"
		info.Error = err.Error()
		return info
	}
	info.Status = "Connected"
	if t.Len() > 0 {
		info.Version = t.Get(0, "version").String()
		info.ServerName = t.Get(0, "server_name").String()
		info.DatabaseName = t.Get(0, "database_name").String()
	}
	zap.S().Infof("Connection test successful: %s %s", info.ServerName, info.DatabaseName)
	return info
}

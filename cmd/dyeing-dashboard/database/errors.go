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
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"
)

var (
	// ErrConnection is returned when no usable connection could be obtained.
	ErrConnection = errors.New("database connection error")
	// ErrQuery is returned when the database rejected or failed a statement.
	ErrQuery = errors.New("database query error")
	// ErrConfig is returned for missing or invalid credentials and templates.
	ErrConfig = errors.New("database configuration error")
)

const (
	mssqlConnectionForciblyClosed = 10054
	mssqlLoginFailed              = 18456
)

// isConnectionReset reports whether err means the connection went away and
// the statement is worth running again on a fresh one.
func isConnectionReset(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == mssqlConnectionForciblyClosed
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return strings.Contains(err.Error(), "connection reset by peer")
}

// logHints adds operator hints for well known backend failures.
func logHints(err error) {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		switch msErr.Number {
		case mssqlConnectionForciblyClosed:
			zap.S().Errorf("SQL Server closed the connection (10054). Check TLS settings, firewall and network")
		case mssqlLoginFailed:
			zap.S().Errorf("SQL Server login failed (18456). Check username and password")
		}
		return
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1045 {
		zap.S().Errorf("MySQL access denied (1045). Check username and password")
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "28P01" {
		zap.S().Errorf("PostgreSQL password authentication failed. Check username and password")
		return
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		zap.S().Errorf("Database host %s not found. Check server name and network connectivity", dnsErr.Name)
	}
}

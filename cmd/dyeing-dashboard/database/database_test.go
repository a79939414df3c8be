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
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	gormmysql "gorm.io/driver/mysql"
)

func writeTemplates(t *testing.T, files map[string]string) *TemplateStore {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	store, err := NewTemplateStore(dir)
	require.NoError(t, err)
	return store
}

func CreateMockConnection(t *testing.T, templates *TemplateStore) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	helpers.InitTestLogging()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock connection: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	c, err := NewWithDialector(gormmysql.New(gormmysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), BackendMySQL, templates)
	require.NoError(t, err)
	c.backoff = internal.Backoff{Slot: time.Millisecond, Max: time.Millisecond}
	return c, mock
}

func TestExecuteTemplate(t *testing.T) {
	store := writeTemplates(t, map[string]string{
		"1_machine_usage.sql": "SELECT * FROM usage WHERE period = '{period_replace}'",
	})
	c, mock := CreateMockConnection(t, store)

	start := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM usage WHERE period = 'today'")).
		WillReturnRows(sqlmock.NewRows([]string{"machine_name", "run", "order_index", "start_time", "note"}).
			AddRow("M1", 42.5, int64(1), start, nil).
			AddRow("M2", []byte("17.25"), int64(1), start, []byte("ok")))

	tbl, err := c.ExecuteTemplate(context.Background(), "1_machine_usage", map[string]string{"period_replace": "today"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"machine_name", "run", "order_index", "start_time", "note"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, datamodel.Text("M1"), tbl.Get(0, "machine_name"))
	assert.Equal(t, datamodel.Float(42.5), tbl.Get(0, "run"))
	assert.Equal(t, datamodel.Int(1), tbl.Get(0, "order_index"))
	assert.Equal(t, datamodel.DateTime(start), tbl.Get(0, "start_time"))
	assert.True(t, tbl.Get(0, "note").IsNull())
	assert.Equal(t, datamodel.Text("ok"), tbl.Get(1, "note"))
}

func TestExecuteRetriesResetConnectionOnce(t *testing.T) {
	c, mock := CreateMockConnection(t, nil)

	mock.ExpectQuery("SELECT 1").WillReturnError(mysql.ErrInvalidConn)
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(int64(1)))

	tbl, err := c.Execute(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, datamodel.Int(1), tbl.Get(0, "one"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteGivesUpAfterRetry(t *testing.T) {
	c, mock := CreateMockConnection(t, nil)

	mock.ExpectQuery("SELECT 1").WillReturnError(mysql.ErrInvalidConn)
	mock.ExpectQuery("SELECT 1").WillReturnError(mysql.ErrInvalidConn)

	_, err := c.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrConnection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQueryError(t *testing.T) {
	c, mock := CreateMockConnection(t, nil)

	mock.ExpectQuery("SELECT broken").WillReturnError(&mysql.MySQLError{Number: 1064, Message: "syntax error"})

	_, err := c.Execute(context.Background(), "SELECT broken")
	assert.ErrorIs(t, err, ErrQuery)
	assert.NotErrorIs(t, err, ErrConnection)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTemplateMissingPlaceholder(t *testing.T) {
	store := writeTemplates(t, map[string]string{
		"5_machine_schedule.sql": "SELECT * FROM s WHERE start_time BETWEEN '{min_start_time}' AND '{max_start_time}'",
	})
	c, mock := CreateMockConnection(t, store)

	_, err := c.ExecuteTemplate(context.Background(), "5_machine_schedule", map[string]string{"min_start_time": "2024-06-01 00:00:00"})
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "max_start_time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInfo(t *testing.T) {
	c, mock := CreateMockConnection(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta(infoQueries[BackendMySQL])).
		WillReturnRows(sqlmock.NewRows([]string{"version", "server_name", "database_name"}).
			AddRow("8.0.35", "db-1", "dyeing"))
	info := c.Info(context.Background())
	assert.Equal(t, "Connected", info.Status)
	assert.Equal(t, "8.0.35", info.Version)
	assert.Equal(t, "db-1", info.ServerName)
	assert.Equal(t, "dyeing", info.DatabaseName)

	mock.ExpectQuery(regexp.QuoteMeta(infoQueries[BackendMySQL])).
		WillReturnError(&mysql.MySQLError{Number: 1045, Message: "Access denied"})
	info = c.Info(context.Background())
	assert.Equal(t, "Failed", info.Status)
	assert.Contains(t, info.Error, "Access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToCell(t *testing.T) {
	assert.Equal(t, datamodel.Float(1.5), toCell([]byte("1.5"), "DECIMAL"))
	assert.Equal(t, datamodel.Int(12), toCell([]byte("12"), "BIGINT"))
	assert.Equal(t, datamodel.Text("12"), toCell([]byte("12"), "VARCHAR"))
	assert.Equal(t, datamodel.Text("abc"), toCell([]byte("abc"), "DECIMAL"))
	assert.Equal(t,
		datamodel.DateTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		toCell([]byte("2024-01-02 03:04:05"), "DATETIME"))
	assert.Equal(t, datamodel.Int(3), toCell(int64(3), ""))
}

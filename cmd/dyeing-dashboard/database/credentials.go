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
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	gormmysql "gorm.io/driver/mysql"
)

// Supported backends.
const (
	BackendMySQL     = "mysql"
	BackendSQLServer = "sqlserver"
	BackendPostgres  = "postgres"
)

// Flag is a boolean that also accepts yes/no, as ODBC style options do.
type Flag bool

func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "true", "yes", "on", "1":
		*f = true
	case "false", "no", "off", "0", "":
		*f = false
	default:
		return fmt.Errorf("line %d: %q is not a boolean", value.Line, value.Value)
	}
	return nil
}

// Credentials is the content of the credentials YAML file.
type Credentials struct {
	DatabaseType      string `yaml:"database_type"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Database          string `yaml:"database"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	Driver            string `yaml:"driver"`
	Authentication    string `yaml:"authentication"`
	TrustedConnection Flag   `yaml:"trusted_connection"`
	MarsConnection    Flag   `yaml:"mars_connection"`
	Echo              Flag   `yaml:"echo"`
}

// LoadCredentials reads and validates the credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading credentials %s: %w", ErrConfig, path, err)
	}
	return ParseCredentials(b)
}

// ParseCredentials parses and validates credentials YAML.
func ParseCredentials(b []byte) (*Credentials, error) {
	var c Credentials
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: parsing credentials: %w", ErrConfig, err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Credentials) normalize() error {
	switch strings.ToLower(strings.TrimSpace(c.DatabaseType)) {
	case "mysql", "mariadb":
		c.DatabaseType = BackendMySQL
	case "sqlserver", "mssql":
		c.DatabaseType = BackendSQLServer
	case "postgres", "postgresql":
		c.DatabaseType = BackendPostgres
	case "":
		// the first deployments only knew SQL Server
		c.DatabaseType = BackendSQLServer
	default:
		return fmt.Errorf("%w: unknown database_type %q", ErrConfig, c.DatabaseType)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrConfig)
	}
	if c.Database == "" {
		return fmt.Errorf("%w: database is required", ErrConfig)
	}
	if strings.EqualFold(c.Authentication, "windows") {
		c.TrustedConnection = true
	}
	if c.Username == "" && !bool(c.TrustedConnection) {
		return fmt.Errorf("%w: username is required without trusted_connection", ErrConfig)
	}
	if c.Port == 0 {
		switch c.DatabaseType {
		case BackendMySQL:
			c.Port = 3306
		case BackendSQLServer:
			c.Port = 1433
		case BackendPostgres:
			c.Port = 5432
		}
	}
	return nil
}

func (c *Credentials) address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN builds the driver connection string.
func (c *Credentials) DSN() string {
	switch c.DatabaseType {
	case BackendMySQL:
		cfg := mysql.NewConfig()
		cfg.User = c.Username
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = c.address()
		cfg.DBName = c.Database
		cfg.ParseTime = true
		// DATETIME columns are wall clock; keep them as they are
		cfg.Loc = time.UTC
		cfg.Timeout = 30 * time.Second
		cfg.ReadTimeout = 30 * time.Second
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return cfg.FormatDSN()
	case BackendPostgres:
		q := url.Values{}
		q.Set("connect_timeout", "30")
		q.Set("sslmode", "prefer")
		u := &url.URL{Scheme: "postgres", Host: c.address(), Path: "/" + c.Database, RawQuery: q.Encode()}
		if c.Username != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String()
	default:
		q := url.Values{}
		q.Set("database", c.Database)
		q.Set("encrypt", "true")
		q.Set("TrustServerCertificate", "true")
		q.Set("connection timeout", "30")
		q.Set("dial timeout", "30")
		q.Set("packet size", "4096")
		q.Set("app name", "dyeing-dashboard")
		u := &url.URL{Scheme: "sqlserver", Host: c.address(), RawQuery: q.Encode()}
		if !c.TrustedConnection {
			u.User = url.UserPassword(c.Username, c.Password)
		}
		return u.String()
	}
}

// Dialector returns the gorm dialector of the configured backend.
func (c *Credentials) Dialector() gorm.Dialector {
	if c.Driver != "" {
		zap.S().Debugf("Ignoring ODBC driver %q, using the native %s driver", c.Driver, c.DatabaseType)
	}
	if c.MarsConnection && c.DatabaseType == BackendSQLServer {
		zap.S().Warnf("mars_connection is not supported by the SQL Server driver and is ignored")
	}
	switch c.DatabaseType {
	case BackendMySQL:
		return gormmysql.Open(c.DSN())
	case BackendPostgres:
		return postgres.Open(c.DSN())
	default:
		return sqlserver.Open(c.DSN())
	}
}

// String hides the password.
func (c *Credentials) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", c.DatabaseType, c.Username, c.address(), c.Database)
}

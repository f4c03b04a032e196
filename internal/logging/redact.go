package logging

import (
	"fmt"
	"net/url"

	"github.com/queryloom/queryloom/pkg/queryloom"
)

// RedactDSN masks the password component of a connection URL or DSN so it is
// safe to log. Inputs that do not parse are replaced wholesale rather than
// risking a leaked credential.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		if err != nil {
			return "<unparseable dsn redacted>"
		}
		return dsn
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// DescribeConfig returns a loggable one-line summary of a connection config:
// engine, user, host, port and database, never the password.
func DescribeConfig(cfg *queryloom.ConnectionConfig) string {
	return fmt.Sprintf("%s://%s@%s/%s", cfg.Engine, cfg.Username, cfg.Addr(), cfg.Database)
}

package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of the classic Freebox Munin plugin where
// applicable: a LAN router answers fast or not at all, so timeouts are
// short and transport failures are never retried.
const (
	// DefaultBaseURL is the well-known LAN address of the Freebox web
	// interface. The router answers on this name regardless of the DHCP
	// configuration of the local network.
	DefaultBaseURL = "http://mafreebox.freebox.fr"

	// DefaultTimeout is deliberately short. The router is one Ethernet
	// hop away; if it does not answer within 2 seconds it is offline, and
	// the monitoring scheduler must not be held up waiting.
	DefaultTimeout = 2 * time.Second

	// DefaultAuthRetries caps the re-authentication loop during a page
	// fetch. A fresh login that is immediately rejected again means the
	// firmware is misbehaving; looping forever would hang the scheduler.
	DefaultAuthRetries = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "fbxmon"

	// PasswordEnv is the environment variable holding the router password.
	PasswordEnv = "FREEBOX_PASSWORD"
)

// Default router page paths. The firmware serves fixed PHP pages; these
// can be overridden in the config file for firmware variants.
const (
	// DefaultConnectionPage is the connection-status page (conn_state).
	DefaultConnectionPage = "/conn.php"

	// DefaultSystemPage is the system-information page (uptime,
	// temperatures, fan speed).
	DefaultSystemPage = "/system.php"

	// DefaultDSLPage is the ADSL-statistics page (sync rates,
	// attenuation, SNR margins).
	DefaultDSLPage = "/dsl_stats.php"
)

// Pages holds the router page paths used by the metric reporters.
type Pages struct {
	// Connection is the path of the connection-status page.
	Connection string `yaml:"connection"`

	// System is the path of the system-information page.
	System string `yaml:"system"`

	// DSL is the path of the ADSL-statistics page.
	DSL string `yaml:"dsl"`
}

// Config holds all configuration options for fbxmon.
// This struct is populated from the environment, the optional config
// file, and CLI flags, and passed through the application via dependency
// injection rather than global state.
type Config struct {
	// BaseURL is the root URL of the router's web interface.
	BaseURL string

	// Password is the router account password. The account name itself
	// is fixed by the firmware ("freebox") and is not configurable.
	Password string

	// Timeout is the per-request transport timeout.
	Timeout time.Duration

	// AuthRetries caps the re-authentication attempts during one fetch.
	AuthRetries int

	// Pages are the router page paths scraped by the reporters.
	Pages Pages

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// History enables recording collected samples to the SQLite history
	// database under the XDG data directory.
	History bool

	// ConfigFilePath is the explicit config file path, if any. When
	// empty, the loader searches .fbxmon in the current directory and
	// then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values and the password
// taken from the environment.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (base URL, timeout,
// retry cap). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Password:    os.Getenv(PasswordEnv),
		Timeout:     DefaultTimeout,
		AuthRetries: DefaultAuthRetries,
		Pages: Pages{
			Connection: DefaultConnectionPage,
			System:     DefaultSystemPage,
			DSL:        DefaultDSLPage,
		},
	}
}

// TokenPath returns the path of the persisted session token file.
// On Linux: ~/.local/state/fbxmon/session
func TokenPath() string {
	return filepath.Join(xdg.StateHome, AppName, "session")
}

// ScratchPath returns the path of the scratch copy of the most recently
// fetched page body, kept for post-mortem inspection of scrape failures.
// On Linux: ~/.cache/fbxmon/last-page.html
func ScratchPath() string {
	return filepath.Join(xdg.CacheHome, AppName, "last-page.html")
}

// HistoryDir returns the directory of the sample history database.
// On Linux: ~/.local/share/fbxmon
func HistoryDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Password == "" {
		return ErrNoPassword
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.AuthRetries <= 0 {
		return ErrInvalidAuthRetries
	}

	return nil
}

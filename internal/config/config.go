package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/zonecell/internal/world"
)

// ZoneServer holds all configuration for the zone server.
type ZoneServer struct {
	LogLevel string `yaml:"log_level"` // debug|info|warn|error

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Websocket delivery
	Gateway GatewayConfig `yaml:"gateway"`

	// Background writes (kill log)
	WriteQueue WriteQueueConfig `yaml:"write_queue"`

	// Rebirth ticker
	RebirthInterval time.Duration `yaml:"rebirth_interval"`

	// Maps loaded at startup and where new players appear
	Maps  []MapConfig `yaml:"maps"`
	Entry EntryConfig `yaml:"entry"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// GatewayConfig configures the websocket endpoint.
type GatewayConfig struct {
	BindAddress    string        `yaml:"bind_address"`
	Port           int           `yaml:"port"`
	Path           string        `yaml:"path"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // per-write deadline
	IdleTimeout    time.Duration `yaml:"idle_timeout"`     // silent client disconnect
	SendQueueSize  int           `yaml:"send_queue_size"`  // per-client outbox capacity
	MaxMessageSize int64         `yaml:"max_message_size"` // bytes
}

// Address returns host:port.
func (g GatewayConfig) Address() string {
	return fmt.Sprintf("%s:%d", g.BindAddress, g.Port)
}

// WriteQueueConfig sizes the background write queue.
type WriteQueueConfig struct {
	Size       int           `yaml:"size"`
	Workers    int           `yaml:"workers"`
	JobTimeout time.Duration `yaml:"job_timeout"`
}

// MapConfig describes one map.
type MapConfig struct {
	ID        uint16         `yaml:"id"`
	Type      string         `yaml:"type"` // normal|guild_ranking|test
	Name      string         `yaml:"name"`
	Geometry  world.Geometry `yaml:",inline"`
	Adjacency [][]int        `yaml:"adjacency,omitempty"`
}

// Definition converts the entry into a map definition.
func (m MapConfig) Definition() (world.Definition, error) {
	typ, err := world.ParseType(m.Type)
	if err != nil {
		return world.Definition{}, fmt.Errorf("map %d: %w", m.ID, err)
	}
	return world.Definition{
		ID:        m.ID,
		Type:      typ,
		Name:      m.Name,
		Geometry:  m.Geometry,
		Adjacency: m.Adjacency,
	}, nil
}

// EntryConfig is the map and position new players appear at.
type EntryConfig struct {
	MapID uint16  `yaml:"map_id"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Z     float32 `yaml:"z"`
}

// DefaultZoneServer returns ZoneServer config with sensible defaults.
func DefaultZoneServer() ZoneServer {
	return ZoneServer{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "zonecell",
			Password: "zonecell",
			DBName:   "zonecell",
			SSLMode:  "disable",
		},
		Gateway: GatewayConfig{
			BindAddress:    "0.0.0.0",
			Port:           7780,
			Path:           "/ws",
			WriteTimeout:   5 * time.Second,
			IdleTimeout:    60 * time.Second,
			SendQueueSize:  256,
			MaxMessageSize: 4096,
		},
		WriteQueue: WriteQueueConfig{
			Size:       1024,
			Workers:    2,
			JobTimeout: 5 * time.Second,
		},
		RebirthInterval: time.Second,
		Maps: []MapConfig{
			{
				ID:   1,
				Type: "normal",
				Name: "plains",
				Geometry: world.Geometry{
					Width:      4096,
					Height:     4096,
					CellSize:   256,
					ViewRadius: 1,
				},
			},
		},
		Entry: EntryConfig{MapID: 1, X: 2048, Z: 2048},
	}
}

// LoadZoneServer loads zone server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadZoneServer(path string) (ZoneServer, error) {
	cfg := DefaultZoneServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

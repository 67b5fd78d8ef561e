package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"

	MediaFS = "fs"
	MediaS3 = "s3"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr                   string        `yaml:"addr"`
	LogLevel               string        `yaml:"log_level"`
	LogJSON                bool          `yaml:"log_json"`
	SecureCookies          bool          `yaml:"secure_cookies"`
	FlashTTL               time.Duration `yaml:"flash_ttl"`
	SlowRequestThreshold   time.Duration `yaml:"slow_request_threshold"`
	MaxTotalAttachmentSize int64         `yaml:"max_total_attachment_size" validate:"required,gt=0"`
	MaxAttachmentsPerPost  int           `yaml:"max_attachments_per_post" validate:"required,gt=0"`
	AllowedMimeTypes       []string      `yaml:"allowed_mime_types"` // empty means any type
	Database               Database      `yaml:"database"`
	Media                  Media         `yaml:"media"`
}

type Database struct {
	Driver       string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	SqlitePath   string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type Media struct {
	Backend string  `yaml:"backend" validate:"omitempty,oneof=fs s3"`
	Root    string  `yaml:"root"`
	S3      S3Media `yaml:"s3"`
}

type S3Media struct {
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
}

type Private struct {
	Pg Pg `yaml:"pg"`
	S3 S3 `yaml:"s3"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type S3 struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// PgDSN builds a lib/pq connection string.
func (c *Config) PgDSN() string {
	pg := c.Private.Pg
	sslmode := pg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname, sslmode)
}

func (p *Public) setDefaults() {
	if p.Addr == "" {
		p.Addr = ":8080"
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.FlashTTL == 0 {
		p.FlashTTL = time.Minute
	}
	if p.SlowRequestThreshold == 0 {
		p.SlowRequestThreshold = 100 * time.Millisecond
	}
	if p.Media.Backend == "" {
		p.Media.Backend = MediaFS
	}
	if p.Media.Root == "" {
		p.Media.Root = "media"
	}
}

func (p *Public) validateMedia() error {
	if p.Media.Backend == MediaS3 && (p.Media.S3.Region == "" || p.Media.S3.Bucket == "") {
		return fmt.Errorf("media.s3.region and media.s3.bucket are required for the s3 backend")
	}
	return nil
}

// applyEnv lets secrets come from the environment (or a .env file) instead of private.yaml.
func (p *Private) applyEnv() {
	if v, ok := os.LookupEnv("SCOULA_PG_HOST"); ok {
		p.Pg.Host = v
	}
	if v, ok := os.LookupEnv("SCOULA_PG_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			p.Pg.Port = port
		}
	}
	if v, ok := os.LookupEnv("SCOULA_PG_PASSWORD"); ok {
		p.Pg.Password = v
	}
	if v, ok := os.LookupEnv("SCOULA_S3_ACCESS_KEY"); ok {
		p.S3.AccessKey = v
	}
	if v, ok := os.LookupEnv("SCOULA_S3_SECRET_KEY"); ok {
		p.S3.SecretKey = v
	}
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder.
// private.yaml is optional when every secret is supplied through the environment.
func MustLoad(configFolder string) *Config {
	// .env is optional, real environment always wins
	_ = godotenv.Load(path.Join(configFolder, ".env"))

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.setDefaults()

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		mustLoadPath(privatePath, &private)
	}
	private.applyEnv()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(public); err != nil {
		panic("invalid public config: " + err.Error())
	}
	if err := public.validateMedia(); err != nil {
		panic("invalid public config: " + err.Error())
	}

	return &Config{Public: public, Private: private}
}

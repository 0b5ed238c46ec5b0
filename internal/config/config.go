package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every runtime parameter of the bot.
type Config struct {
	Database DatabaseConfig
	Rabbit   RabbitConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	WhatsApp WhatsAppConfig
	HTTP     HTTPConfig
	Ordering OrderingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

type RabbitConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	LedgerTTLHrs int
}

type KafkaConfig struct {
	Brokers string // comma-separated; empty disables the analytics stream
	Topic   string
}

type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	APIBaseURL    string
}

type HTTPConfig struct {
	WebhookPort  int
	TrackingPort int
}

type OrderingConfig struct {
	DeliveryFee float64
	TrackingURL string
}

// Load reads the two-level YAML config format used across the project.
// Only sections and plain key: value pairs are supported.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	cfg.Database.Port = 5432
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 10
	cfg.Rabbit.Port = 5672
	cfg.Rabbit.VHost = "/"
	cfg.Redis.Port = 6379
	cfg.Redis.LedgerTTLHrs = 24
	cfg.Kafka.Topic = "customer.activity"
	cfg.WhatsApp.APIBaseURL = "https://graph.facebook.com/v18.0"
	cfg.HTTP.WebhookPort = 3000
	cfg.HTTP.TrackingPort = 3002
	cfg.Ordering.DeliveryFee = 4.99

	sc := bufio.NewScanner(file)
	var section string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		switch section {
		case "database":
			cfg.assignDatabase(key, val)
		case "rabbitmq":
			cfg.assignRabbit(key, val)
		case "redis":
			cfg.assignRedis(key, val)
		case "kafka":
			cfg.assignKafka(key, val)
		case "whatsapp":
			cfg.assignWhatsApp(key, val)
		case "http":
			cfg.assignHTTP(key, val)
		case "ordering":
			cfg.assignOrdering(key, val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.Rabbit.Host == "" || cfg.Rabbit.User == "" {
		return nil, fmt.Errorf("rabbitmq config incomplete")
	}
	if cfg.Redis.Host == "" {
		return nil, fmt.Errorf("redis config incomplete")
	}
	if cfg.WhatsApp.AccessToken == "" || cfg.WhatsApp.PhoneNumberID == "" || cfg.WhatsApp.VerifyToken == "" {
		return nil, fmt.Errorf("whatsapp config incomplete")
	}
	return cfg, nil
}

func (c *Config) assignDatabase(key, val string) {
	switch key {
	case "host":
		c.Database.Host = val
	case "port":
		c.Database.Port = atoi(val, 5432)
	case "user":
		c.Database.User = val
	case "password":
		c.Database.Password = val
	case "database":
		c.Database.Database = val
	case "sslmode":
		if val != "" {
			c.Database.SSLMode = val
		}
	case "max_conns":
		c.Database.MaxConns = atoi(val, 10)
	}
}

func (c *Config) assignRabbit(key, val string) {
	switch key {
	case "host":
		c.Rabbit.Host = val
	case "port":
		c.Rabbit.Port = atoi(val, 5672)
	case "user":
		c.Rabbit.User = val
	case "password":
		c.Rabbit.Password = val
	case "vhost":
		if val != "" {
			c.Rabbit.VHost = val
		}
	}
}

func (c *Config) assignRedis(key, val string) {
	switch key {
	case "host":
		c.Redis.Host = val
	case "port":
		c.Redis.Port = atoi(val, 6379)
	case "password":
		c.Redis.Password = val
	case "db":
		c.Redis.DB = atoi(val, 0)
	case "ledger_ttl_hours":
		c.Redis.LedgerTTLHrs = atoi(val, 24)
	}
}

func (c *Config) assignKafka(key, val string) {
	switch key {
	case "brokers":
		c.Kafka.Brokers = val
	case "topic":
		if val != "" {
			c.Kafka.Topic = val
		}
	}
}

func (c *Config) assignWhatsApp(key, val string) {
	switch key {
	case "access_token":
		c.WhatsApp.AccessToken = val
	case "phone_number_id":
		c.WhatsApp.PhoneNumberID = val
	case "verify_token":
		c.WhatsApp.VerifyToken = val
	case "api_base_url":
		if val != "" {
			c.WhatsApp.APIBaseURL = val
		}
	}
}

func (c *Config) assignHTTP(key, val string) {
	switch key {
	case "webhook_port":
		c.HTTP.WebhookPort = atoi(val, 3000)
	case "tracking_port":
		c.HTTP.TrackingPort = atoi(val, 3002)
	}
}

func (c *Config) assignOrdering(key, val string) {
	switch key {
	case "delivery_fee":
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Ordering.DeliveryFee = f
		}
	case "tracking_url":
		c.Ordering.TrackingURL = val
	}
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

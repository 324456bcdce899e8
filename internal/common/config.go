package common

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     string `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	Name     string `mapstructure:"POSTGRES_DB"`
}

type MailConfig struct {
	Host     string `mapstructure:"MAIL_HOST"`
	Port     int    `mapstructure:"MAIL_PORT"`
	User     string `mapstructure:"MAIL_USER"`
	Password string `mapstructure:"MAIL_PASSWORD"`
	Sender   string `mapstructure:"MAIL_SENDER"`
	// Notify lists the addresses told about newly published posts.
	Notify []string `mapstructure:"MAIL_NOTIFY"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"RABBITMQ_HOST"`
	Port     string `mapstructure:"RABBITMQ_PORT"`
	User     string `mapstructure:"RABBITMQ_USER"`
	Password string `mapstructure:"RABBITMQ_PASSWORD"`
}

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`
	// BaseURL is the public site root, used to build links in notifications.
	BaseURL string `mapstructure:"BASE_URL"`

	DB       DBConfig       `mapstructure:",squash"`
	Mail     MailConfig     `mapstructure:",squash"`
	RabbitMQ RabbitMQConfig `mapstructure:",squash"`
}

// LoadConfig reads an env-style file. Variables set in the process environment win over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.SetDefault("PORT", ":4000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("BASE_URL", "http://localhost:3000")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// AMQPURI assembles the broker URI from the RabbitMQ section.
func (c *Config) AMQPURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// DatabaseURL is the DSN for the configured database.
func (c *Config) DatabaseURL() string {
	return DSN(c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name)
}

// Package config provides configuration management for the PayFast gateway service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
)

// Config holds all configuration for the PayFast gateway service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug    bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	LogRecords int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Listen     struct {
		Type     string `yaml:"type" env:"LISTEN_TYPE" env-default:"port"`
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5110"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env:"METRICS_BIND_IP" env-default:"0.0.0.0"`
		Port    string `yaml:"port" env:"METRICS_PORT" env-default:"5111"`
	} `yaml:"metrics"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Merchant struct {
		// Id and Key are assigned by PayFast when the merchant account is created
		Id         string `yaml:"id" env:"MERCHANT_ID" env-default:""`
		Key        string `yaml:"key" env:"MERCHANT_KEY" env-default:""`
		Passphrase string `yaml:"passphrase" env:"MERCHANT_PASSPHRASE" env-default:""`
		BaseUrl    string `yaml:"base_url" env:"MERCHANT_BASE_URL" env-default:"https://api.payfast.co.za/subscriptions"`
		// Testing appends testing=true to every gateway call (sandbox verification)
		Testing bool `yaml:"testing" env:"MERCHANT_TESTING" env-default:"false"`
		// callback urls are passed to the gateway verbatim
		ReturnUrl         string `yaml:"return_url" env:"MERCHANT_RETURN_URL" env-default:""`
		CancelUrl         string `yaml:"cancel_url" env:"MERCHANT_CANCEL_URL" env-default:""`
		NotifyUrl         string `yaml:"notify_url" env:"MERCHANT_NOTIFY_URL" env-default:""`
		RedirectUrl       string `yaml:"redirect_url" env:"MERCHANT_REDIRECT_URL" env-default:""`
		DonationReturnUrl string `yaml:"donation_return_url" env:"MERCHANT_DONATION_RETURN_URL" env-default:""`
		DonationNotifyUrl string `yaml:"donation_notify_url" env:"MERCHANT_DONATION_NOTIFY_URL" env-default:""`
	} `yaml:"merchant"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Environment variables take precedence over YAML values. See Config struct
// for the list of supported environment variables.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}

package config

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀取 需要使用讀寫鎖
*/
var configSingleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName   string `mapstructure:"MODULER_NAME"`
	Environment   string `mapstructure:"ENVIRONMENT"`
	ServerPort    string `mapstructure:"SERVER_PORT"`
	DbName        string `mapstructure:"POSTGRES_DB"`
	DbHost        string `mapstructure:"POSTGRES_HOST"`
	DbPort        string `mapstructure:"POSTGRES_PORT"`
	DbUser        string `mapstructure:"POSTGRES_USER"`
	DbPas         string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers  string `mapstructure:"KAFKA_BROKERS"`
	AuthTokenKey  string `mapstructure:"AUTH_TOKEN_KEY"`
	ImpBaseUrl    string `mapstructure:"IMP_BASE_URL"`
	ImpApiKey     string `mapstructure:"IMP_KEY"`
	ImpApiSecret  string `mapstructure:"IMP_SECRET"`
}

// GatewayConfigured 金流憑證是否齊全, 不齊全時跳過付款驗證(開發用)
func (c *Config) GatewayConfigured() bool {
	return c.ImpApiKey != "" && c.ImpApiSecret != ""
}

func GetConfig() *Config {
	initConfig()
	return configSingleton.get()
}

func (c *ConfigSingleTon) get() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// set 熱更新與讀取共用同一把鎖
func (c *ConfigSingleTon) set(cf *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cf
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			configSingleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				configSingleton.set(cf)
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					configSingleton.set(cf)
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤 由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}

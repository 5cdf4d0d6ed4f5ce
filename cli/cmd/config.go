package cmd

import (
	"context"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/snapshot"
	"github.com/malusev998/currency-converter/storage"
)

const (
	EnvPrefix         = "CURRENCY_CONVERTER"
	DefaultConfigFile = "./config.yml"
	DefaultHTTPAddr   = ":3000"
	DefaultTableName  = "exchange_rates"
)

type (
	StorageConfig map[storage.Provider]interface{}
	Config        struct {
		TTL           time.Duration
		Provider      currency.Provider
		Fetcher       fetchers.ExchangeRateAPIConfig
		Backend       snapshot.Backend
		BackendConfig interface{}
		Storage       []storage.Provider
		StorageConfig StorageConfig
		HTTPAddr      string
		Color         bool
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("ttl", currency.SnapshotTTL)
	v.SetDefault("provider", string(currency.ExchangeRateAPIProvider))
	v.SetDefault("fetcher.url", fetchers.ExchangeRateAPIURL)
	v.SetDefault("fetcher.timeout", time.Duration(0))
	v.SetDefault("fetcher.retries", 0)
	v.SetDefault("fetcher.backoff", 500*time.Millisecond)
	v.SetDefault("fetcher.rps", 0.0)
	v.SetDefault("cache.backend", string(snapshot.File))
	v.SetDefault("cache.currencies", snapshot.DefaultCatalogPath)
	v.SetDefault("cache.rates", snapshot.DefaultSnapshotPath)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "currency-converter:")
	v.SetDefault("archive.storage", []string{})
	v.SetDefault("archive.migrate", false)
	v.SetDefault("http.addr", DefaultHTTPAddr)
	v.SetDefault("color", true)
}

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]
	mysqlDriverConfig.ParseTime = true

	return mysqlDriverConfig.FormatDSN()
}

func getPostgresDSN(config map[string]string) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config["user"], config["password"]),
		Host:   config["addr"],
		Path:   "/" + config["db"],
	}

	sslMode := config["sslmode"]

	if sslMode == "" {
		sslMode = "disable"
	}

	dsn.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()

	return dsn.String()
}

func tableName(config map[string]string) string {
	if table := config["table"]; table != "" {
		return table
	}

	return DefaultTableName
}

func getConfig(ctx context.Context, v *viper.Viper, logger zerolog.Logger) (*Config, error) {
	provider, err := currency.ConvertToProviderFromString(v.GetString("provider"))

	if err != nil {
		return nil, err
	}

	backend, err := snapshot.ConvertToBackendFromString(v.GetString("cache.backend"))

	if err != nil {
		return nil, err
	}

	storages, err := storage.ConvertToProvidersFromStringSlice(v.GetStringSlice("archive.storage"))

	if err != nil {
		return nil, err
	}

	var backendConfig interface{} = snapshot.FileConfig{
		CatalogPath:  v.GetString("cache.currencies"),
		SnapshotPath: v.GetString("cache.rates"),
	}

	if backend == snapshot.Redis {
		backendConfig = snapshot.RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		}
	}

	mysqlConfig := v.GetStringMapString("databases.mysql")
	postgresConfig := v.GetStringMapString("databases.postgres")
	mongodbConfig := v.GetStringMapString("databases.mongodb")

	storageBaseConfig := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: v.GetBool("archive.migrate"),
	}

	return &Config{
		TTL:      v.GetDuration("ttl"),
		Provider: provider,
		Fetcher: fetchers.ExchangeRateAPIConfig{
			BaseConfig: fetchers.BaseConfig{
				URL:    v.GetString("fetcher.url"),
				Logger: logger,
			},
			Timeout:           v.GetDuration("fetcher.timeout"),
			Retries:           v.GetInt("fetcher.retries"),
			Backoff:           v.GetDuration("fetcher.backoff"),
			RequestsPerSecond: v.GetFloat64("fetcher.rps"),
		},
		Backend:       backend,
		BackendConfig: backendConfig,
		Storage:       storages,
		StorageConfig: StorageConfig{
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getMysqlDSN(mysqlConfig),
				TableName:        tableName(mysqlConfig),
			},
			storage.Postgres: storage.PostgresConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getPostgresDSN(postgresConfig),
				TableName:        tableName(postgresConfig),
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: mongodbConfig["uri"],
				Database:         mongodbConfig["db"],
				Collection:       tableName(mongodbConfig),
			},
		},
		HTTPAddr: v.GetString("http.addr"),
		Color:    v.GetBool("color"),
	}, nil
}

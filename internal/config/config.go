package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	supportedDbs = supportedType{
		"badger": {},
		"sqlite": {},
	}
	supportedEngines = supportedType{
		"inmemory": {},
	}
)

type Config struct {
	Datadir  string
	Port     uint32
	LogLevel int
	NoCORS   bool

	DbType string
	DbDir  string

	EngineType    string
	EngineID      string
	UnitPrice     uint64
	FeeBasisPoint uint64
	RoundDuration time.Duration

	SweepInterval time.Duration
}

func (c *Config) String() string {
	buf, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(buf)
}

var (
	Datadir       = "DATADIR"
	Port          = "PORT"
	LogLevel      = "LOG_LEVEL"
	NoCORS        = "NO_CORS"
	DbType        = "DB_TYPE"
	EngineType    = "ENGINE_TYPE"
	EngineID      = "ENGINE_ID"
	UnitPrice     = "UNIT_PRICE"
	FeeBasisPoint = "FEE_BASIS_POINTS"
	RoundDuration = "ROUND_DURATION"
	SweepInterval = "SWEEP_INTERVAL"

	defaultDatadir       = appDataDir("poold")
	defaultPort          = 7180
	defaultLogLevel      = 4
	defaultDbType        = "badger"
	defaultEngineType    = "inmemory"
	defaultEngineID      = "engine-regtest"
	defaultUnitPrice     = 10_000
	defaultFeeBps        = 500
	defaultRoundDuration = 5 * time.Minute
	defaultSweepInterval = time.Minute
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("POOL")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir)
	viper.SetDefault(Port, defaultPort)
	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(DbType, defaultDbType)
	viper.SetDefault(EngineType, defaultEngineType)
	viper.SetDefault(EngineID, defaultEngineID)
	viper.SetDefault(UnitPrice, defaultUnitPrice)
	viper.SetDefault(FeeBasisPoint, defaultFeeBps)
	viper.SetDefault(RoundDuration, defaultRoundDuration)
	viper.SetDefault(SweepInterval, defaultSweepInterval)

	if err := initDatadir(); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	dbType := viper.GetString(DbType)
	if _, ok := supportedDbs[dbType]; !ok {
		return nil, fmt.Errorf("unsupported db type: %s", dbType)
	}
	engineType := viper.GetString(EngineType)
	if _, ok := supportedEngines[engineType]; !ok {
		return nil, fmt.Errorf("unsupported engine type: %s", engineType)
	}

	return &Config{
		Datadir:       viper.GetString(Datadir),
		Port:          viper.GetUint32(Port),
		LogLevel:      viper.GetInt(LogLevel),
		NoCORS:        viper.GetBool(NoCORS),
		DbType:        dbType,
		DbDir:         filepath.Join(viper.GetString(Datadir), "db"),
		EngineType:    engineType,
		EngineID:      viper.GetString(EngineID),
		UnitPrice:     viper.GetUint64(UnitPrice),
		FeeBasisPoint: viper.GetUint64(FeeBasisPoint),
		RoundDuration: viper.GetDuration(RoundDuration),
		SweepInterval: viper.GetDuration(SweepInterval),
	}, nil
}

type supportedType map[string]struct{}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

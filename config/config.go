package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort       string
	MetricsPort       string
	MongoDBConfig     MongoDBConfig
	KafkaConfig       KafkaConfig
	TracingConfig     TracingConfig
	ReconcileInterval int
}

type MongoDBConfig struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		MongoDBConfig: MongoDBConfig{
			DBUser:     os.Getenv("DB_USER"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     os.Getenv("DB_PORT"),
			DBName:     os.Getenv("DB_NAME"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	if conf.ServicePort == "" {
		conf.ServicePort = "3000"
	}

	if conf.MetricsPort == "" {
		conf.MetricsPort = "9090"
	}

	if conf.MongoDBConfig.DBName == "" {
		conf.MongoDBConfig.DBName = "productRecommendation"
	}

	brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION"))
	if err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	reconcileInterval, err := strconv.Atoi(os.Getenv("RECONCILE_INTERVAL"))
	if err != nil || reconcileInterval <= 0 {
		reconcileInterval = 300
	}
	conf.ReconcileInterval = reconcileInterval

	return &conf
}

// MongoURI composes the connection string. Credentials select the SRV form
// used by hosted clusters; without them a plain host/port connection is made.
func (c *Config) MongoURI() string {
	if c.MongoDBConfig.DBUser != "" {
		return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			c.MongoDBConfig.DBUser, c.MongoDBConfig.DBPassword, c.MongoDBConfig.DBHost)
	}

	port := c.MongoDBConfig.DBPort
	if port == "" {
		port = "27017"
	}

	return fmt.Sprintf("mongodb://%s:%s", c.MongoDBConfig.DBHost, port)
}
